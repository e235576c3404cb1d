//go:build avr

package main

import (
	"github.com/harveysanders/serialdimmer/dimmer"
	"github.com/harveysanders/serialdimmer/hal/avrhal"
)

func main() {
	hw := avrhal.New()
	cfg := dimmer.DefaultConfig()
	cfg.InitialDuty = 0
	dimmer.InitPWM(hw, cfg)

	dimmer.NewRamp(dimmer.NewApplier(hw, cfg.Channel, cfg.InitialDuty)).Run(dimmer.DefaultRampDelay)
}
