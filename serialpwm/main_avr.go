//go:build avr

package main

import (
	"github.com/harveysanders/serialdimmer/dimmer"
	"github.com/harveysanders/serialdimmer/hal/avrhal"
)

// ATmega328P: terminal on USART0 (PD0/PD1), LED on PB1 (OC1A).
func main() {
	hw := avrhal.New()
	cfg := dimmer.DefaultConfig()

	dimmer.InitPeripherals(hw, cfg)
	dimmer.NewController(hw, cfg).Run()
}
