//go:build rp2040 || rp2350

package main

import (
	"log/slog"
	"machine"

	"github.com/harveysanders/serialdimmer/dimmer"
	"github.com/harveysanders/serialdimmer/hal"
	"github.com/harveysanders/serialdimmer/hal/picohal"
)

func main() {
	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// GP14/GP15 are driven by PWM slice 7 on the RP2040/RP2350.
	hw := picohal.New(picohal.Config{
		PWM:    machine.PWM7,
		LED:    machine.GP15,
		Logger: logger,
	})

	cfg := dimmer.DefaultConfig()
	cfg.LEDPin = hal.Pin(machine.GP15)
	cfg.InitialDuty = 0
	dimmer.InitPWM(hw, cfg)
	if err := hw.Err(); err != nil {
		println("could not configure PWM:", err.Error())
		return
	}

	// One full sweep takes 256 steps, about 2.5 seconds.
	ramp := dimmer.NewRamp(dimmer.NewApplier(hw, cfg.Channel, cfg.InitialDuty))
	ramp.Run(dimmer.DefaultRampDelay)
}
