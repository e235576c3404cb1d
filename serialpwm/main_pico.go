//go:build rp2040 || rp2350

package main

import (
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/serialdimmer/dimmer"
	"github.com/harveysanders/serialdimmer/display"
	"github.com/harveysanders/serialdimmer/hal"
	"github.com/harveysanders/serialdimmer/hal/picohal"
)

// Pico: terminal on UART0 (GP0 TX, GP1 RX), LED on GP15 (PWM slice 7),
// optional 16x2 LCD on I2C0 (GP4 SDA, GP5 SCL). Logs go to USB serial.
func main() {
	// Give the USB serial monitor a moment to attach.
	time.Sleep(2 * time.Second)

	logger := slog.New(slog.NewTextHandler(machine.Serial, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	hw := picohal.New(picohal.Config{
		PWM:    machine.PWM7,
		LED:    machine.GP15,
		UART:   machine.UART0,
		TX:     machine.GP0,
		RX:     machine.GP1,
		Logger: logger,
	})

	cfg := dimmer.DefaultConfig()
	cfg.LEDPin = hal.Pin(machine.GP15)
	cfg.Banner = "Hello from Pico!\r\n"

	dimmer.InitPeripherals(hw, cfg)
	if err := hw.Err(); err != nil {
		printErrForever(logger, "peripheral init", slog.Any("reason", err))
	}

	c := dimmer.NewController(hw, cfg)

	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA: machine.GP4,
		SCL: machine.GP5,
	})
	if err != nil {
		logger.Warn("i2c:configure-failed", slog.String("reason", err.Error()))
	} else if lcd, err := display.Open(machine.I2C0); err != nil {
		logger.Warn("lcd:not-found", slog.String("reason", err.Error()))
	} else {
		status := display.New(lcd)
		status.ShowDuty(cfg.InitialDuty, uint32(cfg.InitialDuty))
		c.OnApply(status.ShowLine)
	}

	c.OnApply(func(l dimmer.Line) {
		logger.Info("duty:applied",
			slog.Uint64("duty", uint64(l.Duty())),
			slog.Uint64("raw", uint64(l.Raw)),
		)
	})
	c.Run()
}

// printErrForever logs msg @ 1hz. It blocks forever.
func printErrForever(logger *slog.Logger, msg string, args ...any) {
	for {
		logger.Error(msg, args...)
		time.Sleep(time.Second)
	}
}
