//go:build linux && !baremetal

package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/harveysanders/serialdimmer/config"
	"github.com/harveysanders/serialdimmer/dimmer"
	"github.com/harveysanders/serialdimmer/hal/termhal"
)

// Bench mode: run the firmware loop against a tty and a gpiochip line.
func main() {
	configPath := flag.String("config", "serialpwm.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config:load-failed", slog.String("path", *configPath), slog.Any("reason", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))

	hw, err := termhal.Open(termhal.Options{
		Device:   cfg.Serial.Device,
		Baud:     int(cfg.Serial.Baud),
		Chip:     cfg.GPIO.Chip,
		Line:     cfg.GPIO.Line,
		Consumer: cfg.GPIO.Consumer,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("hal:open-failed", slog.Any("reason", err))
		os.Exit(1)
	}
	// Run never returns; release the GPIO line and tty on the way out.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		logger.Info("serialpwm stopping", slog.String("signal", s.String()))
		if err := hw.Close(); err != nil {
			logger.Error("hal:close-failed", slog.Any("reason", err))
		}
		os.Exit(0)
	}()

	dc := cfg.Dimmer()
	logger.Info("serialpwm starting",
		slog.String("device", cfg.Serial.Device),
		slog.Uint64("baud", uint64(dc.Baud)),
		slog.Float64("pwmHz", dc.TimerConfig().Frequency()),
		slog.String("gpio", cfg.GPIO.Line),
		slog.Uint64("initialDuty", uint64(dc.InitialDuty)),
	)

	dimmer.InitPeripherals(hw, dc)
	c := dimmer.NewController(hw, dc)
	c.OnApply(func(l dimmer.Line) {
		logger.Debug("duty:applied",
			slog.Uint64("raw", uint64(l.Raw)),
			slog.Uint64("duty", uint64(l.Duty())),
			slog.Int("ignored", l.Ignored),
		)
	})
	c.Run()
}
