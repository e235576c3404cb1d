// Package config loads the YAML settings for running the dimmer on a Linux
// bench board. Microcontroller builds use dimmer.DefaultConfig instead.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harveysanders/serialdimmer/dimmer"
	"github.com/harveysanders/serialdimmer/hal"
)

type Config struct {
	Serial  SerialConfig `yaml:"serial"`
	ClockHz uint32       `yaml:"clock_hz"`
	PWM     PWMConfig    `yaml:"pwm"`
	GPIO    GPIOConfig   `yaml:"gpio"`
	Log     LogConfig    `yaml:"log"`

	Banner      *string `yaml:"banner"`
	Prompt      *string `yaml:"prompt"`
	InitialDuty *int    `yaml:"initial_duty"`
}

type SerialConfig struct {
	Device string `yaml:"device"`
	Baud   uint32 `yaml:"baud"`
}

type PWMConfig struct {
	Prescaler uint16 `yaml:"prescaler"`
	Channel   string `yaml:"channel"`
	Inverting bool   `yaml:"inverting"`
	// Pin is reported to the hardware layer as the LED pin number.
	Pin uint8 `yaml:"pin"`
}

type GPIOConfig struct {
	Chip     string `yaml:"chip"`
	Line     string `yaml:"line"`
	Consumer string `yaml:"consumer"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads and validates the file at path.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML, fills in defaults and validates the result.
func Parse(b []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Serial.Device == "" {
		return Config{}, fmt.Errorf("serial.device is required")
	}
	if cfg.Serial.Baud == 0 {
		cfg.Serial.Baud = dimmer.DefaultBaud
	}
	if cfg.ClockHz == 0 {
		cfg.ClockHz = dimmer.DefaultClockHz
	}
	if cfg.PWM.Prescaler == 0 {
		cfg.PWM.Prescaler = uint16(dimmer.DefaultPrescaler)
	}
	if !hal.Prescaler(cfg.PWM.Prescaler).Valid() {
		return Config{}, fmt.Errorf("pwm.prescaler must be one of 1, 8, 64, 256, 1024, got %d", cfg.PWM.Prescaler)
	}
	if cfg.PWM.Channel == "" {
		cfg.PWM.Channel = "A"
	}
	if _, err := parseChannel(cfg.PWM.Channel); err != nil {
		return Config{}, err
	}
	if cfg.GPIO.Line != "" && cfg.GPIO.Chip == "" {
		cfg.GPIO.Chip = "gpiochip0"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if _, err := parseLevel(cfg.Log.Level); err != nil {
		return Config{}, err
	}
	if cfg.InitialDuty != nil && (*cfg.InitialDuty < 0 || *cfg.InitialDuty > 255) {
		return Config{}, fmt.Errorf("initial_duty must be within 0..255, got %d", *cfg.InitialDuty)
	}
	if cfg.ClockHz/16 < cfg.Serial.Baud {
		return Config{}, fmt.Errorf("serial.baud %d is too fast for clock_hz %d", cfg.Serial.Baud, cfg.ClockHz)
	}
	return cfg, nil
}

func parseChannel(s string) (hal.Channel, error) {
	switch strings.ToUpper(s) {
	case "A":
		return hal.ChannelA, nil
	case "B":
		return hal.ChannelB, nil
	}
	return 0, fmt.Errorf("pwm.channel must be A or B, got %q", s)
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// LogLevel returns the configured slog level.
func (c Config) LogLevel() slog.Level {
	l, _ := parseLevel(c.Log.Level)
	return l
}

// Dimmer converts c into the firmware configuration.
func (c Config) Dimmer() dimmer.Config {
	d := dimmer.DefaultConfig()
	d.ClockHz = c.ClockHz
	d.Baud = c.Serial.Baud
	d.LEDPin = hal.Pin(c.PWM.Pin)
	d.Channel, _ = parseChannel(c.PWM.Channel)
	d.Prescaler = hal.Prescaler(c.PWM.Prescaler)
	d.Inverting = c.PWM.Inverting
	if c.Banner != nil {
		d.Banner = *c.Banner
	}
	if c.Prompt != nil {
		d.Prompt = *c.Prompt
	}
	if c.InitialDuty != nil {
		d.InitialDuty = dimmer.DutyCycle(*c.InitialDuty)
	}
	return d
}
