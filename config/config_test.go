package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harveysanders/serialdimmer/dimmer"
	"github.com/harveysanders/serialdimmer/hal"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("serial:\n  device: /dev/ttyUSB0\n"))
	require.NoError(t, err)

	assert.Equal(t, uint32(9600), cfg.Serial.Baud)
	assert.Equal(t, uint32(8_000_000), cfg.ClockHz)
	assert.Equal(t, uint16(64), cfg.PWM.Prescaler)
	assert.Equal(t, "A", cfg.PWM.Channel)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
	assert.Empty(t, cfg.GPIO.Chip)

	d := cfg.Dimmer()
	assert.Equal(t, dimmer.DefaultBanner, d.Banner)
	assert.Equal(t, dimmer.DefaultPrompt, d.Prompt)
	assert.Equal(t, dimmer.DutyCycle(255), d.InitialDuty)
	assert.Equal(t, uint16(51), d.SerialConfig().Divisor)
}

func TestLoad_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dimmer.yaml")
	err := os.WriteFile(path, []byte(`
serial:
  device: /dev/ttyAMA0
  baud: 19200
clock_hz: 16000000
pwm:
  prescaler: 256
  channel: b
  inverting: true
  pin: 18
gpio:
  line: GPIO18
log:
  level: debug
banner: ""
prompt: "duty> "
initial_duty: 0
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpiochip0", cfg.GPIO.Chip)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())

	d := cfg.Dimmer()
	assert.Equal(t, dimmer.Config{
		ClockHz:     16_000_000,
		Baud:        19200,
		LEDPin:      hal.Pin(18),
		Channel:     hal.ChannelB,
		Prescaler:   hal.Prescale256,
		Inverting:   true,
		InitialDuty: 0,
		Banner:      "",
		Prompt:      "duty> ",
	}, d)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing device", "serial: {baud: 9600}"},
		{"bad prescaler", "serial: {device: /dev/tty0}\npwm: {prescaler: 100}"},
		{"bad channel", "serial: {device: /dev/tty0}\npwm: {channel: C}"},
		{"bad level", "serial: {device: /dev/tty0}\nlog: {level: loud}"},
		{"duty too high", "serial: {device: /dev/tty0}\ninitial_duty: 256"},
		{"baud too fast", "serial: {device: /dev/tty0, baud: 1000000}"},
		{"not yaml", "serial: [1, 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BundledExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "serialpwm", "serialpwm.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Serial.Device)
	assert.Equal(t, "GPIO18", cfg.GPIO.Line)
	assert.InDelta(t, 488.28, cfg.Dimmer().TimerConfig().Frequency(), 0.01)
}
