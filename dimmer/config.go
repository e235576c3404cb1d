// Package dimmer sets an LED's PWM duty cycle from decimal numbers typed on a
// serial terminal.
//
// The firmware configures the peripherals once, prints a banner and then loops
// forever: print a prompt, read a line of digits terminated by '\r', write the
// value to the PWM compare register. Every byte typed is echoed back. Malformed
// input never produces an error: non-digits are skipped, an empty line is 0 and
// values above 255 wrap modulo 256.
package dimmer

import "github.com/harveysanders/serialdimmer/hal"

// DutyCycle is the 8-bit compare register value. With 8-bit fast PWM the
// output is high for (value+1)/256 of each period in non-inverting mode.
type DutyCycle uint8

const (
	DefaultClockHz   = 8_000_000 // ATmega328P on the internal 8 MHz oscillator, CKDIV8 off.
	DefaultBaud      = 9600
	DefaultLEDPin    = hal.Pin(9) // PB1, the OC1A output.
	DefaultPrescaler = hal.Prescale64

	DefaultBanner = "Hello from ATmega328!\r\n"
	DefaultPrompt = "\r\nEnter (0-255) for PWM duty cycle: "

	// LineTerminator ends a line of input.
	LineTerminator = '\r'
)

// Config holds the compile-time firmware constants.
type Config struct {
	ClockHz   uint32
	Baud      uint32
	LEDPin    hal.Pin
	Channel   hal.Channel
	Prescaler hal.Prescaler
	Inverting bool

	// InitialDuty is written to the compare register during initialization.
	InitialDuty DutyCycle

	Banner string
	Prompt string
}

// DefaultConfig returns the reference configuration: 8 MHz clock, 9600 8N1,
// Timer1 channel A on PB1 in 8-bit fast PWM with a /64 prescaler (about 488 Hz),
// LED fully on until the first value arrives.
func DefaultConfig() Config {
	return Config{
		ClockHz:     DefaultClockHz,
		Baud:        DefaultBaud,
		LEDPin:      DefaultLEDPin,
		Channel:     hal.ChannelA,
		Prescaler:   DefaultPrescaler,
		InitialDuty: 255,
		Banner:      DefaultBanner,
		Prompt:      DefaultPrompt,
	}
}

// TimerConfig returns the PWM timer setup for c.
func (c Config) TimerConfig() hal.TimerConfig {
	return hal.TimerConfig{
		Mode:      hal.FastPWM8,
		Channel:   c.Channel,
		Prescaler: c.Prescaler,
		Inverting: c.Inverting,
		ClockHz:   c.ClockHz,
	}
}

// SerialConfig returns the UART setup for c.
func (c Config) SerialConfig() hal.SerialConfig {
	return hal.NewSerialConfig(c.ClockHz, c.Baud)
}
