//go:build rp2040 || rp2350

// Package picohal runs the dimmer on a Raspberry Pi Pico through TinyGo's
// machine package. The RP2040/RP2350 PWM slices have a 16-bit counter, so the
// 8-bit duty cycle is scaled to the slice's Top().
package picohal

import (
	"errors"
	"log/slog"
	"machine"
	"time"

	"github.com/harveysanders/serialdimmer/hal"
)

// PWM is the subset of a TinyGo PWM peripheral the backend needs.
// *machine.PWM satisfies it on the RP2040 and RP2350.
type PWM interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
	SetInverting(channel uint8, inverting bool)
}

// Config selects the peripherals used by the backend.
type Config struct {
	PWM    PWM
	LED    machine.Pin
	UART   *machine.UART
	TX, RX machine.Pin
	Logger *slog.Logger
}

// Hardware is the Pico backend.
type Hardware struct {
	pwm    PWM
	led    machine.Pin
	uart   *machine.UART
	tx, rx machine.Pin
	log    *slog.Logger

	ch    uint8
	chOK  bool
	err   error
	pin   hal.Pin
	timer hal.TimerConfig
}

// New returns a backend using the peripherals in cfg.
func New(cfg Config) *Hardware {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hardware{
		pwm:  cfg.PWM,
		led:  cfg.LED,
		uart: cfg.UART,
		tx:   cfg.TX,
		rx:   cfg.RX,
		log:  logger,
	}
}

// Err returns the first configuration failure, if any.
func (h *Hardware) Err() error { return h.err }

func (h *Hardware) fail(msg string, err error) {
	h.log.Error(msg, slog.String("reason", err.Error()))
	if h.err == nil {
		h.err = errors.New(msg + ": " + err.Error())
	}
}

// SetPinDirection configures the LED pin. The pin number is the GPIO number,
// so GP15 is hal.Pin(15).
func (h *Hardware) SetPinDirection(pin hal.Pin, dir hal.Direction) {
	h.pin = pin
	mode := machine.PinInput
	if dir == hal.Output {
		mode = machine.PinOutput
	}
	machine.Pin(pin).Configure(machine.PinConfig{Mode: mode})
}

// ConfigureTimer sets the PWM slice period to match an 8-bit fast PWM timer
// with the same clock and prescaler, then attaches the LED pin to its channel.
func (h *Hardware) ConfigureTimer(cfg hal.TimerConfig) {
	h.timer = cfg
	period := cfg.Period()
	if period <= 0 {
		period = 2 * time.Millisecond
	}
	err := h.pwm.Configure(machine.PWMConfig{Period: uint64(period)})
	if err != nil {
		h.fail("pwm:configure-failed", err)
		return
	}
	ch, err := h.pwm.Channel(h.led)
	if err != nil {
		h.fail("pwm:channel-failed", err)
		return
	}
	h.ch = ch
	h.chOK = true
	h.pwm.SetInverting(ch, cfg.Inverting)
	h.log.Info("pwm:configured",
		slog.Int64("periodNS", int64(period)),
		slog.Uint64("top", uint64(h.pwm.Top())),
	)
}

// WriteCompareRegister scales value from 0..255 to 0..Top(). The compare
// channel follows the LED pin, so ch is not consulted.
func (h *Hardware) WriteCompareRegister(ch hal.Channel, value uint8) {
	if !h.chOK {
		return
	}
	h.pwm.Set(h.ch, hal.Scale(value, h.pwm.Top()))
}

func (h *Hardware) ConfigureSerial(cfg hal.SerialConfig) {
	err := h.uart.Configure(machine.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       h.tx,
		RX:       h.rx,
	})
	if err != nil {
		h.fail("uart:configure-failed", err)
		return
	}
	parity := machine.ParityNone
	switch cfg.Parity {
	case hal.ParityEven:
		parity = machine.ParityEven
	case hal.ParityOdd:
		parity = machine.ParityOdd
	}
	err = h.uart.SetFormat(cfg.DataBits, cfg.StopBits, parity)
	if err != nil {
		h.fail("uart:format-failed", err)
	}
}

func (h *Hardware) TransmitByte(b byte) {
	// WriteByte waits on the TX FIFO itself.
	_ = h.uart.WriteByte(b)
}

func (h *Hardware) ReceiveByte() byte {
	b, err := h.uart.ReadByte()
	if err != nil {
		return 0
	}
	return b
}

func (h *Hardware) IsReceiveReady() bool { return h.uart.Buffered() > 0 }

func (h *Hardware) IsTransmitReady() bool { return true }

var _ hal.Hardware = (*Hardware)(nil)
