//go:build avr

// Package avrhal drives an ATmega328P directly through its I/O registers:
// Timer1 for PWM on OC1A/OC1B and USART0 for the terminal.
package avrhal

import (
	"device/avr"
	"runtime/volatile"

	"github.com/harveysanders/serialdimmer/hal"
)

// Hardware is the ATmega328P backend. The zero value is ready to use.
type Hardware struct{}

// New returns the ATmega328P backend.
func New() *Hardware { return &Hardware{} }

// ddr returns the data direction register for pin and the pin's bit mask.
func ddr(pin hal.Pin) (*volatile.Register8, uint8) {
	mask := uint8(1) << (pin % 8)
	switch pin / 8 {
	case 0:
		return avr.DDRD, mask
	case 1:
		return avr.DDRB, mask
	default:
		return avr.DDRC, mask
	}
}

func (h *Hardware) SetPinDirection(pin hal.Pin, dir hal.Direction) {
	reg, mask := ddr(pin)
	if dir == hal.Output {
		reg.SetBits(mask)
	} else {
		reg.ClearBits(mask)
	}
}

// clockSelect maps a prescaler to the CS12..CS10 bits of TCCR1B.
func clockSelect(p hal.Prescaler) uint8 {
	switch p {
	case hal.Prescale1:
		return avr.TCCR1B_CS10
	case hal.Prescale8:
		return avr.TCCR1B_CS11
	case hal.Prescale64:
		return avr.TCCR1B_CS11 | avr.TCCR1B_CS10
	case hal.Prescale256:
		return avr.TCCR1B_CS12
	case hal.Prescale1024:
		return avr.TCCR1B_CS12 | avr.TCCR1B_CS10
	}
	return 0 // timer stopped
}

// ConfigureTimer puts Timer1 in mode 5 (fast PWM, 8-bit) with the compare
// output of cfg.Channel clearing on match and setting at bottom, or the
// reverse when inverting.
func (h *Hardware) ConfigureTimer(cfg hal.TimerConfig) {
	com := uint8(avr.TCCR1A_COM1A1)
	if cfg.Channel == hal.ChannelB {
		com = avr.TCCR1A_COM1B1
		if cfg.Inverting {
			com |= avr.TCCR1A_COM1B0
		}
	} else if cfg.Inverting {
		com |= avr.TCCR1A_COM1A0
	}
	avr.TCCR1A.Set(com | avr.TCCR1A_WGM10)
	avr.TCCR1B.Set(avr.TCCR1B_WGM12 | clockSelect(cfg.Prescaler))
}

func (h *Hardware) WriteCompareRegister(ch hal.Channel, value uint8) {
	// High byte first; the 16-bit write latches on the low byte.
	if ch == hal.ChannelB {
		avr.OCR1BH.Set(0)
		avr.OCR1BL.Set(value)
		return
	}
	avr.OCR1AH.Set(0)
	avr.OCR1AL.Set(value)
}

func (h *Hardware) ConfigureSerial(cfg hal.SerialConfig) {
	avr.UBRR0H.Set(uint8(cfg.Divisor >> 8))
	avr.UBRR0L.Set(uint8(cfg.Divisor))

	var enable uint8
	if cfg.Receive {
		enable |= avr.UCSR0B_RXEN0
	}
	if cfg.Transmit {
		enable |= avr.UCSR0B_TXEN0
	}
	avr.UCSR0B.Set(enable)

	frame := frameBits(cfg.DataBits)
	if cfg.StopBits == 2 {
		frame |= avr.UCSR0C_USBS0
	}
	switch cfg.Parity {
	case hal.ParityEven:
		frame |= avr.UCSR0C_UPM01
	case hal.ParityOdd:
		frame |= avr.UCSR0C_UPM01 | avr.UCSR0C_UPM00
	}
	avr.UCSR0C.Set(frame)
}

// frameBits returns the UCSZ01:UCSZ00 character size bits.
func frameBits(dataBits uint8) uint8 {
	switch dataBits {
	case 5:
		return 0
	case 6:
		return avr.UCSR0C_UCSZ00
	case 7:
		return avr.UCSR0C_UCSZ01
	}
	return avr.UCSR0C_UCSZ01 | avr.UCSR0C_UCSZ00
}

func (h *Hardware) TransmitByte(b byte) { avr.UDR0.Set(b) }

func (h *Hardware) ReceiveByte() byte { return avr.UDR0.Get() }

func (h *Hardware) IsReceiveReady() bool { return avr.UCSR0A.HasBits(avr.UCSR0A_RXC0) }

func (h *Hardware) IsTransmitReady() bool { return avr.UCSR0A.HasBits(avr.UCSR0A_UDRE0) }

var _ hal.Hardware = (*Hardware)(nil)
