// Package hal describes the handful of peripherals the dimmer firmware touches:
// one output pin, one 8-bit PWM timer channel and one UART.
//
// Target code provides a Hardware implementation backed by real registers
// (see avrhal and picohal) or by an operating system (termhal). Tests use halfake.
//
// None of the operations report errors. Register writes on a microcontroller
// have no feedback to check, so backends that can fail (an OS tty, a TinyGo
// machine.PWM) log the failure and carry on.
package hal

import "time"

// Hardware is the register-level surface used by the dimmer.
type Hardware interface {
	// SetPinDirection configures pin as an input or an output.
	SetPinDirection(pin Pin, dir Direction)
	// ConfigureTimer sets the timer waveform mode, compare channel polarity
	// and clock prescaler.
	ConfigureTimer(cfg TimerConfig)
	// WriteCompareRegister loads value into the compare register of ch.
	// The new value takes effect at the next counter wrap.
	WriteCompareRegister(ch Channel, value uint8)
	// ConfigureSerial sets the UART baud divisor, frame format and enables
	// the receiver and transmitter.
	ConfigureSerial(cfg SerialConfig)
	// TransmitByte places b in the transmit data register.
	// Callers must check IsTransmitReady first.
	TransmitByte(b byte)
	// ReceiveByte reads the receive data register.
	// Callers must check IsReceiveReady first.
	ReceiveByte() byte
	// IsReceiveReady reports whether a received byte is waiting.
	IsReceiveReady() bool
	// IsTransmitReady reports whether the transmit data register is empty.
	IsTransmitReady() bool
}

// Pin is a GPIO number in the backend's own numbering. AVR backends follow
// TinyGo's ATmega convention (PD0 = 0, PB0 = 8, PC0 = 16).
type Pin uint8

// Direction of a GPIO pin.
type Direction uint8

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// Channel selects one of the timer's compare outputs.
type Channel uint8

const (
	ChannelA Channel = iota
	ChannelB
)

func (c Channel) String() string {
	switch c {
	case ChannelA:
		return "A"
	case ChannelB:
		return "B"
	}
	return "?"
}

// WaveformMode is the timer's counting mode.
type WaveformMode uint8

const (
	// FastPWM8 counts 0..255 and wraps, producing one PWM period per count cycle.
	FastPWM8 WaveformMode = iota
)

// Top8 is the counter top value in 8-bit fast PWM mode.
const Top8 = 255

// Scale maps an 8-bit compare value onto a counter that runs 0..top, for
// backends whose PWM resolution is wider than 8 bits. 0 stays off and 255
// reaches top.
func Scale(value uint8, top uint32) uint32 {
	return uint32(uint64(top) * uint64(value) / Top8)
}

// Prescaler divides the system clock before it reaches the timer.
type Prescaler uint16

const (
	Prescale1    Prescaler = 1
	Prescale8    Prescaler = 8
	Prescale64   Prescaler = 64
	Prescale256  Prescaler = 256
	Prescale1024 Prescaler = 1024
)

// Valid reports whether p is one of the dividers the timer hardware offers.
func (p Prescaler) Valid() bool {
	switch p {
	case Prescale1, Prescale8, Prescale64, Prescale256, Prescale1024:
		return true
	}
	return false
}

// TimerConfig is the PWM timer setup.
type TimerConfig struct {
	Mode      WaveformMode
	Channel   Channel
	Prescaler Prescaler
	// Inverting sets the output low on compare match instead of high at bottom.
	Inverting bool
	// ClockHz is the system clock feeding the prescaler.
	ClockHz uint32
}

// Top returns the counter top value for the configured mode.
func (c TimerConfig) Top() uint32 {
	return Top8
}

// Frequency returns the PWM frequency in Hz, clock / (prescaler * (top+1)).
func (c TimerConfig) Frequency() float64 {
	if c.Prescaler == 0 || c.ClockHz == 0 {
		return 0
	}
	return float64(c.ClockHz) / (float64(c.Prescaler) * float64(c.Top()+1))
}

// Period returns the length of one PWM period.
func (c TimerConfig) Period() time.Duration {
	if c.ClockHz == 0 {
		return 0
	}
	ticks := uint64(c.Prescaler) * uint64(c.Top()+1)
	return time.Duration(ticks * uint64(time.Second) / uint64(c.ClockHz))
}

// Parity of a serial frame.
type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// SerialConfig is the UART setup.
type SerialConfig struct {
	// Divisor is the value loaded into the baud rate register.
	Divisor uint16
	// Baud is the bit rate the divisor was derived from. Backends that
	// take a bit rate directly (TinyGo machine.UART, an OS tty) use this.
	Baud     uint32
	DataBits uint8
	StopBits uint8
	Parity   Parity
	Receive  bool
	Transmit bool
}

// NewSerialConfig returns an 8N1 frame with both directions enabled.
func NewSerialConfig(clockHz, baud uint32) SerialConfig {
	return SerialConfig{
		Divisor:  BaudDivisor(clockHz, baud),
		Baud:     baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   ParityNone,
		Receive:  true,
		Transmit: true,
	}
}

// BaudDivisor computes the UART baud rate register value in normal speed
// mode, clock/16/baud - 1, with integer division at each step.
func BaudDivisor(clockHz, baud uint32) uint16 {
	if baud == 0 {
		return 0
	}
	n := clockHz / 16 / baud
	if n == 0 {
		return 0
	}
	return uint16(n - 1)
}
