//go:build linux && !baremetal

// Package termhal runs the dimmer on a Linux board for bench testing. The
// terminal is a tty opened with github.com/pkg/term and the LED is a GPIO line
// from the kernel's character device, pulsed in software.
package termhal

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/pkg/term"
	"github.com/warthog618/go-gpiocdev"

	"github.com/harveysanders/serialdimmer/hal"
)

// Options for Open.
type Options struct {
	// Device is the tty path, e.g. /dev/ttyUSB0.
	Device string
	// Baud is used until ConfigureSerial is called.
	Baud int
	// Chip and Line name the LED output, e.g. "gpiochip0" and "GPIO18".
	// With Line empty, compare values are only logged.
	Chip string
	Line string
	// Consumer labels the requested line. Defaults to "serialdimmer".
	Consumer string
	Logger   *slog.Logger
}

// Hardware is the Linux bench backend.
type Hardware struct {
	tty  *term.Term
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	pwm  *SoftPWM
	log  *slog.Logger

	compare [2]uint8
	buf     [1]byte
}

// Open opens the tty in raw mode and, if configured, requests the LED line.
func Open(opts Options) (*Hardware, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Device == "" {
		return nil, fmt.Errorf("termhal: serial device is required")
	}
	baud := opts.Baud
	if baud == 0 {
		baud = 9600
	}
	tty, err := term.Open(opts.Device, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("termhal: open %s: %w", opts.Device, err)
	}
	h := &Hardware{tty: tty, log: logger}

	if opts.Line == "" {
		return h, nil
	}
	consumer := opts.Consumer
	if consumer == "" {
		consumer = "serialdimmer"
	}
	chip, err := gpiocdev.NewChip(opts.Chip)
	if err != nil {
		_ = tty.Close()
		return nil, fmt.Errorf("termhal: open gpio chip %q: %w", opts.Chip, err)
	}
	offset, err := chip.FindLine(opts.Line)
	if err != nil {
		_ = chip.Close()
		_ = tty.Close()
		return nil, fmt.Errorf("termhal: gpio line %q: %w", opts.Line, err)
	}
	line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		_ = chip.Close()
		_ = tty.Close()
		return nil, fmt.Errorf("termhal: request gpio line %q: %w", opts.Line, err)
	}
	h.chip = chip
	h.line = line
	return h, nil
}

// Close stops the software PWM and releases the tty and GPIO line.
func (h *Hardware) Close() error {
	if h.pwm != nil {
		_ = h.pwm.Close()
		h.pwm = nil
	}
	if h.line != nil {
		_ = h.line.Close()
		h.line = nil
	}
	if h.chip != nil {
		_ = h.chip.Close()
		h.chip = nil
	}
	return h.tty.Close()
}

// SetPinDirection reconfigures the LED line. There is only one line, so pin
// is informational.
func (h *Hardware) SetPinDirection(pin hal.Pin, dir hal.Direction) {
	h.log.Debug("gpio:direction", slog.Int("pin", int(pin)), slog.String("dir", dir.String()))
	if h.line == nil {
		return
	}
	var err error
	if dir == hal.Output {
		err = h.line.Reconfigure(gpiocdev.AsOutput(0))
	} else {
		err = h.line.Reconfigure(gpiocdev.AsInput)
	}
	if err != nil {
		h.log.Error("gpio:reconfigure-failed", slog.String("reason", err.Error()))
	}
}

// ConfigureTimer starts the software PWM at the period the hardware timer
// would run at, or updates it if already running.
func (h *Hardware) ConfigureTimer(cfg hal.TimerConfig) {
	period := cfg.Period()
	h.log.Info("pwm:configured",
		slog.Duration("period", period),
		slog.String("channel", cfg.Channel.String()),
		slog.Bool("inverting", cfg.Inverting),
	)
	if h.line == nil {
		return
	}
	if h.pwm == nil {
		h.pwm = NewSoftPWM(h.line, period)
	}
	h.pwm.Configure(period, cfg.Inverting)
}

func (h *Hardware) WriteCompareRegister(ch hal.Channel, value uint8) {
	h.compare[ch&1] = value
	h.log.Info("pwm:compare", slog.String("channel", ch.String()), slog.Uint64("value", uint64(value)))
	if h.pwm != nil {
		h.pwm.Set(value)
	}
}

// Compare returns the last value written to ch.
func (h *Hardware) Compare(ch hal.Channel) uint8 { return h.compare[ch&1] }

func (h *Hardware) ConfigureSerial(cfg hal.SerialConfig) {
	err := h.tty.SetSpeed(int(cfg.Baud))
	if err != nil {
		h.log.Error("uart:speed-failed", slog.String("reason", err.Error()))
	}
	err = h.tty.SetRaw()
	if err != nil {
		h.log.Error("uart:raw-failed", slog.String("reason", err.Error()))
	}
}

func (h *Hardware) TransmitByte(b byte) {
	h.buf[0] = b
	_, err := h.tty.Write(h.buf[:])
	if err != nil {
		h.log.Error("uart:write-failed", slog.String("reason", err.Error()))
	}
}

func (h *Hardware) ReceiveByte() byte {
	var b [1]byte
	_, err := h.tty.Read(b[:])
	if err != nil {
		h.log.Error("uart:read-failed", slog.String("reason", err.Error()))
		return 0
	}
	return b[0]
}

// IsReceiveReady polls the tty's input queue. An empty poll yields the
// processor so the software PWM goroutine keeps running.
func (h *Hardware) IsReceiveReady() bool {
	n, err := h.tty.Available()
	if err != nil || n == 0 {
		runtime.Gosched()
		time.Sleep(time.Millisecond)
		return false
	}
	return true
}

func (h *Hardware) IsTransmitReady() bool { return true }

var _ hal.Hardware = (*Hardware)(nil)
