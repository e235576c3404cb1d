// Package halfake is an in-memory hal.Hardware for tests.
package halfake

import (
	"bytes"
	"sync"

	"github.com/harveysanders/serialdimmer/hal"
)

// Registers is a snapshot of everything the firmware configures.
// Two snapshots compare equal with == when the hardware is in the same state.
type Registers struct {
	LEDPin    hal.Pin
	LEDDir    hal.Direction
	PinSet    bool
	Timer     hal.TimerConfig
	Serial    hal.SerialConfig
	CompareA  uint8
	CompareB  uint8
	TimerSet  bool
	SerialSet bool
}

// Hardware records register writes and serves scripted serial input.
type Hardware struct {
	mu sync.Mutex

	regs    Registers
	history []uint8
	in      []byte
	out     bytes.Buffer

	// TxBusyPolls is the number of IsTransmitReady polls that report busy
	// before each transmitted byte.
	TxBusyPolls int
	txBusy      int

	// OnStarve is called when IsReceiveReady is polled with no input left.
	// Tests running a forever loop set it to runtime.Goexit to end the goroutine.
	OnStarve func()

	polls int
}

// New returns an empty fake.
func New() *Hardware {
	return &Hardware{}
}

// Feed appends s to the pending serial input.
func (h *Hardware) Feed(s string) {
	h.mu.Lock()
	h.in = append(h.in, s...)
	h.mu.Unlock()
}

// Pending returns the number of unread input bytes.
func (h *Hardware) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.in)
}

// Output returns everything transmitted so far.
func (h *Hardware) Output() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.out.String()
}

// ResetOutput discards captured output.
func (h *Hardware) ResetOutput() {
	h.mu.Lock()
	h.out.Reset()
	h.mu.Unlock()
}

// Registers returns the current register snapshot.
func (h *Hardware) Registers() Registers {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.regs
}

// CompareHistory returns every value written to a compare register, oldest first.
func (h *Hardware) CompareHistory() []uint8 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]uint8(nil), h.history...)
}

// ReceivePolls returns how many times IsReceiveReady has been called.
func (h *Hardware) ReceivePolls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.polls
}

func (h *Hardware) SetPinDirection(pin hal.Pin, dir hal.Direction) {
	h.mu.Lock()
	h.regs.LEDPin = pin
	h.regs.LEDDir = dir
	h.regs.PinSet = true
	h.mu.Unlock()
}

func (h *Hardware) ConfigureTimer(cfg hal.TimerConfig) {
	h.mu.Lock()
	h.regs.Timer = cfg
	h.regs.TimerSet = true
	h.mu.Unlock()
}

func (h *Hardware) WriteCompareRegister(ch hal.Channel, value uint8) {
	h.mu.Lock()
	switch ch {
	case hal.ChannelA:
		h.regs.CompareA = value
	case hal.ChannelB:
		h.regs.CompareB = value
	}
	h.history = append(h.history, value)
	h.mu.Unlock()
}

func (h *Hardware) ConfigureSerial(cfg hal.SerialConfig) {
	h.mu.Lock()
	h.regs.Serial = cfg
	h.regs.SerialSet = true
	h.mu.Unlock()
}

func (h *Hardware) TransmitByte(b byte) {
	h.mu.Lock()
	h.out.WriteByte(b)
	h.txBusy = 0
	h.mu.Unlock()
}

func (h *Hardware) ReceiveByte() byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.in) == 0 {
		return 0
	}
	b := h.in[0]
	h.in = h.in[1:]
	return b
}

func (h *Hardware) IsReceiveReady() bool {
	h.mu.Lock()
	h.polls++
	ready := len(h.in) > 0
	starve := h.OnStarve
	h.mu.Unlock()
	if !ready && starve != nil {
		starve()
	}
	return ready
}

func (h *Hardware) IsTransmitReady() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.txBusy < h.TxBusyPolls {
		h.txBusy++
		return false
	}
	return true
}

var _ hal.Hardware = (*Hardware)(nil)
