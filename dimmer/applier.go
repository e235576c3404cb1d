package dimmer

import "github.com/harveysanders/serialdimmer/hal"

// Applier writes duty cycles to one PWM compare channel.
type Applier struct {
	hw      hal.Hardware
	channel hal.Channel
	active  DutyCycle
}

// NewApplier returns an Applier for ch. Active reports initial until the
// first Apply.
func NewApplier(hw hal.Hardware, ch hal.Channel, initial DutyCycle) *Applier {
	return &Applier{hw: hw, channel: ch, active: initial}
}

// Apply loads d into the compare register. The timer picks it up at the next
// counter wrap; a second Apply before then replaces the first.
func (a *Applier) Apply(d DutyCycle) {
	a.hw.WriteCompareRegister(a.channel, uint8(d))
	a.active = d
}

// Active returns the value most recently written.
func (a *Applier) Active() DutyCycle {
	return a.active
}
