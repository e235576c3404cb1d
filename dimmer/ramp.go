package dimmer

import "time"

// DefaultRampDelay is the pause between ramp steps.
const DefaultRampDelay = 10 * time.Millisecond

// Ramp sweeps the duty cycle upward one step at a time, wrapping from 255
// back to 0. It is the unattended alternative to the serial control loop.
type Ramp struct {
	applier *Applier
	next    DutyCycle
}

// NewRamp returns a Ramp starting at 0.
func NewRamp(a *Applier) *Ramp {
	return &Ramp{applier: a}
}

// Tick applies the next value and returns it.
func (r *Ramp) Tick() DutyCycle {
	d := r.next
	r.applier.Apply(d)
	r.next++
	return d
}

// Run ticks forever, sleeping delay between steps.
func (r *Ramp) Run(delay time.Duration) {
	for {
		r.Tick()
		time.Sleep(delay)
	}
}
