package termhal

import (
	"sync"
	"time"
)

// OutputLine is a digital output. *gpiocdev.Line satisfies it.
type OutputLine interface {
	SetValue(value int) error
}

// SoftPWM toggles an output line from a goroutine to approximate a hardware
// 8-bit PWM channel. Timing is only as good as the OS scheduler, which is
// plenty for an LED.
type SoftPWM struct {
	line OutputLine

	mu        sync.Mutex
	period    time.Duration
	duty      uint8
	inverting bool

	stop chan struct{}
	done chan struct{}
}

// NewSoftPWM starts driving line with the given period at 0% duty.
func NewSoftPWM(line OutputLine, period time.Duration) *SoftPWM {
	p := &SoftPWM{
		line:   line,
		period: period,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// Configure changes the period and polarity. Takes effect next period.
func (p *SoftPWM) Configure(period time.Duration, inverting bool) {
	p.mu.Lock()
	p.period = period
	p.inverting = inverting
	p.mu.Unlock()
}

// Set changes the compare value. Takes effect next period.
func (p *SoftPWM) Set(duty uint8) {
	p.mu.Lock()
	p.duty = duty
	p.mu.Unlock()
}

// Duty returns the current compare value.
func (p *SoftPWM) Duty() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duty
}

// Close stops the goroutine and leaves the line at its idle level.
func (p *SoftPWM) Close() error {
	close(p.stop)
	<-p.done
	p.mu.Lock()
	idle := 0
	if p.inverting {
		idle = 1
	}
	p.mu.Unlock()
	return p.line.SetValue(idle)
}

// split returns how long the line is high and low in one period.
// A compare value of 255 keeps the line on for the whole period.
func split(period time.Duration, duty uint8) (on, off time.Duration) {
	on = period * time.Duration(duty) / 255
	return on, period - on
}

func (p *SoftPWM) run() {
	defer close(p.done)
	t := time.NewTimer(0)
	defer t.Stop()
	<-t.C
	for {
		p.mu.Lock()
		on, off := split(p.period, p.duty)
		high, low := 1, 0
		if p.inverting {
			high, low = 0, 1
		}
		p.mu.Unlock()

		if on > 0 {
			_ = p.line.SetValue(high)
			if !p.wait(t, on) {
				return
			}
		}
		if off > 0 {
			_ = p.line.SetValue(low)
			if !p.wait(t, off) {
				return
			}
		}
		if on <= 0 && off <= 0 {
			// Zero period: nothing to toggle, idle until stopped.
			if !p.wait(t, time.Millisecond) {
				return
			}
		}
	}
}

// wait sleeps for d and reports false if the PWM was stopped meanwhile.
func (p *SoftPWM) wait(t *time.Timer, d time.Duration) bool {
	t.Reset(d)
	select {
	case <-t.C:
		return true
	case <-p.stop:
		return false
	}
}
