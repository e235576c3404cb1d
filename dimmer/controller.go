package dimmer

import "github.com/harveysanders/serialdimmer/hal"

// State of the control loop.
type State uint8

const (
	StatePrompt State = iota
	StateRead
	StateApply
)

func (s State) String() string {
	switch s {
	case StatePrompt:
		return "prompt"
	case StateRead:
		return "read"
	case StateApply:
		return "apply"
	}
	return "unknown"
}

// ApplyHook observes each line after its value reaches the compare register.
type ApplyHook func(Line)

// Controller runs the prompt, read, apply cycle.
type Controller struct {
	hw      hal.Hardware
	cfg     Config
	reader  *Reader
	applier *Applier
	hooks   []ApplyHook

	state   State
	pending Line
	started bool
}

// NewController returns a Controller in the prompt state. It does not touch
// the hardware; call InitPeripherals first.
func NewController(hw hal.Hardware, cfg Config) *Controller {
	return &Controller{
		hw:      hw,
		cfg:     cfg,
		reader:  NewReader(hw),
		applier: NewApplier(hw, cfg.Channel, cfg.InitialDuty),
		state:   StatePrompt,
	}
}

// OnApply registers fn to run after every apply.
func (c *Controller) OnApply(fn ApplyHook) {
	c.hooks = append(c.hooks, fn)
}

// State returns the state the next Step will execute.
func (c *Controller) State() State { return c.state }

// Active returns the duty cycle currently in the compare register.
func (c *Controller) Active() DutyCycle { return c.applier.Active() }

// Start prints the banner. Only the first call has an effect.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true
	hal.Print(c.hw, c.cfg.Banner)
}

// Step executes the current state and moves to the next one.
// The read state blocks until a full line has arrived.
func (c *Controller) Step() {
	switch c.state {
	case StatePrompt:
		hal.Print(c.hw, c.cfg.Prompt)
		c.state = StateRead
	case StateRead:
		c.pending = c.reader.ReadLine()
		c.state = StateApply
	case StateApply:
		line := c.pending
		c.pending = Line{}
		c.applier.Apply(line.Duty())
		for _, fn := range c.hooks {
			fn(line)
		}
		c.state = StatePrompt
	}
}

// Cycle runs Steps until one apply has completed and returns the applied
// value. If the controller is mid-cycle it finishes the current cycle.
func (c *Controller) Cycle() DutyCycle {
	for {
		applying := c.state == StateApply
		c.Step()
		if applying {
			return c.applier.Active()
		}
	}
}

// Run prints the banner and cycles forever.
func (c *Controller) Run() {
	c.Start()
	for {
		c.Cycle()
	}
}
