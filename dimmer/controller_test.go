package dimmer

import (
	"runtime"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harveysanders/serialdimmer/hal"
	"github.com/harveysanders/serialdimmer/hal/halfake"
)

func TestInitPeripherals(t *testing.T) {
	hw := halfake.New()
	cfg := DefaultConfig()
	InitPeripherals(hw, cfg)

	regs := hw.Registers()
	assert.True(t, regs.PinSet)
	assert.Equal(t, hal.Pin(9), regs.LEDPin)
	assert.Equal(t, hal.Output, regs.LEDDir)

	require.True(t, regs.TimerSet)
	assert.Equal(t, hal.TimerConfig{
		Mode:      hal.FastPWM8,
		Channel:   hal.ChannelA,
		Prescaler: hal.Prescale64,
		ClockHz:   8_000_000,
	}, regs.Timer)

	require.True(t, regs.SerialSet)
	assert.Equal(t, uint16(51), regs.Serial.Divisor)
	assert.Equal(t, uint8(8), regs.Serial.DataBits)
	assert.Equal(t, uint8(1), regs.Serial.StopBits)
	assert.True(t, regs.Serial.Receive)
	assert.True(t, regs.Serial.Transmit)

	assert.Equal(t, uint8(255), regs.CompareA)
	assert.Empty(t, hw.Output(), "initialization must not transmit")
}

func TestInitPWM_LeavesSerialAlone(t *testing.T) {
	hw := halfake.New()
	cfg := DefaultConfig()
	cfg.InitialDuty = 0
	InitPWM(hw, cfg)

	regs := hw.Registers()
	assert.True(t, regs.PinSet)
	assert.True(t, regs.TimerSet)
	assert.False(t, regs.SerialSet)
	assert.Equal(t, []uint8{0}, hw.CompareHistory())
}

func TestInitPeripherals_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channel = hal.ChannelB
	cfg.Inverting = true

	once := halfake.New()
	InitPeripherals(once, cfg)
	twice := halfake.New()
	InitPeripherals(twice, cfg)
	InitPeripherals(twice, cfg)

	assert.Equal(t, once.Registers(), twice.Registers())
}

func TestController_StateSequence(t *testing.T) {
	hw := halfake.New()
	hw.Feed("128\r")
	c := NewController(hw, DefaultConfig())

	require.Equal(t, StatePrompt, c.State())
	c.Step()
	assert.Equal(t, DefaultPrompt, hw.Output())
	require.Equal(t, StateRead, c.State())

	c.Step()
	require.Equal(t, StateApply, c.State())
	assert.Empty(t, hw.CompareHistory(), "nothing applied before the apply state")
	assert.Equal(t, DutyCycle(255), c.Active())

	c.Step()
	require.Equal(t, StatePrompt, c.State())
	assert.Equal(t, []uint8{128}, hw.CompareHistory())
	assert.Equal(t, DutyCycle(128), c.Active())
}

func TestController_Cycle(t *testing.T) {
	hw := halfake.New()
	hw.Feed("260\r\r2x5\r")
	c := NewController(hw, DefaultConfig())

	assert.Equal(t, DutyCycle(4), c.Cycle())
	assert.Equal(t, DutyCycle(0), c.Cycle())
	assert.Equal(t, DutyCycle(25), c.Cycle())
	assert.Equal(t, []uint8{4, 0, 25}, hw.CompareHistory())

	p := DefaultPrompt
	assert.Equal(t, p+"260\r\n"+p+"\r\n"+p+"2x5\r\n", hw.Output())
}

func TestController_StartPrintsBannerOnce(t *testing.T) {
	hw := halfake.New()
	c := NewController(hw, DefaultConfig())
	c.Start()
	c.Start()
	assert.Equal(t, DefaultBanner, hw.Output())
}

func TestController_ApplyHooks(t *testing.T) {
	hw := halfake.New()
	hw.Feed("1a2\r")
	c := NewController(hw, DefaultConfig())

	var seen []Line
	c.OnApply(func(l Line) {
		// The register already holds the value when hooks run.
		assert.Equal(t, l.Duty(), c.Active())
		seen = append(seen, l)
	})
	c.Cycle()

	require.Len(t, seen, 1)
	assert.Equal(t, Line{Raw: 12, Echoed: 4, Ignored: 1}, seen[0])
}

func TestController_ActiveTracksLastCompletedLine(t *testing.T) {
	hw := halfake.New()
	cfg := DefaultConfig()
	InitPeripherals(hw, cfg)
	c := NewController(hw, cfg)

	inputs := []struct {
		line string
		want DutyCycle
	}{
		{"10\r", 10},
		{"300\r", 44},
		{"x\r", 0},
		{"255\r", 255},
	}
	for _, in := range inputs {
		hw.Feed(in.line)
		c.Step() // prompt
		c.Step() // read
		assert.Equal(t, hw.Registers().CompareA, uint8(c.Active()), "register and active value diverged before apply")
		c.Step() // apply
		assert.Equal(t, in.want, c.Active())
		assert.Equal(t, uint8(in.want), hw.Registers().CompareA)
		assert.Equal(t, DefaultPrompt+in.line+"\n", hw.Output())
		hw.ResetOutput()
	}
}

func TestController_RunLoopsUntilInputRunsOut(t *testing.T) {
	defer leaktest.Check(t)()

	hw := halfake.New()
	hw.Feed("10\r20\r")
	hw.OnStarve = runtime.Goexit
	c := NewController(hw, DefaultConfig())

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not reach the third read")
	}

	assert.Equal(t, []uint8{10, 20}, hw.CompareHistory())
	p := DefaultPrompt
	assert.Equal(t, DefaultBanner+p+"10\r\n"+p+"20\r\n"+p, hw.Output())
	assert.Equal(t, StateRead, c.State())
}

func TestRamp_WrapsAround(t *testing.T) {
	hw := halfake.New()
	r := NewRamp(NewApplier(hw, hal.ChannelA, 0))

	for i := 0; i < 256; i++ {
		require.Equal(t, DutyCycle(i), r.Tick())
	}
	assert.Equal(t, DutyCycle(0), r.Tick())

	history := hw.CompareHistory()
	require.Len(t, history, 257)
	assert.Equal(t, uint8(255), history[255])
	assert.Equal(t, uint8(0), history[256])
}
