package hal_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/harveysanders/serialdimmer/hal"
	"github.com/harveysanders/serialdimmer/hal/halfake"
)

func TestBaudDivisor(t *testing.T) {
	tests := []struct {
		clock, baud uint32
		want        uint16
	}{
		{8_000_000, 9600, 51},
		{16_000_000, 9600, 103},
		{16_000_000, 115200, 7},
		{8_000_000, 0, 0},
		{100, 9600, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hal.BaudDivisor(tt.clock, tt.baud), "clock=%d baud=%d", tt.clock, tt.baud)
	}
}

func TestNewSerialConfig_8N1(t *testing.T) {
	cfg := hal.NewSerialConfig(8_000_000, 9600)
	assert.Equal(t, hal.SerialConfig{
		Divisor:  51,
		Baud:     9600,
		DataBits: 8,
		StopBits: 1,
		Parity:   hal.ParityNone,
		Receive:  true,
		Transmit: true,
	}, cfg)
}

func TestTimerConfig_FrequencyAndPeriod(t *testing.T) {
	cfg := hal.TimerConfig{Mode: hal.FastPWM8, Prescaler: hal.Prescale64, ClockHz: 8_000_000}
	assert.Equal(t, uint32(255), cfg.Top())
	assert.InDelta(t, 488.28, cfg.Frequency(), 0.01)
	assert.Equal(t, 2048*time.Microsecond, cfg.Period())

	assert.Zero(t, hal.TimerConfig{}.Frequency())
	assert.Zero(t, hal.TimerConfig{}.Period())
}

func TestPrescalerValid(t *testing.T) {
	for _, p := range []hal.Prescaler{1, 8, 64, 256, 1024} {
		assert.True(t, p.Valid(), "%d", p)
	}
	for _, p := range []hal.Prescaler{0, 2, 32, 128} {
		assert.False(t, p.Valid(), "%d", p)
	}
}

func TestTransmitWaitsForEmptyRegister(t *testing.T) {
	hw := halfake.New()
	hw.TxBusyPolls = 3
	hal.Print(hw, "ok")
	assert.Equal(t, "ok", hw.Output())
}

func TestReceiveReturnsBytesInOrder(t *testing.T) {
	hw := halfake.New()
	hw.Feed("ab")
	require.Equal(t, byte('a'), hal.Receive(hw))
	require.Equal(t, byte('b'), hal.Receive(hw))
	assert.Zero(t, hw.Pending())
	assert.Equal(t, 2, hw.ReceivePolls(), "one ready check per byte")
}

func TestReceiveWaitsForData(t *testing.T) {
	hw := halfake.New()
	hw.OnStarve = func() { hw.Feed("z") }
	require.Equal(t, byte('z'), hal.Receive(hw))
	assert.Equal(t, 2, hw.ReceivePolls(), "ReceiveByte must not run before the flag is set")
}

func TestScale(t *testing.T) {
	tests := []struct {
		value uint8
		top   uint32
		want  uint32
	}{
		{0, 65535, 0},
		{255, 65535, 65535},
		{128, 65535, 32896},
		{1, 65535, 257},
		{255, 255, 255},
		{128, 255, 128},
		{255, 0, 0},
		{255, 0xFFFFFFFF, 0xFFFFFFFF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hal.Scale(tt.value, tt.top), "Scale(%d, %d)", tt.value, tt.top)
	}
}

func TestScale_MonotonicAndBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		top := rapid.Uint32().Draw(t, "top")
		v := rapid.Uint8Max(254).Draw(t, "value")

		lo, hi := hal.Scale(v, top), hal.Scale(v+1, top)
		if lo > hi {
			t.Fatalf("Scale(%d)=%d > Scale(%d)=%d for top %d", v, lo, v+1, hi, top)
		}
		if hi > top {
			t.Fatalf("Scale(%d, %d)=%d exceeds top", v+1, top, hi)
		}
	})
}
