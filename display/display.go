// Package display shows the active duty cycle on a character LCD.
//
// Example usage:
//
//	lcd, err := display.Open(machine.I2C0)
//	if err == nil {
//	    status := display.New(lcd)
//	    controller.OnApply(status.ShowLine)
//	}
package display

import (
	"strconv"

	"github.com/harveysanders/serialdimmer/dimmer"
)

// Screen is a character display. *hd44780i2c.Device satisfies it.
type Screen interface {
	ClearDisplay()
	SetCursor(x, y uint8)
	Print(data []byte)
}

// Display renders duty cycle updates on a 16x2 Screen.
type Display struct {
	screen  Screen
	columns int
	// Preallocated so updates don't exhaust the heap.
	line1 []byte
	line2 []byte
}

// New returns a 16x2 display.
func New(screen Screen) *Display {
	return &Display{
		screen:  screen,
		columns: 16,
		line1:   make([]byte, 0, 24),
		line2:   make([]byte, 0, 24),
	}
}

// ShowLine displays the value of l. It matches dimmer.ApplyHook.
func (d *Display) ShowLine(l dimmer.Line) {
	d.ShowDuty(l.Duty(), l.Raw)
}

// ShowDuty prints "Duty: NNN/255" and the on-time percentage. When raw differs
// from duty the typed value wrapped, and it is shown on the second line.
func (d *Display) ShowDuty(duty dimmer.DutyCycle, raw uint32) {
	d.line1 = d.line1[:0]
	d.line1 = append(d.line1, "Duty: "...)
	d.line1 = strconv.AppendUint(d.line1, uint64(duty), 10)
	d.line1 = append(d.line1, "/255"...)

	d.line2 = d.line2[:0]
	d.line2 = strconv.AppendUint(d.line2, Percent(duty), 10)
	d.line2 = append(d.line2, '%')
	if uint32(duty) != raw {
		d.line2 = append(d.line2, " (from "...)
		d.line2 = strconv.AppendUint(d.line2, uint64(raw), 10)
		d.line2 = append(d.line2, ')')
	}
	d.display(d.line1, d.line2)
}

// Percent returns duty as a whole percentage of full scale, rounded to nearest.
func Percent(duty dimmer.DutyCycle) uint64 {
	return (uint64(duty)*100 + 127) / 255
}

// display prints both lines, truncated in place to the column width.
func (d *Display) display(line1, line2 []byte) {
	d.screen.ClearDisplay()
	d.screen.SetCursor(0, 0)
	if len(line1) > d.columns {
		d.screen.Print(line1[:d.columns])
	} else {
		d.screen.Print(line1)
	}

	d.screen.SetCursor(0, 1)
	if len(line2) > d.columns {
		d.screen.Print(line2[:d.columns])
	} else {
		d.screen.Print(line2)
	}
}
