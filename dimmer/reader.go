package dimmer

import "github.com/harveysanders/serialdimmer/hal"

// Line is one line of terminal input as the reader saw it.
type Line struct {
	// Raw is the decimal accumulator before truncation. It wraps at 32 bits.
	Raw uint32
	// Echoed counts bytes received and echoed, terminator included.
	Echoed int
	// Ignored counts non-digit bytes other than the terminator.
	Ignored int
}

// Duty truncates Raw to the compare register width (Raw mod 256).
func (l Line) Duty() DutyCycle {
	return DutyCycle(l.Raw)
}

// Reader parses decimal numbers from the UART.
type Reader struct {
	hw hal.Hardware
}

// NewReader returns a Reader on hw.
func NewReader(hw hal.Hardware) *Reader {
	return &Reader{hw: hw}
}

// ReadLine blocks until a '\r' arrives. Each byte is echoed as soon as it is
// received; digits are folded into the accumulator and anything else is
// dropped. After the terminator a '\n' is sent so the terminal moves to a new
// line.
func (r *Reader) ReadLine() Line {
	var line Line
	for {
		b := hal.Receive(r.hw)
		hal.Transmit(r.hw, b)
		line.Echoed++
		if b == LineTerminator {
			break
		}
		if b < '0' || b > '9' {
			line.Ignored++
			continue
		}
		line.Raw = line.Raw*10 + uint32(b-'0')
	}
	hal.Transmit(r.hw, '\n')
	return line
}

// ReadDecimal reads one line and returns its truncated value.
func (r *Reader) ReadDecimal() DutyCycle {
	return r.ReadLine().Duty()
}
