//go:build tinygo

package display

import (
	"errors"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/hd44780i2c"
)

// Open attaches a 16x2 HD44780 behind a PCF8574 backpack on a configured I2C
// bus. The common backpack addresses 0x27 and 0x3F are tried in that order.
func Open(bus drivers.I2C) (*hd44780i2c.Device, error) {
	for _, addr := range []uint8{0x27, 0x3F} {
		// A NACK on the probe write means nothing answered at addr.
		if err := bus.Tx(uint16(addr), []byte{0}, nil); err != nil {
			continue
		}
		dev := hd44780i2c.New(bus, addr)
		err := dev.Configure(hd44780i2c.Config{
			Width:  16,
			Height: 2,
		})
		if err != nil {
			return nil, errors.New("lcd configure: " + err.Error())
		}
		return &dev, nil
	}
	return nil, errors.New("LCD not found on addresses: 0x27, 0x3f")
}
