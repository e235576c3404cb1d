package dimmer

import "github.com/harveysanders/serialdimmer/hal"

// InitPeripherals configures the UART, the LED pin and the PWM timer, then
// loads cfg.InitialDuty into the compare register.
//
// Every step is an unconditional register write, so calling it again leaves
// the hardware in the same state.
func InitPeripherals(hw hal.Hardware, cfg Config) {
	hw.ConfigureSerial(cfg.SerialConfig())
	InitPWM(hw, cfg)
}

// InitPWM configures only the LED pin and PWM timer, for programs that do
// not use the terminal.
func InitPWM(hw hal.Hardware, cfg Config) {
	hw.SetPinDirection(cfg.LEDPin, hal.Output)
	hw.ConfigureTimer(cfg.TimerConfig())
	hw.WriteCompareRegister(cfg.Channel, uint8(cfg.InitialDuty))
}
