package hal

// Transmit waits for the transmit data register to empty, then sends b.
// There is no timeout: a stuck transmitter blocks forever.
func Transmit(hw Hardware, b byte) {
	for !hw.IsTransmitReady() {
	}
	hw.TransmitByte(b)
}

// Receive waits for a byte to arrive and returns it.
// There is no timeout and no way to cancel the wait.
func Receive(hw Hardware) byte {
	for !hw.IsReceiveReady() {
	}
	return hw.ReceiveByte()
}

// Print transmits every byte of s in order.
func Print(hw Hardware, s string) {
	for i := 0; i < len(s); i++ {
		Transmit(hw, s[i])
	}
}
