//go:build !avr && !rp2040 && !rp2350

package main

func main() {
	println("ramp: no PWM backend for this target")
}
