//go:build !avr && !rp2040 && !rp2350 && !(linux && !baremetal)

package main

func main() {
	println("serialpwm: no hardware backend for this target")
}
