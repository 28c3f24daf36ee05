//go:build tinygo

package irrx

import "machine"

// PinLevel returns a LevelFunc reading an IR receiver module wired to pin.
// The common demodulating receivers have a built-in pull-up and drive the
// pin low while they see carrier, so the level is inverted here.
func PinLevel(pin machine.Pin) LevelFunc {
	pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	return func() bool {
		return !pin.Get()
	}
}

// NewOnPin wires a Receiver to an IR receiver module on pin. Call Enable
// with a TickSource once the rest of setup is done.
func NewOnPin(pin machine.Pin) *Receiver {
	return New(PinLevel(pin))
}
