package irrx_test

import (
	"fmt"

	"github.com/lodann/irrx"
)

// readPin stands in for a platform level source, e.g. irrx.PinLevel on a
// TinyGo target.
var readPin = func() bool { return false }

func ExampleReceiver_Poll() {
	rx := irrx.New(readPin)
	rx.Enable(irrx.NewTicker())

	buttons := []irrx.Binding{
		{Code: 0x20DF10EF, Action: func() { fmt.Println("power") }},
		{Code: 0x20DF40BF, Action: func() { fmt.Println("volume up") }},
	}
	for {
		rx.Poll(buttons)
	}
}
