// Package irrx decodes the timed pulse trains emitted by infrared remote
// controls into numeric button codes.
//
// A Receiver samples the demodulated output of an IR receiver module at a
// fixed 50µs cadence, records the durations of the alternating active and
// idle pulses of one transmission, and matches the recorded frame against
// the timing grammars of the common remote-control protocols (NEC, Sony,
// RC5/RC6, Panasonic and friends). Frames no grammar claims are fingerprinted
// with a 32-bit hash so unknown remotes still produce stable codes.
package irrx

const (
	// TickUS is the duration of one sampler tick in microseconds. All
	// recorded pulse durations are counts of this quantum.
	TickUS = 50

	// GapUS is the idle time that separates two transmissions. An idle
	// pulse at least this long ends the frame being captured.
	GapUS    = 5000
	gapTicks = GapUS / TickUS

	// RawBufLen is the capacity of the duration buffer: the most pulse
	// durations one frame can record before capture is cut short.
	RawBufLen = 100

	// Repeat is the sentinel value decoded from a protocol's "button still
	// held" frame. It carries no payload of its own; see Receiver.Poll.
	Repeat uint64 = 0xFFFFFFFF

	// repeatPause is how many consecutive repeat frames are swallowed
	// before auto-repeat is taken to be deliberate.
	repeatPause = 3

	// markExcessUS corrects for receiver lag: active pulses measure about
	// 100µs longer than transmitted, idle pulses 100µs shorter.
	markExcessUS = 100
)

// Protocol identifies the remote-control protocol a frame was decoded as.
type Protocol int8

const (
	Unknown Protocol = iota // hash fallback, no grammar matched
	NEC
	Sony
	Sanyo
	Mitsubishi
	RC5
	RC6
	Panasonic
	LG
	JVC
	Samsung
)

var protoNames = [...]string{
	"unknown", "NEC", "Sony", "Sanyo", "Mitsubishi",
	"RC5", "RC6", "Panasonic", "LG", "JVC", "Samsung",
}

func (p Protocol) String() string {
	if p >= 0 && int(p) < len(protoNames) {
		return protoNames[p]
	}
	return "unknown"
}

// Code is the result of decoding one captured frame.
type Code struct {
	Proto Protocol
	Value uint64
	Bits  int

	// IsRepeat is set when the frame was a protocol repeat shape rather
	// than a fresh payload; Value is then the Repeat sentinel and Bits 0.
	IsRepeat bool
}

// Address returns the high word of a split-payload code. For Panasonic
// frames this is the device address portion of the 48-bit payload.
func (c Code) Address() uint32 { return uint32(c.Value >> 32) }

// Command returns the low word of a split-payload code.
func (c Code) Command() uint32 { return uint32(c.Value) }

// SplitNEC splits a decoded 32-bit NEC payload into its address and command
// fields, as they appear in the decoded value. The command is validated
// against its inverted copy; addresses whose second byte is not the inverse
// of the first are extended NEC and returned as the full 16 bits.
func SplitNEC(value uint32) (address uint16, command byte, ok bool) {
	addr := byte(value >> 24)
	addrInv := byte(value >> 16)
	command = byte(value >> 8)
	ok = command == ^byte(value)
	if addrInv == ^addr {
		address = uint16(addr)
	} else {
		address = uint16(addr)<<8 | uint16(addrInv)
	}
	return address, command, ok
}

// LevelFunc reports the input level at the instant of a tick: true while
// the receiver sees an active pulse (mark), false while idle (space).
type LevelFunc func() bool

// TickSource invokes a step function at the fixed TickUS cadence once
// started. Implementations deliver ticks from whatever periodic trigger the
// platform has; the step function never blocks.
type TickSource interface {
	Start(step func())
	Stop()
}

// Action is invoked when the code it is bound to is received.
type Action func()

// Binding pairs a decoded value with an action. Bindings are consulted in
// slice order and the first match wins, so more specific codes go first.
type Binding struct {
	Code   uint64
	Action Action
}

// Trace observes the decode engine: which matcher is being tried, which
// gave up, and what was finally accepted. Tracing never alters decoding.
// Implementations must not block; hooks run in the polling context.
type Trace interface {
	Enter(Protocol)
	Reject(Protocol)
	Accept(Code)
}
