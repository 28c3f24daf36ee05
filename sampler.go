package irrx

import "sync/atomic"

// Capture states. The sampler owns all transitions except Ready -> Idle,
// which Reset performs from the polling context.
const (
	stateIdle int32 = iota
	stateMark
	stateSpace
	stateReady
)

// Receiver captures IR pulse trains and decodes them into button codes.
//
// The sampler half runs in the tick context (Sample); everything else runs
// in the polling context. The duration buffer and tick counter are written
// only by the sampler, and the sampler stops writing once the capture state
// is Ready, so the polling context may read them freely while a frame is
// pending. The state word itself is the handoff and is accessed atomically.
type Receiver struct {
	level LevelFunc
	src   TickSource
	trace Trace

	state  int32 // atomic; one of the state* values
	timer  uint16
	raw    [RawBufLen]uint16
	rawLen int

	// repeat debounce, polling context only
	lastValue uint64
	repeats   int
}

// New returns a Receiver reading its input level from level. The receiver
// does nothing until Enable arms a tick source.
func New(level LevelFunc) *Receiver {
	return &Receiver{level: level}
}

// Enable arms the tick source. Kept separate from construction: on most
// targets the environment fiddles with timers during startup, so the
// cadence should be armed once setup is done.
func (r *Receiver) Enable(src TickSource) {
	r.src = src
	src.Start(r.Sample)
}

// Disable stops the tick source armed by Enable.
func (r *Receiver) Disable() {
	if r.src != nil {
		r.src.Stop()
		r.src = nil
	}
}

// SetTrace attaches an observer to the decode engine. Pass nil to detach.
func (r *Receiver) SetTrace(t Trace) { r.trace = t }

// Sample is the per-tick step. The tick source calls it every TickUS; it
// samples the input level and advances the capture state machine. Constant
// time, no allocation, no blocking.
func (r *Receiver) Sample() {
	active := r.level()
	r.timer++
	if r.rawLen >= RawBufLen {
		// buffer full before a gap: hand over the truncated frame
		atomic.StoreInt32(&r.state, stateReady)
	}
	switch atomic.LoadInt32(&r.state) {
	case stateIdle:
		if active {
			if r.timer < gapTicks {
				// too short to be a frame gap: noise
				r.timer = 0
			} else {
				r.rawLen = 0
				r.push(r.timer)
				r.timer = 0
				atomic.StoreInt32(&r.state, stateMark)
			}
		} else if r.timer > gapTicks {
			// a long gap; clamp so the counter can't wrap while we wait
			r.timer = gapTicks
		}
	case stateMark:
		if !active {
			r.push(r.timer)
			r.timer = 0
			atomic.StoreInt32(&r.state, stateSpace)
		}
	case stateSpace:
		if active {
			r.push(r.timer)
			r.timer = 0
			atomic.StoreInt32(&r.state, stateMark)
		} else if r.timer >= gapTicks {
			// trailing gap: the frame is complete
			atomic.StoreInt32(&r.state, stateReady)
		}
	case stateReady:
		r.timer = 0
	}
}

func (r *Receiver) push(t uint16) {
	r.raw[r.rawLen] = t
	r.rawLen++
}

// Ready reports whether a complete frame is waiting to be decoded.
func (r *Receiver) Ready() bool {
	return atomic.LoadInt32(&r.state) == stateReady
}

// Reset discards the pending frame and resumes capturing. It does nothing
// unless the capture state is Ready; the buffer is cleared before the state
// store publishes Idle, so a tick landing mid-reset never sees a torn
// intermediate.
func (r *Receiver) Reset() {
	if atomic.LoadInt32(&r.state) != stateReady {
		return
	}
	r.rawLen = 0
	atomic.StoreInt32(&r.state, stateIdle)
}
