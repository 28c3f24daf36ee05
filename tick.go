package irrx

import "time"

// Ticker is a TickSource driving the sampler from a goroutine at the TickUS
// cadence. It is the portable fallback: targets with a spare hardware timer
// interrupt should implement TickSource on top of that instead, since a
// goroutine ticker is at the mercy of the scheduler.
type Ticker struct {
	stop chan struct{}
}

func NewTicker() *Ticker {
	return &Ticker{stop: make(chan struct{})}
}

func (t *Ticker) Start(step func()) {
	go func() {
		tick := time.NewTicker(TickUS * time.Microsecond)
		defer tick.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-tick.C:
				step()
			}
		}
	}()
}

func (t *Ticker) Stop() {
	close(t.stop)
}
