package usecase

import (
	"math/rand/v2"
	"time"
)

// Latency emulates a network round trip with a bounded random delay.
// The wait cannot be cancelled: a caller that gives up does not stop the
// operation behind it.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// DefaultLatency matches a 100-399ms round trip.
var DefaultLatency = Latency{Min: 100 * time.Millisecond, Max: 400 * time.Millisecond}

func (l Latency) Enabled() bool {
	return l.Max > 0
}

func (l Latency) Next() time.Duration {
	if !l.Enabled() {
		return 0
	}
	if l.Max <= l.Min {
		return l.Min
	}
	return l.Min + rand.N(l.Max-l.Min)
}

func (l Latency) Wait() {
	if d := l.Next(); d > 0 {
		time.Sleep(d)
	}
}
