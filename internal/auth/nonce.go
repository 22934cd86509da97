package auth

import (
	"sync/atomic"
	"time"
)

// Nonce generates strictly increasing millisecond nonces.
//
// Values track the wall clock in Unix milliseconds. When two calls land in
// the same millisecond, or the clock steps backwards, the previous value plus
// one is returned instead.
type Nonce struct {
	last  atomic.Int64
	clock func() time.Time
}

// NewNonce creates a nonce generator. A nil clock uses time.Now.
func NewNonce(clock func() time.Time) *Nonce {
	if clock == nil {
		clock = time.Now
	}
	return &Nonce{clock: clock}
}

// Next returns the next nonce. Safe for concurrent use.
func (n *Nonce) Next() int64 {
	now := n.clock().UnixMilli()
	for {
		last := n.last.Load()
		next := now
		if next <= last {
			next = last + 1
		}
		if n.last.CompareAndSwap(last, next) {
			return next
		}
	}
}
