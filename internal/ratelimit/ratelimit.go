// Package ratelimit provides the token bucket applied to inbound game
// messages. Paddle intents are cheap to apply but arrive at client input
// frequency; the bucket keeps one misbehaving connection from saturating
// its room's lock.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a token bucket refilled continuously at rate tokens per
// second, holding at most burst tokens. One limiter per connection.
type Limiter struct {
	rate   float64
	burst  int
	tokens float64
	last   time.Time
	mu     sync.Mutex
}

// NewLimiter returns a full bucket.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Allow consumes one token if available and reports whether the message
// should be processed.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(l.last).Seconds()
	l.last = now

	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}

	if l.tokens >= 1 {
		l.tokens--
		return true
	}
	return false
}
