package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinBurst(t *testing.T) {
	l := NewLimiter(10, 5)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(), "call %d should be within burst", i)
	}
}

func TestDeniesWhenExhausted(t *testing.T) {
	l := NewLimiter(1, 2)

	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
}

func TestRefillsOverTime(t *testing.T) {
	l := NewLimiter(100, 1)

	assert.True(t, l.Allow())
	assert.False(t, l.Allow())

	// 100 tokens/s: 50ms is plenty for one token.
	time.Sleep(50 * time.Millisecond)
	assert.True(t, l.Allow())
}

func TestBurstCapsAccumulation(t *testing.T) {
	l := NewLimiter(10, 3)

	// Long enough to refill past the cap if it were unbounded.
	time.Sleep(350 * time.Millisecond)

	granted := 0
	for i := 0; i < 10; i++ {
		if l.Allow() {
			granted++
		}
	}
	assert.Equal(t, 3, granted)
}
