package hub

import (
	"sync"
	"time"
)

// MessageCooldown is the minimum interval between consecutive CHAT or
// PRIVATE sends from the same username.
const MessageCooldown = 500 * time.Millisecond

// RateLimiter tracks the last send time per username and throttles senders
// inside the cooldown window. Usernames with no recorded send are never
// throttled.
type RateLimiter struct {
	mu       sync.Mutex
	lastSend map[string]time.Time
	cooldown time.Duration
}

func NewRateLimiter(cooldown time.Duration) *RateLimiter {
	if cooldown <= 0 {
		cooldown = MessageCooldown
	}
	return &RateLimiter{
		lastSend: make(map[string]time.Time),
		cooldown: cooldown,
	}
}

// ShouldThrottle reports whether a send at now falls inside the cooldown
// window of the identity's previous send.
func (l *RateLimiter) ShouldThrottle(identity string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.throttled(identity, now)
}

// RecordSend stores now as the identity's last send time.
func (l *RateLimiter) RecordSend(identity string, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastSend[identity] = now
}

// RemainingCooldown returns how long the identity must still wait before the
// next send, or zero when it may send immediately.
func (l *RateLimiter) RemainingCooldown(identity string, now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.remaining(identity, now)
}

// Acquire checks and records one send attempt under a single lock, so two
// near-simultaneous sends from the same identity cannot both pass. It
// returns the remaining cooldown and whether the send is allowed; on success
// now becomes the identity's last send time.
func (l *RateLimiter) Acquire(identity string, now time.Time) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.throttled(identity, now) {
		return l.remaining(identity, now), false
	}
	l.lastSend[identity] = now
	return 0, true
}

func (l *RateLimiter) throttled(identity string, now time.Time) bool {
	last, ok := l.lastSend[identity]
	if !ok {
		return false
	}
	return now.Sub(last) < l.cooldown
}

func (l *RateLimiter) remaining(identity string, now time.Time) time.Duration {
	last, ok := l.lastSend[identity]
	if !ok {
		return 0
	}
	if remaining := l.cooldown - now.Sub(last); remaining > 0 {
		return remaining
	}
	return 0
}
