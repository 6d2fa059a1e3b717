package session

import (
	"sync"
	"time"
)

// DefaultLockTimeout is the inactivity period before an automatic lock.
const DefaultLockTimeout = 5 * time.Minute

// IdleTimer is a re-armable inactivity countdown backed by one time.Timer.
//
// Each Arm starts a new epoch. onExpire receives the epoch it fired for,
// so the owner can ignore expiries from an earlier arming.
type IdleTimer struct {
	mu       sync.Mutex
	timeout  time.Duration
	onExpire func(epoch uint64)

	timer    *time.Timer
	armed    bool
	epoch    uint64
	deadline time.Time
}

// NewIdleTimer returns a disarmed timer.
func NewIdleTimer(timeout time.Duration, onExpire func(epoch uint64)) *IdleTimer {
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	return &IdleTimer{timeout: timeout, onExpire: onExpire}
}

// Timeout returns the configured countdown.
func (t *IdleTimer) Timeout() time.Duration {
	return t.timeout
}

// Arm starts a new countdown and returns its epoch.
func (t *IdleTimer) Arm() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.epoch++
	t.armed = true
	t.deadline = time.Now().Add(t.timeout)
	if t.timer == nil {
		t.timer = time.AfterFunc(t.timeout, t.expire)
	} else {
		t.timer.Reset(t.timeout)
	}
	return t.epoch
}

// Reset restarts the countdown if armed. It reports whether it was.
func (t *IdleTimer) Reset() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.armed {
		return false
	}
	t.deadline = time.Now().Add(t.timeout)
	t.timer.Reset(t.timeout)
	return true
}

// Disarm stops the countdown. It is safe to call repeatedly.
func (t *IdleTimer) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.armed = false
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Armed reports whether a countdown is running.
func (t *IdleTimer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

func (t *IdleTimer) expire() {
	t.mu.Lock()
	// a Reset that raced with this call moved the deadline and rescheduled
	if !t.armed || time.Now().Before(t.deadline) {
		t.mu.Unlock()
		return
	}
	t.armed = false
	epoch := t.epoch
	t.mu.Unlock()

	t.onExpire(epoch)
}
