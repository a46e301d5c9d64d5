package application

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
)

type stopper interface {
	Stop() bool
}

// afterFunc matches time.AfterFunc so tests can drive the clock.
type afterFunc func(d time.Duration, f func()) stopper

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

type copyKey struct {
	session uuid.UUID
	profile domain.ProfileType
}

type copyTimer struct {
	gen   uint64
	timer stopper
}

// CopyTimers runs one acknowledgement timer per session and profile type.
// Triggering again before expiry replaces the running timer, so timers never
// stack and only the latest trigger can fire.
type CopyTimers struct {
	mu     sync.Mutex
	timers map[copyKey]*copyTimer
	window time.Duration
	after  afterFunc
	onIdle func(sessionID uuid.UUID, pt domain.ProfileType)
}

func NewCopyTimers(window time.Duration, onIdle func(uuid.UUID, domain.ProfileType)) *CopyTimers {
	return &CopyTimers{
		timers: make(map[copyKey]*copyTimer),
		window: window,
		after:  realAfterFunc,
		onIdle: onIdle,
	}
}

// Trigger starts or restarts the acknowledgement window.
func (c *CopyTimers) Trigger(sessionID uuid.UUID, pt domain.ProfileType) {
	key := copyKey{sessionID, pt}

	c.mu.Lock()
	defer c.mu.Unlock()

	var gen uint64
	if t, ok := c.timers[key]; ok {
		t.timer.Stop()
		gen = t.gen + 1
	}
	entry := &copyTimer{gen: gen}
	entry.timer = c.after(c.window, func() { c.expire(key, gen) })
	c.timers[key] = entry
}

// Active reports whether a window is currently running.
func (c *CopyTimers) Active(sessionID uuid.UUID, pt domain.ProfileType) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.timers[copyKey{sessionID, pt}]
	return ok
}

// StopSession cancels every timer of a session.
func (c *CopyTimers) StopSession(sessionID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, t := range c.timers {
		if key.session == sessionID {
			t.timer.Stop()
			delete(c.timers, key)
		}
	}
}

func (c *CopyTimers) expire(key copyKey, gen uint64) {
	c.mu.Lock()
	t, ok := c.timers[key]
	if !ok || t.gen != gen {
		// superseded by a later trigger
		c.mu.Unlock()
		return
	}
	delete(c.timers, key)
	c.mu.Unlock()

	if c.onIdle != nil {
		c.onIdle(key.session, key.profile)
	}
}
