package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
)

type entry struct {
	session   *domain.Session
	expiresAt time.Time
}

// SessionRepository keeps sessions in process memory. Every Save extends a
// session's lifetime by the configured TTL.
type SessionRepository struct {
	mu       sync.Mutex
	items    map[uuid.UUID]entry
	ttl      time.Duration
	now      func() time.Time
	onExpire func(*domain.Session)
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		items: make(map[uuid.UUID]entry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// OnExpire registers a callback run for every session removed by Sweep.
func (r *SessionRepository) OnExpire(fn func(*domain.Session)) {
	r.mu.Lock()
	r.onExpire = fn
	r.mu.Unlock()
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = entry{session: s.Clone(), expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.items[id]
	if !ok || r.expired(e) {
		return nil, domain.ErrSessionNotFound
	}
	return e.session.Clone(), nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep removes expired sessions and reports how many it removed.
func (r *SessionRepository) Sweep() int {
	r.mu.Lock()
	var expired []*domain.Session
	for id, e := range r.items {
		if r.expired(e) {
			expired = append(expired, e.session)
			delete(r.items, id)
		}
	}
	onExpire := r.onExpire
	r.mu.Unlock()

	if onExpire != nil {
		for _, s := range expired {
			onExpire(s)
		}
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is cancelled.
func (r *SessionRepository) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *SessionRepository) expired(e entry) bool {
	return r.ttl > 0 && !r.now().Before(e.expiresAt)
}
