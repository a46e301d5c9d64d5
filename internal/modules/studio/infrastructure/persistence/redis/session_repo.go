package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linkme/cardstudio/internal/modules/studio/domain"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "studio:session:"

// SessionRepository stores sessions as JSON documents with a sliding TTL,
// so several server instances can share one creation flow.
type SessionRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *goredis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, key(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	data, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.Personal.SocialLinks == nil {
		s.Personal.SocialLinks = map[string]string{}
	}
	if s.Business.SocialLinks == nil {
		s.Business.SocialLinks = map[string]string{}
	}
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
