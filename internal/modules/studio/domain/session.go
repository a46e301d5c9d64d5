package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is one mounted card-creation flow. It owns both drafts and the
// template selection, which is deliberately kept off the drafts.
type Session struct {
	ID         uuid.UUID                 `json:"id"`
	ActiveType ProfileType               `json:"activeType"`
	Template   Template                  `json:"template"`
	Personal   ProfileDraft              `json:"personal"`
	Business   ProfileDraft              `json:"business"`
	CopiedAt   map[ProfileType]time.Time `json:"copiedAt,omitempty"`
	CreatedAt  time.Time                 `json:"createdAt"`
	UpdatedAt  time.Time                 `json:"updatedAt"`
}

// NewSession returns a session with two empty drafts.
func NewSession(active ProfileType, now time.Time) *Session {
	if active != ProfileBusiness {
		active = ProfilePersonal
	}
	return &Session{
		ID:         uuid.New(),
		ActiveType: active,
		Template:   TemplateModern,
		Personal:   NewDraft(),
		Business:   NewDraft(),
		CopiedAt:   map[ProfileType]time.Time{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Draft returns a pointer to the draft of the given type.
func (s *Session) Draft(t ProfileType) (*ProfileDraft, error) {
	switch t {
	case ProfilePersonal:
		return &s.Personal, nil
	case ProfileBusiness:
		return &s.Business, nil
	}
	return nil, ErrInvalidProfileType
}

// ImageKeys returns every preview blob key held by the session.
func (s *Session) ImageKeys() []string {
	var keys []string
	for _, d := range []ProfileDraft{s.Personal, s.Business} {
		if d.ImageKey != "" {
			keys = append(keys, d.ImageKey)
		}
	}
	return keys
}

// MarkCopied records a copy of the profile URL at now.
func (s *Session) MarkCopied(t ProfileType, now time.Time) {
	if s.CopiedAt == nil {
		s.CopiedAt = map[ProfileType]time.Time{}
	}
	s.CopiedAt[t] = now
}

// CopyState returns the copy acknowledgement for a profile type.
func (s *Session) CopyState(t ProfileType, now time.Time, window time.Duration) CopyAck {
	return CopyAckAt(s.CopiedAt[t], now, window)
}

// Clone returns a deep copy of the session.
func (s Session) Clone() *Session {
	s.Personal = s.Personal.Clone()
	s.Business = s.Business.Clone()
	copied := make(map[ProfileType]time.Time, len(s.CopiedAt))
	for k, v := range s.CopiedAt {
		copied[k] = v
	}
	s.CopiedAt = copied
	return &s
}

// SessionRepository stores sessions for the lifetime of a creation flow.
type SessionRepository interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
