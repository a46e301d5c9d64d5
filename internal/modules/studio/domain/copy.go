package domain

import "time"

// CopyAckWindow is how long the "copied" acknowledgement stays visible.
const CopyAckWindow = 2000 * time.Millisecond

type CopyState string

const (
	CopyIdle   CopyState = "idle"
	CopyCopied CopyState = "copied"
)

// CopyAck is the copy button state at a point in time.
type CopyAck struct {
	State     CopyState  `json:"state"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// CopyAckAt derives the acknowledgement from the last copy time. Only the
// most recent copy counts, so a copy during the window restarts it.
func CopyAckAt(copiedAt, now time.Time, window time.Duration) CopyAck {
	if copiedAt.IsZero() {
		return CopyAck{State: CopyIdle}
	}
	expires := copiedAt.Add(window)
	if !now.Before(expires) {
		return CopyAck{State: CopyIdle}
	}
	return CopyAck{State: CopyCopied, ExpiresAt: &expires}
}
