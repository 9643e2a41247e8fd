package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LoginAuditEntry is a persisted auth lifecycle event.
type LoginAuditEntry struct {
	ID         uuid.UUID `json:"id"          db:"id"`
	UserID     *int      `json:"user_id"     db:"user_id"`
	Username   string    `json:"username"    db:"username"`
	Role       *string   `json:"role"        db:"role"`
	Event      string    `json:"event"       db:"event"`
	RemoteAddr *string   `json:"remote_addr" db:"remote_addr"`
	Detail     *string   `json:"detail"      db:"detail"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
}

// LoginAuditQuery filters and pages the audit listing.
type LoginAuditQuery struct {
	Username string
	Event    string
	Limit    int
	Offset   int
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// Normalize applies defaults and clamps paging values.
func (q *LoginAuditQuery) Normalize() {
	q.Username = strings.TrimSpace(q.Username)
	q.Event = strings.TrimSpace(q.Event)
	if q.Limit <= 0 {
		q.Limit = defaultAuditLimit
	}
	if q.Limit > maxAuditLimit {
		q.Limit = maxAuditLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// Validate checks the event filter against the known event kinds.
func (q *LoginAuditQuery) Validate() error {
	switch q.Event {
	case "", "login", "login_failed", "logout", "session_expired":
		return nil
	default:
		return errors.New("unknown audit event filter")
	}
}
