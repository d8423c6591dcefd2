package models

import "time"

// Session is a server-side login session. Token holds the stored digest,
// never the raw cookie value.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// SessionRevocation invalidates every signed session of a user issued at or
// before NotBefore, except the one whose id is KeepID.
type SessionRevocation struct {
	UserID    string
	NotBefore time.Time
	KeepID    string
}
