package entity

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionPaused SessionStatus = "paused"
	SessionClosed SessionStatus = "closed"
)

// CollabSession is the identity facet of a collaboration session.
// Immutable after creation; the mutable runtime facet lives in SessionState.
type CollabSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time
}

// SessionState is the mutable runtime facet of a session. It is created
// alongside the session and removed only with it.
type SessionState struct {
	Status       SessionStatus
	MessageCount int
	LastActivity time.Time
}
