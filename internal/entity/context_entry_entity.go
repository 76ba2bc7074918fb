package entity

import (
	"time"

	"github.com/google/uuid"
)

type ContextType string

const (
	ContextConversation ContextType = "conversation"
	ContextTask         ContextType = "task"
	ContextKnowledge    ContextType = "knowledge"
	ContextPreference   ContextType = "preference"
	ContextState        ContextType = "state"
)

type ContextPriority string

const (
	ContextLow      ContextPriority = "low"
	ContextMedium   ContextPriority = "medium"
	ContextHigh     ContextPriority = "high"
	ContextCritical ContextPriority = "critical"
)

// ContextEntry is a typed, tagged piece of structured memory scoped to a
// (session, agent) pair. Entries are insert-only: storing the same key again
// creates a new entry. Value is an opaque blob the engine never interprets.
type ContextEntry struct {
	Id          uuid.UUID
	SessionId   uuid.UUID
	AgentId     string
	ContextType ContextType
	Key         string
	Value       interface{}
	Priority    ContextPriority
	Tags        []string
	Timestamp   time.Time
	ExpiresAt   *time.Time
	Metadata    map[string]interface{}
}

// Expired reports whether the entry's expiry has passed relative to now.
// Entries without an expiry never expire.
func (e *ContextEntry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && e.ExpiresAt.Before(now)
}

type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// ImportanceFromPriority maps a message priority onto the three-level
// importance scale used by conversation history.
func ImportanceFromPriority(p MessagePriority) Importance {
	switch p {
	case PriorityUrgent, PriorityHigh:
		return ImportanceHigh
	case PriorityMedium:
		return ImportanceMedium
	default:
		return ImportanceLow
	}
}

// ConversationHistoryEntry is one record of the per-session append-only
// conversation log. Never mutated or removed individually.
type ConversationHistoryEntry struct {
	MessageId  uuid.UUID
	AgentId    string // sender; SenderUser for human messages
	Content    string
	Importance Importance
	Timestamp  time.Time
}
