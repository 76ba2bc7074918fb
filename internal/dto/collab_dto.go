package dto

import (
	"time"

	"github.com/google/uuid"
)

// Requests

type SendMessageRequest struct {
	FromAgent   string                 `json:"from_agent" validate:"required"`
	ToAgent     string                 `json:"to_agent"` // empty means broadcast
	MessageType string                 `json:"message_type" validate:"required,oneof=request response notification handoff broadcast"`
	Content     string                 `json:"content" validate:"required"`
	Priority    string                 `json:"priority" validate:"required,oneof=low medium high urgent"`
	Context     map[string]interface{} `json:"context"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type StoreContextRequest struct {
	AgentId     string                 `json:"agent_id" validate:"required"`
	ContextType string                 `json:"context_type" validate:"required,oneof=conversation task knowledge preference state"`
	Key         string                 `json:"key" validate:"required"`
	Value       interface{}            `json:"value" validate:"required"`
	Priority    string                 `json:"priority" validate:"required,oneof=low medium high critical"`
	Tags        []string               `json:"tags"`
	ExpiresAt   *time.Time             `json:"expires_at"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// Responses

type SessionResponse struct {
	Id        uuid.UUID `json:"id"`
	UserId    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionStateResponse struct {
	Status       string    `json:"status"`
	MessageCount int       `json:"message_count"`
	LastActivity time.Time `json:"last_activity"`
}

type DeliveryResultResponse struct {
	Successful      int   `json:"successful"`
	Failed          int   `json:"failed"`
	TotalRecipients int   `json:"total_recipients"`
	DeliveryTimeUs  int64 `json:"delivery_time_us"`
}

type StoreContextResponse struct {
	ContextId uuid.UUID `json:"context_id"`
}

type ContextEntryResponse struct {
	Id          uuid.UUID              `json:"id"`
	SessionId   uuid.UUID              `json:"session_id"`
	AgentId     string                 `json:"agent_id"`
	ContextType string                 `json:"context_type"`
	Key         string                 `json:"key"`
	Value       interface{}            `json:"value"`
	Priority    string                 `json:"priority"`
	Tags        []string               `json:"tags"`
	Timestamp   time.Time              `json:"timestamp"`
	ExpiresAt   *time.Time             `json:"expires_at,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

type AgentResponse struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	AccentColor string `json:"accent_color"`
}

type HistoryEntryResponse struct {
	MessageId        uuid.UUID `json:"message_id"`
	AgentId          string    `json:"agent_id"`
	AgentDisplayName string    `json:"agent_display_name,omitempty"`
	AgentColor       string    `json:"agent_color,omitempty"`
	Content          string    `json:"content"`
	Importance       string    `json:"importance"`
	Timestamp        time.Time `json:"timestamp"`
}

type ConversationResponse struct {
	ConversationHistory []HistoryEntryResponse `json:"conversation_history"`
	Participants        []AgentResponse        `json:"participants"`
}
