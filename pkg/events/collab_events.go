package events

import (
	"time"

	"collabdesk-be/internal/entity"

	"github.com/google/uuid"
)

const (
	TypeSessionCreated = "SESSION_CREATED"
	TypeSessionPaused  = "SESSION_PAUSED"
	TypeSessionResumed = "SESSION_RESUMED"
	TypeSessionClosed  = "SESSION_CLOSED"
	TypeMessageRouted  = "MESSAGE_ROUTED"
)

func NewSessionLifecycleEvent(eventType string, sessionId, userId uuid.UUID) Event {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"session_id": sessionId.String(),
			"user_id":    userId.String(),
		},
		OccurredAt: time.Now(),
	}
}

func NewMessageRoutedEvent(sessionId, userId uuid.UUID, msg *entity.AgentMessage, result entity.DeliveryResult) Event {
	return BaseEvent{
		Type: TypeMessageRouted,
		Data: map[string]interface{}{
			"session_id":       sessionId.String(),
			"user_id":          userId.String(),
			"message_id":       msg.Id.String(),
			"from_agent":       msg.FromAgent,
			"to_agent":         msg.ToAgent,
			"message_type":     string(msg.MessageType),
			"priority":         string(msg.Priority),
			"successful":       result.Successful,
			"failed":           result.Failed,
			"total_recipients": result.TotalRecipients,
			"delivery_time_us": result.DeliveryTime.Microseconds(),
		},
		OccurredAt: time.Now(),
	}
}
