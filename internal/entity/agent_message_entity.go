package entity

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageRequest      MessageType = "request"
	MessageResponse     MessageType = "response"
	MessageNotification MessageType = "notification"
	MessageHandoff      MessageType = "handoff"
	MessageBroadcast    MessageType = "broadcast"
)

type MessagePriority string

const (
	PriorityLow    MessagePriority = "low"
	PriorityMedium MessagePriority = "medium"
	PriorityHigh   MessagePriority = "high"
	PriorityUrgent MessagePriority = "urgent"
)

// AgentMessage is a single routed message. Immutable once routed; it is
// retained only as a conversation history record, never owned separately.
type AgentMessage struct {
	Id          uuid.UUID
	SessionId   uuid.UUID
	FromAgent   string // SenderUser or an agent id
	ToAgent     string // empty means broadcast
	MessageType MessageType
	Content     string
	Priority    MessagePriority
	Timestamp   time.Time
	Context     map[string]interface{}
	Metadata    map[string]interface{}
}

// IsBroadcast reports whether the message has no specific recipient.
func (m *AgentMessage) IsBroadcast() bool {
	return m.ToAgent == ""
}

// DeliveryResult accounts for how many intended recipients of a routed
// message were resolvable. A result with Failed > 0 is still a successful
// call; callers must not treat partial failure as an error.
type DeliveryResult struct {
	Successful      int
	Failed          int
	TotalRecipients int
	DeliveryTime    time.Duration
}
