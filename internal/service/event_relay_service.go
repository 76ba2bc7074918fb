package service

import (
	"context"
	"encoding/json"

	"collabdesk-be/internal/pkg/logger"
	"collabdesk-be/internal/websocket"
	"collabdesk-be/pkg/events"
	pktNats "collabdesk-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IEventRelayService interface {
	Relay(ctx context.Context) error
}

// eventRelayService drains the in-process event bus and fans events out:
// to the websocket hub for the owning user's connected clients, and to
// NATS when a cross-process mirror is configured. Both sinks are best
// effort; the engine's own semantics never depend on them.
type eventRelayService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	hub       *websocket.Hub
	natsPub   *pktNats.Publisher
	logger    logger.ILogger
}

func NewEventRelayService(
	pubSub *gochannel.GoChannel,
	topicName string,
	hub *websocket.Hub,
	natsPub *pktNats.Publisher,
	log logger.ILogger,
) IEventRelayService {
	return &eventRelayService{
		pubSub:    pubSub,
		topicName: topicName,
		hub:       hub,
		natsPub:   natsPub,
		logger:    log,
	}
}

func (s *eventRelayService) Relay(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *eventRelayService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope eventEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		s.logger.Error("EventRelay", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	event := events.BaseEvent{
		Type:       envelope.Type,
		Data:       envelope.Data,
		OccurredAt: envelope.OccurredAt,
	}

	if userIdStr, ok := envelope.Data["user_id"].(string); ok {
		if userId, err := uuid.Parse(userIdStr); err == nil {
			s.hub.SendEvent(userId, event)
		}
	}

	if s.natsPub != nil {
		if err := s.natsPub.Publish(ctx, event); err != nil {
			s.logger.Warn("EventRelay", "NATS mirror failed", map[string]interface{}{
				"event": envelope.Type,
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
