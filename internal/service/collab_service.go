package service

import (
	"context"
	"time"

	"collabdesk-be/internal/dto"
	"collabdesk-be/internal/entity"
	"collabdesk-be/internal/mapper"
	"collabdesk-be/internal/model"
	"collabdesk-be/internal/pkg/logger"
	"collabdesk-be/internal/repository/contract"
	"collabdesk-be/pkg/collab/contextstore"
	"collabdesk-be/pkg/collab/registry"
	"collabdesk-be/pkg/collab/session"
	"collabdesk-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ICollabService interface {
	CreateSession(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResponse, error)
	GetSessionState(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionStateResponse, error)
	SendMessage(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.DeliveryResultResponse, error)
	PauseSession(ctx context.Context, userId, sessionId uuid.UUID) error
	ResumeSession(ctx context.Context, userId, sessionId uuid.UUID) error
	CancelSession(ctx context.Context, userId, sessionId uuid.UUID) error
	StoreContext(ctx context.Context, userId, sessionId uuid.UUID, req *dto.StoreContextRequest) (*dto.StoreContextResponse, error)
	QueryContext(ctx context.Context, userId uuid.UUID, query contextstore.Query) ([]dto.ContextEntryResponse, error)
	GetConversation(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ConversationResponse, error)
	ListAgents(ctx context.Context) []dto.AgentResponse
	GetAgent(ctx context.Context, id string) (*dto.AgentResponse, bool)
}

// collabService is the orchestration seam between route handlers and the
// collaboration engine: it resolves ownership, translates DTOs, publishes
// events, and hands closed sessions to the archive when one is configured.
type collabService struct {
	manager          *session.Manager
	store            *contextstore.Store
	registry         *registry.Registry
	publisherService IPublisherService
	archiveRepo      contract.ArchiveRepository // nil when no durable backing is configured
	logger           logger.ILogger
}

func NewCollabService(
	manager *session.Manager,
	store *contextstore.Store,
	reg *registry.Registry,
	publisherService IPublisherService,
	archiveRepo contract.ArchiveRepository,
	log logger.ILogger,
) ICollabService {
	return &collabService{
		manager:          manager,
		store:            store,
		registry:         reg,
		publisherService: publisherService,
		archiveRepo:      archiveRepo,
		logger:           log,
	}
}

func (c *collabService) CreateSession(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error) {
	s := c.manager.Create(userId)

	c.publish(ctx, events.NewSessionLifecycleEvent(events.TypeSessionCreated, s.Id, userId))

	res := mapper.ToSessionResponse(s)
	return &res, nil
}

// resolveOwned loads a session and enforces that userId owns it. Every
// session-scoped operation goes through this gate before touching state.
func (c *collabService) resolveOwned(userId, sessionId uuid.UUID) (entity.CollabSession, error) {
	s, err := c.manager.Get(sessionId)
	if err != nil {
		return entity.CollabSession{}, err
	}
	if !c.manager.Owns(s, userId) {
		return entity.CollabSession{}, session.ErrForbidden
	}
	return s, nil
}

func (c *collabService) GetSession(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	s, err := c.resolveOwned(userId, sessionId)
	if err != nil {
		return nil, err
	}
	res := mapper.ToSessionResponse(s)
	return &res, nil
}

func (c *collabService) GetSessionState(ctx context.Context, userId, sessionId uuid.UUID) (*dto.SessionStateResponse, error) {
	if _, err := c.resolveOwned(userId, sessionId); err != nil {
		return nil, err
	}
	st, err := c.manager.State(sessionId)
	if err != nil {
		return nil, err
	}
	res := mapper.ToSessionStateResponse(st)
	return &res, nil
}

func (c *collabService) SendMessage(ctx context.Context, userId, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.DeliveryResultResponse, error) {
	if _, err := c.resolveOwned(userId, sessionId); err != nil {
		return nil, err
	}

	msg := &entity.AgentMessage{
		SessionId:   sessionId,
		FromAgent:   req.FromAgent,
		ToAgent:     req.ToAgent,
		MessageType: entity.MessageType(req.MessageType),
		Content:     req.Content,
		Priority:    entity.MessagePriority(req.Priority),
		Context:     req.Context,
		Metadata:    req.Metadata,
	}

	result, err := c.manager.Accept(msg)
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.NewMessageRoutedEvent(sessionId, userId, msg, result))

	res := mapper.ToDeliveryResultResponse(result)
	return &res, nil
}

func (c *collabService) PauseSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	if _, err := c.resolveOwned(userId, sessionId); err != nil {
		return err
	}
	if err := c.manager.Pause(sessionId); err != nil {
		return err
	}
	c.publish(ctx, events.NewSessionLifecycleEvent(events.TypeSessionPaused, sessionId, userId))
	return nil
}

func (c *collabService) ResumeSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	if _, err := c.resolveOwned(userId, sessionId); err != nil {
		return err
	}
	if err := c.manager.Resume(sessionId); err != nil {
		return err
	}
	c.publish(ctx, events.NewSessionLifecycleEvent(events.TypeSessionResumed, sessionId, userId))
	return nil
}

func (c *collabService) CancelSession(ctx context.Context, userId, sessionId uuid.UUID) error {
	if _, err := c.resolveOwned(userId, sessionId); err != nil {
		return err
	}
	if err := c.manager.Cancel(sessionId); err != nil {
		return err
	}

	c.publish(ctx, events.NewSessionLifecycleEvent(events.TypeSessionClosed, sessionId, userId))
	c.archiveSession(ctx, userId, sessionId)
	return nil
}

// archiveSession writes the closed session's log to the relational store.
// Best effort: the in-memory state and history stay readable regardless.
func (c *collabService) archiveSession(ctx context.Context, userId, sessionId uuid.UUID) {
	if c.archiveRepo == nil {
		return
	}

	st, err := c.manager.State(sessionId)
	if err != nil {
		return
	}

	history := datatypes.JSONMap{}
	if view := c.store.GetConversationContext(sessionId); view != nil {
		entries := make([]interface{}, 0, len(view.ConversationHistory))
		for _, h := range view.ConversationHistory {
			entries = append(entries, map[string]interface{}{
				"message_id": h.MessageId.String(),
				"agent_id":   h.AgentId,
				"content":    h.Content,
				"importance": string(h.Importance),
				"timestamp":  h.Timestamp,
			})
		}
		history["entries"] = entries
		history["participants"] = view.Participants
	}

	archive := &model.SessionArchive{
		Id:           uuid.New(),
		SessionId:    sessionId,
		UserId:       userId,
		MessageCount: st.MessageCount,
		ClosedAt:     time.Now(),
		History:      history,
	}
	if err := c.archiveRepo.Create(ctx, archive); err != nil {
		c.logger.Error("CollabService", "Failed to archive session", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (c *collabService) StoreContext(ctx context.Context, userId, sessionId uuid.UUID, req *dto.StoreContextRequest) (*dto.StoreContextResponse, error) {
	if _, err := c.resolveOwned(userId, sessionId); err != nil {
		return nil, err
	}

	contextId := c.store.StoreContext(entity.ContextEntry{
		SessionId:   sessionId,
		AgentId:     req.AgentId,
		ContextType: entity.ContextType(req.ContextType),
		Key:         req.Key,
		Value:       req.Value,
		Priority:    entity.ContextPriority(req.Priority),
		Tags:        req.Tags,
		ExpiresAt:   req.ExpiresAt,
		Metadata:    req.Metadata,
	})

	return &dto.StoreContextResponse{ContextId: contextId}, nil
}

func (c *collabService) QueryContext(ctx context.Context, userId uuid.UUID, query contextstore.Query) ([]dto.ContextEntryResponse, error) {
	if query.SessionId != nil {
		if _, err := c.resolveOwned(userId, *query.SessionId); err != nil {
			return nil, err
		}
		return mapper.ToContextEntryResponses(c.store.GetContext(query)), nil
	}

	// Unscoped queries span sessions. Entries carry no owner of their own,
	// so resolve each entry's session and keep only the caller's: tenants
	// must never see each other's context.
	entries := c.store.GetContext(query)
	owned := make([]entity.ContextEntry, 0, len(entries))
	for _, e := range entries {
		s, err := c.manager.Get(e.SessionId)
		if err != nil || !c.manager.Owns(s, userId) {
			continue
		}
		owned = append(owned, e)
	}
	return mapper.ToContextEntryResponses(owned), nil
}

func (c *collabService) GetConversation(ctx context.Context, userId, sessionId uuid.UUID) (*dto.ConversationResponse, error) {
	if _, err := c.resolveOwned(userId, sessionId); err != nil {
		return nil, err
	}

	view := c.store.GetConversationContext(sessionId)
	if view == nil {
		// Nothing ever recorded: callers render a friendly empty state.
		return nil, nil
	}
	res := mapper.ToConversationResponse(view, c.registry)
	return &res, nil
}

func (c *collabService) ListAgents(ctx context.Context) []dto.AgentResponse {
	agents := c.registry.All()
	out := make([]dto.AgentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, mapper.ToAgentResponse(a))
	}
	return out
}

// GetAgent reports false on a registry miss; callers treat that as "no
// enrichment available", not as a fault.
func (c *collabService) GetAgent(ctx context.Context, id string) (*dto.AgentResponse, bool) {
	a, ok := c.registry.Get(id)
	if !ok {
		return nil, false
	}
	res := mapper.ToAgentResponse(a)
	return &res, true
}

func (c *collabService) publish(ctx context.Context, event events.Event) {
	if c.publisherService == nil {
		return
	}
	if err := c.publisherService.Publish(ctx, event); err != nil {
		c.logger.Warn("CollabService", "Event publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
