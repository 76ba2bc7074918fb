package router

import (
	"time"

	"collabdesk-be/internal/entity"
	"collabdesk-be/internal/pkg/logger"
	"collabdesk-be/pkg/collab/contextstore"
	"collabdesk-be/pkg/collab/registry"

	"github.com/google/uuid"
)

// Router computes the delivery plan for one message and records it in the
// conversation log. Delivery here means "accepted into the routing/log
// path": the router never transports bytes to an external worker, so the
// accounting is the whole job. It never fails for routing reasons.
type Router struct {
	registry *registry.Registry
	store    *contextstore.Store
	logger   logger.ILogger
}

func NewRouter(reg *registry.Registry, store *contextstore.Store, log logger.ILogger) *Router {
	return &Router{
		registry: reg,
		store:    store,
		logger:   log,
	}
}

// RouteMessage stamps the message, resolves its recipient set, counts each
// recipient as successful when it resolves to a registry entry and failed
// otherwise, and appends the message to the session's conversation history.
// Input is assumed well-typed (validated upstream).
func (r *Router) RouteMessage(msg *entity.AgentMessage) entity.DeliveryResult {
	started := time.Now()

	msg.Id = uuid.New()
	msg.Timestamp = started

	recipients := r.resolveRecipients(msg)

	var successful, failed int
	for _, id := range recipients {
		if r.registry.Has(id) {
			successful++
		} else {
			failed++
		}
	}

	r.store.AddToConversationHistory(
		msg.SessionId,
		msg.Id,
		msg.FromAgent,
		msg.Content,
		entity.ImportanceFromPriority(msg.Priority),
	)

	result := entity.DeliveryResult{
		Successful:      successful,
		Failed:          failed,
		TotalRecipients: len(recipients),
		DeliveryTime:    time.Since(started),
	}

	if failed > 0 {
		r.logger.Warn("Router", "Message routed with unresolvable recipients", map[string]interface{}{
			"session_id": msg.SessionId,
			"message_id": msg.Id,
			"failed":     failed,
			"total":      result.TotalRecipients,
		})
	}

	return result
}

// resolveRecipients returns the recipient set: the addressed agent for a
// direct message, or every registry agent except the sender for a
// broadcast. A user sender is not a registry member, so a user broadcast
// reaches the full registry.
func (r *Router) resolveRecipients(msg *entity.AgentMessage) []string {
	if !msg.IsBroadcast() {
		return []string{msg.ToAgent}
	}

	agents := r.registry.All()
	recipients := make([]string, 0, len(agents))
	for _, a := range agents {
		if a.Id == msg.FromAgent {
			continue
		}
		recipients = append(recipients, a.Id)
	}
	return recipients
}
