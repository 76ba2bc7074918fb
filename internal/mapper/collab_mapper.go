package mapper

import (
	"collabdesk-be/internal/dto"
	"collabdesk-be/internal/entity"
	"collabdesk-be/pkg/collab/contextstore"
	"collabdesk-be/pkg/collab/registry"
)

func ToSessionResponse(s entity.CollabSession) dto.SessionResponse {
	return dto.SessionResponse{
		Id:        s.Id,
		UserId:    s.UserId,
		CreatedAt: s.CreatedAt,
	}
}

func ToSessionStateResponse(st entity.SessionState) dto.SessionStateResponse {
	return dto.SessionStateResponse{
		Status:       string(st.Status),
		MessageCount: st.MessageCount,
		LastActivity: st.LastActivity,
	}
}

func ToDeliveryResultResponse(r entity.DeliveryResult) dto.DeliveryResultResponse {
	return dto.DeliveryResultResponse{
		Successful:      r.Successful,
		Failed:          r.Failed,
		TotalRecipients: r.TotalRecipients,
		DeliveryTimeUs:  r.DeliveryTime.Microseconds(),
	}
}

func ToContextEntryResponse(e entity.ContextEntry) dto.ContextEntryResponse {
	return dto.ContextEntryResponse{
		Id:          e.Id,
		SessionId:   e.SessionId,
		AgentId:     e.AgentId,
		ContextType: string(e.ContextType),
		Key:         e.Key,
		Value:       e.Value,
		Priority:    string(e.Priority),
		Tags:        e.Tags,
		Timestamp:   e.Timestamp,
		ExpiresAt:   e.ExpiresAt,
		Metadata:    e.Metadata,
	}
}

func ToContextEntryResponses(entries []entity.ContextEntry) []dto.ContextEntryResponse {
	out := make([]dto.ContextEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToContextEntryResponse(e))
	}
	return out
}

func ToAgentResponse(a entity.Agent) dto.AgentResponse {
	return dto.AgentResponse{
		Id:          a.Id,
		Name:        a.Name,
		DisplayName: a.DisplayName,
		AccentColor: a.AccentColor,
	}
}

// ToConversationResponse enriches the raw conversation view with registry
// display metadata. Unknown senders (including "user") pass through with
// the id as name; a registry miss is never an error.
func ToConversationResponse(view *contextstore.ConversationView, reg *registry.Registry) dto.ConversationResponse {
	res := dto.ConversationResponse{
		ConversationHistory: make([]dto.HistoryEntryResponse, 0, len(view.ConversationHistory)),
		Participants:        make([]dto.AgentResponse, 0, len(view.Participants)),
	}

	for _, h := range view.ConversationHistory {
		entry := dto.HistoryEntryResponse{
			MessageId:  h.MessageId,
			AgentId:    h.AgentId,
			Content:    h.Content,
			Importance: string(h.Importance),
			Timestamp:  h.Timestamp,
		}
		if agent, ok := reg.Get(h.AgentId); ok {
			entry.AgentDisplayName = agent.DisplayName
			entry.AgentColor = agent.AccentColor
		}
		res.ConversationHistory = append(res.ConversationHistory, entry)
	}

	for _, id := range view.Participants {
		if agent, ok := reg.Get(id); ok {
			res.Participants = append(res.Participants, ToAgentResponse(agent))
		} else {
			res.Participants = append(res.Participants, dto.AgentResponse{Id: id, Name: id, DisplayName: id})
		}
	}
	return res
}
