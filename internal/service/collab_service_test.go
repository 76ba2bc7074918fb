package service

import (
	"context"
	"testing"

	"collabdesk-be/internal/dto"
	"collabdesk-be/internal/model"
	"collabdesk-be/internal/pkg/logger"
	"collabdesk-be/pkg/collab/contextstore"
	"collabdesk-be/pkg/collab/registry"
	"collabdesk-be/pkg/collab/router"
	"collabdesk-be/pkg/collab/session"
	"collabdesk-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	published []events.Event
}

func (f *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakePublisher) types() []string {
	out := make([]string, 0, len(f.published))
	for _, e := range f.published {
		out = append(out, e.EventType())
	}
	return out
}

type fakeArchiveRepo struct {
	archives []*model.SessionArchive
}

func (f *fakeArchiveRepo) Create(ctx context.Context, archive *model.SessionArchive) error {
	f.archives = append(f.archives, archive)
	return nil
}

func newTestService() (ICollabService, *fakePublisher, *fakeArchiveRepo) {
	reg := registry.NewRegistry(registry.DefaultAgents())
	store := contextstore.NewStore()
	r := router.NewRouter(reg, store, logger.NewNop())
	manager := session.NewManager(r, logger.NewNop())

	pub := &fakePublisher{}
	archive := &fakeArchiveRepo{}
	svc := NewCollabService(manager, store, reg, pub, archive, logger.NewNop())
	return svc, pub, archive
}

func sendReq() *dto.SendMessageRequest {
	return &dto.SendMessageRequest{
		FromAgent:   "user",
		ToAgent:     "roxy",
		MessageType: "request",
		Content:     "hi",
		Priority:    "medium",
	}
}

func TestCreateAndGetSession(t *testing.T) {
	svc, pub, _ := newTestService()
	ctx := context.Background()
	userId := uuid.New()

	created, err := svc.CreateSession(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, userId, created.UserId)
	assert.Equal(t, []string{events.TypeSessionCreated}, pub.types())

	got, err := svc.GetSession(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, got.Id)
}

func TestOwnershipEnforced(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	created, err := svc.CreateSession(ctx, owner)
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, stranger, created.Id)
	assert.ErrorIs(t, err, session.ErrForbidden)

	_, err = svc.SendMessage(ctx, stranger, created.Id, sendReq())
	assert.ErrorIs(t, err, session.ErrForbidden)

	// Rejected before reaching the router: the count stays zero.
	st, err := svc.GetSessionState(ctx, owner, created.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, st.MessageCount)
}

func TestSendMessagePublishesEvent(t *testing.T) {
	svc, pub, _ := newTestService()
	ctx := context.Background()
	userId := uuid.New()

	created, _ := svc.CreateSession(ctx, userId)
	result, err := svc.SendMessage(ctx, userId, created.Id, sendReq())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Successful)

	assert.Contains(t, pub.types(), events.TypeMessageRouted)
}

func TestSendToPausedSessionSurfacesStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	userId := uuid.New()

	created, _ := svc.CreateSession(ctx, userId)
	require.NoError(t, svc.PauseSession(ctx, userId, created.Id))

	_, err := svc.SendMessage(ctx, userId, created.Id, sendReq())
	inactive, ok := session.AsInactive(err)
	require.True(t, ok)
	assert.Equal(t, "paused", string(inactive.Status))
}

func TestCancelArchivesSession(t *testing.T) {
	svc, pub, archive := newTestService()
	ctx := context.Background()
	userId := uuid.New()

	created, _ := svc.CreateSession(ctx, userId)
	_, err := svc.SendMessage(ctx, userId, created.Id, sendReq())
	require.NoError(t, err)

	require.NoError(t, svc.CancelSession(ctx, userId, created.Id))
	assert.Contains(t, pub.types(), events.TypeSessionClosed)

	require.Len(t, archive.archives, 1)
	assert.Equal(t, created.Id, archive.archives[0].SessionId)
	assert.Equal(t, 1, archive.archives[0].MessageCount)
	assert.NotEmpty(t, archive.archives[0].History["entries"])

	// Closed sessions stay readable.
	st, err := svc.GetSessionState(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "closed", st.Status)
}

func TestStoreAndQueryContext(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	userId := uuid.New()

	created, _ := svc.CreateSession(ctx, userId)
	stored, err := svc.StoreContext(ctx, userId, created.Id, &dto.StoreContextRequest{
		AgentId:     "roxy",
		ContextType: "preference",
		Key:         "tone",
		Value:       "formal",
		Priority:    "high",
		Tags:        []string{"style"},
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, stored.ContextId)

	entries, err := svc.QueryContext(ctx, userId, contextstore.Query{Tags: []string{"style"}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, stored.ContextId, entries[0].Id)
	assert.Equal(t, "formal", entries[0].Value)
}

func TestUnscopedQueryHidesOtherTenants(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	alice, mallory := uuid.New(), uuid.New()

	aliceSession, _ := svc.CreateSession(ctx, alice)
	mallorySession, _ := svc.CreateSession(ctx, mallory)

	_, err := svc.StoreContext(ctx, alice, aliceSession.Id, &dto.StoreContextRequest{
		AgentId:     "roxy",
		ContextType: "knowledge",
		Key:         "api_key",
		Value:       "alice-secret",
		Priority:    "critical",
		Tags:        []string{"secrets"},
	})
	require.NoError(t, err)
	_, err = svc.StoreContext(ctx, mallory, mallorySession.Id, &dto.StoreContextRequest{
		AgentId:     "roxy",
		ContextType: "knowledge",
		Key:         "api_key",
		Value:       "mallory-secret",
		Priority:    "critical",
		Tags:        []string{"secrets"},
	})
	require.NoError(t, err)

	// A query with no session filter only ever surfaces the caller's
	// own sessions.
	entries, err := svc.QueryContext(ctx, mallory, contextstore.Query{Tags: []string{"secrets"}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mallory-secret", entries[0].Value)

	entries, err = svc.QueryContext(ctx, alice, contextstore.Query{Tags: []string{"secrets"}})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice-secret", entries[0].Value)
}

func TestQueryContextChecksSessionOwnership(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	owner, stranger := uuid.New(), uuid.New()

	created, _ := svc.CreateSession(ctx, owner)

	_, err := svc.QueryContext(ctx, stranger, contextstore.Query{SessionId: &created.Id})
	assert.ErrorIs(t, err, session.ErrForbidden)
}

func TestGetConversationEnrichment(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	userId := uuid.New()

	created, _ := svc.CreateSession(ctx, userId)

	view, err := svc.GetConversation(ctx, userId, created.Id)
	require.NoError(t, err)
	assert.Nil(t, view, "no history yet returns nil, not an error")

	req := sendReq()
	req.FromAgent = "roxy"
	req.ToAgent = ""
	_, err = svc.SendMessage(ctx, userId, created.Id, req)
	require.NoError(t, err)

	view, err = svc.GetConversation(ctx, userId, created.Id)
	require.NoError(t, err)
	require.NotNil(t, view)
	require.Len(t, view.ConversationHistory, 1)
	assert.Equal(t, "Roxy", view.ConversationHistory[0].AgentDisplayName)
	require.Len(t, view.Participants, 1)
	assert.Equal(t, "roxy", view.Participants[0].Id)
}

func TestAgentLookup(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	agents := svc.ListAgents(ctx)
	assert.Len(t, agents, 8)

	agent, ok := svc.GetAgent(ctx, "roxy")
	require.True(t, ok)
	assert.Equal(t, "Roxy", agent.DisplayName)

	_, ok = svc.GetAgent(ctx, "ghost")
	assert.False(t, ok)
}
