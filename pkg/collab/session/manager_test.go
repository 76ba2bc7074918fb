package session

import (
	"sync"
	"testing"

	"collabdesk-be/internal/entity"
	"collabdesk-be/internal/pkg/logger"
	"collabdesk-be/pkg/collab/contextstore"
	"collabdesk-be/pkg/collab/registry"
	"collabdesk-be/pkg/collab/router"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() (*Manager, *contextstore.Store) {
	store := contextstore.NewStore()
	r := router.NewRouter(registry.NewRegistry(registry.DefaultAgents()), store, logger.NewNop())
	return NewManager(r, logger.NewNop()), store
}

func newMessage(sessionId uuid.UUID) *entity.AgentMessage {
	return &entity.AgentMessage{
		SessionId:   sessionId,
		FromAgent:   entity.SenderUser,
		ToAgent:     "roxy",
		MessageType: entity.MessageRequest,
		Content:     "hi",
		Priority:    entity.PriorityMedium,
	}
}

func TestCreateSession(t *testing.T) {
	m, _ := newTestManager()
	userId := uuid.New()

	s := m.Create(userId)
	assert.NotEqual(t, uuid.Nil, s.Id)
	assert.Equal(t, userId, s.UserId)

	got, err := m.Get(s.Id)
	require.NoError(t, err)
	assert.Equal(t, userId, got.UserId)

	st, err := m.State(s.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionActive, st.Status)
	assert.Equal(t, 0, st.MessageCount)
}

func TestGetUnknownSession(t *testing.T) {
	m, _ := newTestManager()

	_, err := m.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = m.State(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOwns(t *testing.T) {
	m, _ := newTestManager()
	userId := uuid.New()
	s := m.Create(userId)

	assert.True(t, m.Owns(s, userId))
	assert.False(t, m.Owns(s, uuid.New()))
}

func TestAcceptIncrementsCount(t *testing.T) {
	m, _ := newTestManager()
	s := m.Create(uuid.New())

	result, err := m.Accept(newMessage(s.Id))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Successful)
	assert.Equal(t, 1, result.TotalRecipients)

	st, _ := m.State(s.Id)
	assert.Equal(t, 1, st.MessageCount)
	assert.False(t, st.LastActivity.IsZero())
}

func TestAcceptRejectedWhenNotActive(t *testing.T) {
	m, store := newTestManager()
	s := m.Create(uuid.New())

	require.NoError(t, m.Pause(s.Id))

	_, err := m.Accept(newMessage(s.Id))
	inactive, ok := AsInactive(err)
	require.True(t, ok)
	assert.Equal(t, entity.SessionPaused, inactive.Status)

	// Gating means no bookkeeping and no history.
	st, _ := m.State(s.Id)
	assert.Equal(t, 0, st.MessageCount)
	assert.Nil(t, store.GetConversationContext(s.Id))
}

func TestAcceptUnknownSession(t *testing.T) {
	m, _ := newTestManager()

	_, err := m.Accept(newMessage(uuid.New()))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLifecycleTransitions(t *testing.T) {
	m, _ := newTestManager()
	s := m.Create(uuid.New())

	require.NoError(t, m.Pause(s.Id))
	st, _ := m.State(s.Id)
	assert.Equal(t, entity.SessionPaused, st.Status)

	// Second pause is a failing no-op; the session stays paused.
	err := m.Pause(s.Id)
	inactive, ok := AsInactive(err)
	require.True(t, ok)
	assert.Equal(t, entity.SessionPaused, inactive.Status)
	st, _ = m.State(s.Id)
	assert.Equal(t, entity.SessionPaused, st.Status)

	require.NoError(t, m.Resume(s.Id))
	st, _ = m.State(s.Id)
	assert.Equal(t, entity.SessionActive, st.Status)

	// Resume on an active session fails too.
	_, ok = AsInactive(m.Resume(s.Id))
	assert.True(t, ok)
}

func TestCancelFromActiveAndPaused(t *testing.T) {
	m, _ := newTestManager()

	active := m.Create(uuid.New())
	require.NoError(t, m.Cancel(active.Id))

	paused := m.Create(uuid.New())
	require.NoError(t, m.Pause(paused.Id))
	require.NoError(t, m.Cancel(paused.Id))
}

func TestClosedIsTerminal(t *testing.T) {
	m, _ := newTestManager()
	s := m.Create(uuid.New())
	require.NoError(t, m.Cancel(s.Id))

	for _, op := range []func(uuid.UUID) error{m.Pause, m.Resume, m.Cancel} {
		err := op(s.Id)
		inactive, ok := AsInactive(err)
		require.True(t, ok)
		assert.Equal(t, entity.SessionClosed, inactive.Status)
	}

	// Closed is a write-lock, not a tombstone: state stays readable.
	st, err := m.State(s.Id)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionClosed, st.Status)
}

func TestClosedSessionHistoryRemainsReadable(t *testing.T) {
	m, store := newTestManager()
	s := m.Create(uuid.New())

	_, err := m.Accept(newMessage(s.Id))
	require.NoError(t, err)
	require.NoError(t, m.Cancel(s.Id))

	view := store.GetConversationContext(s.Id)
	require.NotNil(t, view)
	assert.Len(t, view.ConversationHistory, 1)
}

func TestConcurrentAccept(t *testing.T) {
	m, store := newTestManager()
	s := m.Create(uuid.New())

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := m.Accept(newMessage(s.Id))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, _ := m.State(s.Id)
	assert.Equal(t, n, st.MessageCount)

	view := store.GetConversationContext(s.Id)
	require.NotNil(t, view)
	require.Len(t, view.ConversationHistory, n)

	// History append order matches acceptance order: timestamps never
	// decrease along the log.
	for i := 1; i < len(view.ConversationHistory); i++ {
		assert.False(t, view.ConversationHistory[i].Timestamp.Before(view.ConversationHistory[i-1].Timestamp))
	}
}
