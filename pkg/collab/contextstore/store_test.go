package contextstore

import (
	"fmt"
	"testing"
	"time"

	"collabdesk-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeEntry(s *Store, sessionId uuid.UUID, agentId, key string, opts func(*entity.ContextEntry)) uuid.UUID {
	e := entity.ContextEntry{
		SessionId:   sessionId,
		AgentId:     agentId,
		ContextType: entity.ContextKnowledge,
		Key:         key,
		Value:       "v",
		Priority:    entity.ContextMedium,
	}
	if opts != nil {
		opts(&e)
	}
	return s.StoreContext(e)
}

func TestStoreContextAssignsIdAndTimestamp(t *testing.T) {
	s := NewStore()
	sessionId := uuid.New()

	id := storeEntry(s, sessionId, "roxy", "tone", nil)
	require.NotEqual(t, uuid.Nil, id)

	got := s.GetContext(Query{SessionId: &sessionId})
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].Id)
	assert.False(t, got[0].Timestamp.IsZero())
}

func TestRepeatedKeyInsertsNewEntry(t *testing.T) {
	s := NewStore()
	sessionId := uuid.New()

	first := storeEntry(s, sessionId, "roxy", "tone", nil)
	second := storeEntry(s, sessionId, "roxy", "tone", nil)
	assert.NotEqual(t, first, second)

	got := s.GetContext(Query{SessionId: &sessionId, Keys: []string{"tone"}})
	assert.Len(t, got, 2)
}

func TestGetContextFilters(t *testing.T) {
	s := NewStore()
	sessionA := uuid.New()
	sessionB := uuid.New()

	storeEntry(s, sessionA, "roxy", "tone", func(e *entity.ContextEntry) {
		e.ContextType = entity.ContextPreference
		e.Priority = entity.ContextHigh
		e.Tags = []string{"style"}
	})
	storeEntry(s, sessionA, "atlas", "plan", func(e *entity.ContextEntry) {
		e.ContextType = entity.ContextTask
		e.Tags = []string{"work", "urgent"}
	})
	storeEntry(s, sessionB, "roxy", "tone", func(e *entity.ContextEntry) {
		e.ContextType = entity.ContextPreference
		e.Tags = []string{"style"}
	})

	tests := []struct {
		name  string
		query Query
		want  int
	}{
		{"by session", Query{SessionId: &sessionA}, 2},
		{"by session and agent", Query{SessionId: &sessionA, AgentId: "roxy"}, 1},
		{"by tag across sessions", Query{Tags: []string{"style"}}, 2},
		{"tag any-of", Query{Tags: []string{"urgent", "missing"}}, 1},
		{"empty tags means no constraint", Query{SessionId: &sessionA, Tags: nil}, 2},
		{"by type", Query{ContextTypes: []entity.ContextType{entity.ContextTask}}, 1},
		{"by priority", Query{Priorities: []entity.ContextPriority{entity.ContextHigh}}, 1},
		{"by key", Query{Keys: []string{"plan"}}, 1},
		{"no match", Query{Tags: []string{"missing"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, s.GetContext(tt.query), tt.want)
		})
	}
}

func TestGetContextOrderedNewestFirst(t *testing.T) {
	s := NewStore()
	sessionId := uuid.New()

	for i := 0; i < 5; i++ {
		storeEntry(s, sessionId, "roxy", fmt.Sprintf("k%d", i), nil)
		time.Sleep(time.Millisecond)
	}

	got := s.GetContext(Query{SessionId: &sessionId})
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i-1].Timestamp.Before(got[i].Timestamp),
			"entries must be ordered by timestamp descending")
	}
	assert.Equal(t, "k4", got[0].Key)
}

func TestGetContextLimit(t *testing.T) {
	s := NewStore()
	sessionId := uuid.New()

	for i := 0; i < 150; i++ {
		storeEntry(s, sessionId, "roxy", fmt.Sprintf("k%d", i), nil)
	}

	assert.Len(t, s.GetContext(Query{SessionId: &sessionId}), 100, "default limit")
	assert.Len(t, s.GetContext(Query{SessionId: &sessionId, Limit: 10}), 10)
	assert.Len(t, s.GetContext(Query{SessionId: &sessionId, Limit: 5000}), 150, "max cap above result size")
}

func TestExpiredEntriesExcluded(t *testing.T) {
	s := NewStore()
	sessionId := uuid.New()

	past := time.Now().Add(-time.Second)
	storeEntry(s, sessionId, "roxy", "gone", func(e *entity.ContextEntry) {
		e.ExpiresAt = &past
	})
	future := time.Now().Add(time.Hour)
	storeEntry(s, sessionId, "roxy", "alive", func(e *entity.ContextEntry) {
		e.ExpiresAt = &future
	})

	got := s.GetContext(Query{SessionId: &sessionId})
	require.Len(t, got, 1)
	assert.Equal(t, "alive", got[0].Key)
}

func TestInvertedTimeRangeYieldsEmpty(t *testing.T) {
	s := NewStore()
	sessionId := uuid.New()
	storeEntry(s, sessionId, "roxy", "k", nil)

	got := s.GetContext(Query{
		SessionId: &sessionId,
		TimeRange: &TimeRange{Start: time.Now(), End: time.Now().Add(-time.Hour)},
	})
	assert.Empty(t, got)
}

func TestTimeRangeInclusive(t *testing.T) {
	s := NewStore()
	sessionId := uuid.New()

	before := time.Now()
	storeEntry(s, sessionId, "roxy", "k", nil)
	after := time.Now()

	got := s.GetContext(Query{
		SessionId: &sessionId,
		TimeRange: &TimeRange{Start: before, End: after},
	})
	assert.Len(t, got, 1)
}

func TestConversationHistory(t *testing.T) {
	s := NewStore()
	sessionId := uuid.New()

	assert.Nil(t, s.GetConversationContext(sessionId), "no history ever recorded returns nil")

	s.AddToConversationHistory(sessionId, uuid.New(), "user", "hello", entity.ImportanceMedium)
	s.AddToConversationHistory(sessionId, uuid.New(), "roxy", "hi there", entity.ImportanceHigh)
	s.AddToConversationHistory(sessionId, uuid.New(), "user", "thanks", entity.ImportanceLow)

	view := s.GetConversationContext(sessionId)
	require.NotNil(t, view)
	require.Len(t, view.ConversationHistory, 3)
	assert.Equal(t, []string{"user", "roxy"}, view.Participants)

	// Insertion order is non-decreasing in timestamp.
	for i := 1; i < len(view.ConversationHistory); i++ {
		assert.False(t, view.ConversationHistory[i].Timestamp.Before(view.ConversationHistory[i-1].Timestamp))
	}
}

func TestHistoryIsolatedPerSession(t *testing.T) {
	s := NewStore()
	a, b := uuid.New(), uuid.New()

	s.AddToConversationHistory(a, uuid.New(), "user", "only in a", entity.ImportanceLow)

	assert.NotNil(t, s.GetConversationContext(a))
	assert.Nil(t, s.GetConversationContext(b))
}
