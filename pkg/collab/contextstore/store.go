package contextstore

import (
	"sync"
	"time"

	"collabdesk-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store holds the structured memory entries and the per-session
// conversation histories. Entries live in a go-cache instance so that
// per-entry TTLs give lazy expiry (no janitor is started: expired entries
// are invisible to reads but never actively purged). Secondary indexes and
// histories are guarded by the store mutex.
type Store struct {
	entries *cache.Cache

	mu        sync.RWMutex
	bySession map[uuid.UUID][]string
	byType    map[entity.ContextType][]string
	byTag     map[string][]string
	histories map[uuid.UUID][]entity.ConversationHistoryEntry
}

// ConversationView is the read model for a session's conversation log.
type ConversationView struct {
	ConversationHistory []entity.ConversationHistoryEntry
	Participants        []string
}

func NewStore() *Store {
	return &Store{
		// No default expiration, no cleanup goroutine: expiry is per entry
		// and strictly lazy.
		entries:   cache.New(cache.NoExpiration, 0),
		bySession: make(map[uuid.UUID][]string),
		byType:    make(map[entity.ContextType][]string),
		byTag:     make(map[string][]string),
		histories: make(map[uuid.UUID][]entity.ConversationHistoryEntry),
	}
}

// StoreContext assigns a fresh id and timestamp and stores the entry.
// There is no uniqueness constraint on key: a repeated key is a new entry,
// not a merge. Always succeeds on well-typed input.
func (s *Store) StoreContext(e entity.ContextEntry) uuid.UUID {
	e.Id = uuid.New()
	e.Timestamp = time.Now()

	ttl := cache.NoExpiration
	if e.ExpiresAt != nil {
		ttl = time.Until(*e.ExpiresAt)
		if ttl <= 0 {
			// Already expired at store time; keep it addressable in the
			// cache but dead to every read.
			ttl = time.Nanosecond
		}
	}

	id := e.Id.String()
	s.entries.Set(id, &e, ttl)

	s.mu.Lock()
	s.bySession[e.SessionId] = append(s.bySession[e.SessionId], id)
	s.byType[e.ContextType] = append(s.byType[e.ContextType], id)
	for _, tag := range e.Tags {
		s.byTag[tag] = append(s.byTag[tag], id)
	}
	s.mu.Unlock()

	return e.Id
}

// GetContext returns the entries matching the query, newest first, capped
// by the query limit. Expired entries are excluded relative to call time.
func (s *Store) GetContext(q Query) []entity.ContextEntry {
	now := time.Now()
	candidates := s.candidateIds(q)

	matched := make([]entity.ContextEntry, 0)
	seen := make(map[string]struct{}, len(candidates))
	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		raw, found := s.entries.Get(id)
		if !found {
			// TTL already elapsed inside the cache.
			continue
		}
		e := raw.(*entity.ContextEntry)
		if e.Expired(now) {
			continue
		}
		if q.matches(e) {
			matched = append(matched, *e)
		}
	}

	sortByTimestampDesc(matched)

	// The limit is a hard cap applied after filtering and sorting.
	if limit := q.effectiveLimit(); len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

// candidateIds narrows the scan using the most selective available index.
// Index lists may reference ids whose TTL has elapsed; callers re-resolve
// each id against the cache.
func (s *Store) candidateIds(q Query) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case len(q.Tags) > 0:
		var ids []string
		for _, tag := range q.Tags {
			ids = append(ids, s.byTag[tag]...)
		}
		return ids
	case q.SessionId != nil:
		return append([]string(nil), s.bySession[*q.SessionId]...)
	case len(q.ContextTypes) > 0:
		var ids []string
		for _, ct := range q.ContextTypes {
			ids = append(ids, s.byType[ct]...)
		}
		return ids
	default:
		items := s.entries.Items()
		ids := make([]string, 0, len(items))
		for id := range items {
			ids = append(ids, id)
		}
		return ids
	}
}

// AddToConversationHistory appends one record to the session's log,
// creating the log lazily on first use. The store has no session-existence
// dependency; that check belongs to the session manager.
func (s *Store) AddToConversationHistory(sessionId, messageId uuid.UUID, agentId, content string, importance entity.Importance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[sessionId] = append(s.histories[sessionId], entity.ConversationHistoryEntry{
		MessageId:  messageId,
		AgentId:    agentId,
		Content:    content,
		Importance: importance,
		Timestamp:  time.Now(),
	})
}

// GetConversationContext returns the session's conversation view, or nil
// if no history has ever been recorded for that session. Callers use nil
// to short-circuit with an empty-state response.
func (s *Store) GetConversationContext(sessionId uuid.UUID) *ConversationView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.histories[sessionId]
	if !ok {
		return nil
	}

	view := &ConversationView{
		ConversationHistory: append([]entity.ConversationHistoryEntry(nil), history...),
	}
	seen := make(map[string]struct{})
	for _, h := range history {
		if _, dup := seen[h.AgentId]; !dup {
			seen[h.AgentId] = struct{}{}
			view.Participants = append(view.Participants, h.AgentId)
		}
	}
	return view
}
