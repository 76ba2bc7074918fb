package session

import (
	"sync"
	"time"

	"collabdesk-be/internal/entity"
	"collabdesk-be/internal/pkg/logger"
	"collabdesk-be/pkg/collab/router"

	"github.com/google/uuid"
)

// Manager owns session identity and the lifecycle state machine:
//
//	(create) -> active
//	active  --Pause-->  paused
//	paused  --Resume--> active
//	active|paused --Cancel--> closed
//	closed: terminal
//
// A closed session rejects writes but stays readable; closed is a
// write-lock, not a tombstone. One mutex guards both maps so no caller
// ever observes a half-updated state (count bumped, lastActivity stale).
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*entity.CollabSession
	states   map[uuid.UUID]*entity.SessionState

	router *router.Router
	logger logger.ILogger
}

func NewManager(r *router.Router, log logger.ILogger) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*entity.CollabSession),
		states:   make(map[uuid.UUID]*entity.SessionState),
		router:   r,
		logger:   log,
	}
}

// Create always succeeds: fresh id, status active, zero messages.
func (m *Manager) Create(userId uuid.UUID) entity.CollabSession {
	now := time.Now()
	s := entity.CollabSession{
		Id:        uuid.New(),
		UserId:    userId,
		CreatedAt: now,
	}

	m.mu.Lock()
	m.sessions[s.Id] = &s
	m.states[s.Id] = &entity.SessionState{
		Status:       entity.SessionActive,
		MessageCount: 0,
		LastActivity: now,
	}
	m.mu.Unlock()

	m.logger.Info("SessionManager", "Session created", map[string]interface{}{
		"session_id": s.Id,
		"user_id":    userId,
	})
	return s
}

func (m *Manager) Get(id uuid.UUID) (entity.CollabSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return entity.CollabSession{}, ErrNotFound
	}
	return *s, nil
}

func (m *Manager) State(id uuid.UUID) (entity.SessionState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.states[id]
	if !ok {
		return entity.SessionState{}, ErrNotFound
	}
	return *st, nil
}

// Owns reports whether userId owns the session. The manager does not
// authenticate; it only exposes the comparison for the calling layer.
func (m *Manager) Owns(s entity.CollabSession, userId uuid.UUID) bool {
	return s.UserId == userId
}

// Accept gates an inbound message on session liveness, delegates routing,
// and updates the activity bookkeeping. The write lock is held across the
// whole sequence so per-session history order matches acceptance order.
func (m *Manager) Accept(msg *entity.AgentMessage) (entity.DeliveryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[msg.SessionId]
	if !ok {
		return entity.DeliveryResult{}, ErrNotFound
	}
	if st.Status != entity.SessionActive {
		return entity.DeliveryResult{}, &InactiveError{Status: st.Status}
	}

	result := m.router.RouteMessage(msg)

	st.MessageCount++
	st.LastActivity = time.Now()
	return result, nil
}

// Pause moves an active session to paused. Pausing a session that is not
// active is a no-op reported as failure, carrying the current status.
func (m *Manager) Pause(id uuid.UUID) error {
	return m.transition(id, entity.SessionActive, entity.SessionPaused, "Session paused")
}

// Resume moves a paused session back to active.
func (m *Manager) Resume(id uuid.UUID) error {
	return m.transition(id, entity.SessionPaused, entity.SessionActive, "Session resumed")
}

// Cancel closes an active or paused session. Closed is terminal:
// cancelling again is a failing no-op, never a crash.
func (m *Manager) Cancel(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[id]
	if !ok {
		return ErrNotFound
	}
	if st.Status == entity.SessionClosed {
		return &InactiveError{Status: st.Status}
	}
	st.Status = entity.SessionClosed
	st.LastActivity = time.Now()

	m.logger.Info("SessionManager", "Session closed", map[string]interface{}{"session_id": id})
	return nil
}

func (m *Manager) transition(id uuid.UUID, from, to entity.SessionStatus, logMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[id]
	if !ok {
		return ErrNotFound
	}
	if st.Status != from {
		return &InactiveError{Status: st.Status}
	}
	st.Status = to
	st.LastActivity = time.Now()

	m.logger.Info("SessionManager", logMsg, map[string]interface{}{"session_id": id})
	return nil
}
