package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"secsentry/internal/assessment"
	"secsentry/internal/embedding"
	"secsentry/types"
)

// Session is one live assessment conversation. The manager underneath is not
// safe for concurrent use, so each session serializes its own turns.
type Session struct {
	ID              string
	CreatedAt       time.Time
	CurrentQuestion string

	manager *assessment.Manager
	mu      sync.Mutex
}

// ProcessTurn runs one turn against the session's conversation manager. An
// empty question means "the question the engine asked last".
func (s *Session) ProcessTurn(ctx context.Context, question, answer string) (*types.TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if question == "" {
		question = s.CurrentQuestion
	}

	result, err := s.manager.ProcessTurn(ctx, question, answer)
	if err != nil {
		return nil, err
	}

	s.CurrentQuestion = result.NextQuestion
	return result, nil
}

// Assessment returns the session's running aggregate.
func (s *Session) Assessment() *types.RiskAssessment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.Assessment()
}

// Report builds the session's end-of-session report.
func (s *Session) Report() *types.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.GenerateReport()
}

// TurnCount returns the number of processed turns.
func (s *Session) TurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.TurnCount()
}

// SessionManager tracks live assessment sessions by ID.
type SessionManager struct {
	catalog       *assessment.Catalog
	provider      embedding.Provider
	firstQuestion string

	sessions map[string]*Session
	mutex    sync.RWMutex
}

// NewSessionManager creates a session manager. Every session it creates runs
// against the same catalog and embedding provider.
func NewSessionManager(catalog *assessment.Catalog, provider embedding.Provider, firstQuestion string) *SessionManager {
	return &SessionManager{
		catalog:       catalog,
		provider:      provider,
		firstQuestion: firstQuestion,
		sessions:      make(map[string]*Session),
	}
}

// Create starts a new session and returns it.
func (sm *SessionManager) Create() *Session {
	session := &Session{
		ID:              uuid.New().String(),
		CreatedAt:       time.Now(),
		CurrentQuestion: sm.firstQuestion,
		manager:         assessment.NewManager(sm.catalog, sm.provider),
	}

	sm.mutex.Lock()
	sm.sessions[session.ID] = session
	sm.mutex.Unlock()

	return session
}

// Get retrieves a session by ID.
func (sm *SessionManager) Get(id string) (*Session, bool) {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	session, exists := sm.sessions[id]
	return session, exists
}

// Delete removes a session. Deleting an unknown ID is a no-op.
func (sm *SessionManager) Delete(id string) {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	delete(sm.sessions, id)
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return len(sm.sessions)
}
