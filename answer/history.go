package answer

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Exchange is one question/answer pair in a session.
type Exchange struct {
	Question   string
	Answer     string
	Confidence float64
	AskedAt    time.Time
}

// Session groups the exchanges of one conversation.
type Session struct {
	ID        string
	CreatedAt time.Time
	Exchanges []Exchange
}

// History keeps per-session question/answer exchanges in memory.
// Safe for concurrent use.
type History struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{sessions: make(map[string]*Session)}
}

// StartSession creates a new session and returns its id.
func (h *History) StartSession() string {
	id := uuid.NewString()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[id] = &Session{ID: id, CreatedAt: time.Now()}
	return id
}

// Record appends an exchange to a session.
func (h *History) Record(sessionID string, exchange Exchange) error {
	if exchange.AskedAt.IsZero() {
		exchange.AskedAt = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	session, ok := h.sessions[sessionID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}
	session.Exchanges = append(session.Exchanges, exchange)
	return nil
}

// Session returns a copy of a session's exchanges.
func (h *History) Session(sessionID string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}

	copied := &Session{
		ID:        session.ID,
		CreatedAt: session.CreatedAt,
		Exchanges: append([]Exchange(nil), session.Exchanges...),
	}
	return copied, nil
}

// EndSession removes a session.
func (h *History) EndSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, sessionID)
}

// Len returns the number of open sessions.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
