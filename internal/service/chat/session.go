package chat

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okrause/elaborate/internal/model/conversation"
)

// ErrSessionNotFound reports an operation against a discarded or unknown session.
var ErrSessionNotFound = errors.New("session not found")

// Service owns the append-only, turn-ordered conversation logs. Turns are
// never mutated or removed once appended; a discarded session simply drops
// its log.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]conversation.Session
	turns    map[string][]conversation.Turn
}

// NewService bootstraps the in-memory conversation store.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]conversation.Session),
		turns:    make(map[string][]conversation.Turn),
	}
}

// CreateSession opens a fresh session holding the grounding text shown
// alongside the first reply.
func (s *Service) CreateSession(grounding string) conversation.Session {
	session := conversation.Session{
		ID:        uuid.NewString(),
		Grounding: grounding,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.turns[session.ID] = make([]conversation.Turn, 0, 8)
	s.mu.Unlock()

	return session
}

// AppendTurn adds a turn to the session log in send/receive order.
func (s *Service) AppendTurn(sessionID string, turn conversation.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	s.turns[sessionID] = append(s.turns[sessionID], turn)
	return nil
}

// Turns returns a copy of the session's turn log.
func (s *Service) Turns(sessionID string) ([]conversation.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.turns[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]conversation.Turn, len(turns))
	copy(copied, turns)
	return copied, nil
}

// FollowupTranscript renders the full turn history as the transcript field of
// the next follow-up request: speaker-labelled lines joined with blank lines.
// This running transcript is distinct from the grounding transcript the
// session opened with.
func (s *Service) FollowupTranscript(sessionID string) (string, error) {
	turns, err := s.Turns(sessionID)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		switch turn.Speaker {
		case conversation.SpeakerUser:
			lines = append(lines, "You: "+turn.Text)
		case conversation.SpeakerAssistant:
			lines = append(lines, "Assistant: "+turn.Text)
		}
	}
	return strings.Join(lines, "\n\n"), nil
}

// CloseSession discards a session and its turns.
func (s *Service) CloseSession(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	delete(s.turns, sessionID)
	s.mu.Unlock()
}
