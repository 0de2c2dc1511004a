package service

import (
	"fmt"
	"sync"

	"jisang-advisory/internal/models"

	"github.com/google/uuid"
)

// SessionService keeps per-conversation history in memory, keyed by
// session id. Each history belongs to exactly one session; nothing is
// shared across sessions, so concurrent users only contend on the map
// itself.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string][]models.ConversationTurn
}

func NewSessionService() *SessionService {
	return &SessionService{
		sessions: make(map[string][]models.ConversationTurn),
	}
}

// Open creates a session seeded with the assistant greeting for the asset.
func (s *SessionService) Open(address string) string {
	id := uuid.New().String()
	greeting := models.ConversationTurn{
		Role:    models.RoleAssistant,
		Content: fmt.Sprintf("안녕하세요! '%s' 전담 AI 비서입니다. 무엇을 도와드릴까요? (예: 대출 금리는 얼마까지 낮출 수 있어?)", address),
	}

	s.mu.Lock()
	s.sessions[id] = []models.ConversationTurn{greeting}
	s.mu.Unlock()

	return id
}

// Append adds a turn to the session history. Unknown ids start a fresh
// history, so a restarted client keeps working.
func (s *SessionService) Append(id string, turn models.ConversationTurn) {
	s.mu.Lock()
	s.sessions[id] = append(s.sessions[id], turn)
	s.mu.Unlock()
}

// Recent returns a copy of the last n turns of a session.
func (s *SessionService) Recent(id string, n int) []models.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[id]
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]models.ConversationTurn, len(history))
	copy(out, history)
	return out
}

// History returns a copy of the full session history.
func (s *SessionService) History(id string) []models.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ConversationTurn, len(s.sessions[id]))
	copy(out, s.sessions[id])
	return out
}
