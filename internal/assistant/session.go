package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/finanmaster/internal/model"
)

// ErrEmptyQuery is returned for a blank question.
var ErrEmptyQuery = errors.New("empty query")

// Session is one chat conversation. It records both sides of every
// exchange; failures only ever add the apology.
type Session struct {
	bridge  *Bridge
	now     func() time.Time
	history []model.ChatMessage
	mu      sync.Mutex
}

// NewSession starts an empty conversation over bridge.
func NewSession(bridge *Bridge) *Session {
	return &Session{bridge: bridge, now: time.Now}
}

// Send asks query and records the exchange.
func (s *Session) Send(ctx context.Context, query string, userID *int) (Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Answer{}, ErrEmptyQuery
	}

	s.append(model.SenderUser, query)
	answer := s.bridge.Ask(ctx, query, userID)
	s.append(model.SenderAssistant, answer.Response)
	return answer, nil
}

func (s *Session) append(sender model.Sender, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, model.NewChatMessage(sender, text, s.now()))
}

// History returns the messages so far, oldest first.
func (s *Session) History() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// Clear forgets the conversation.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
