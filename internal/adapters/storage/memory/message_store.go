package memory

import (
	"fmt"
	"sync"

	"github.com/PabloGalante/mul/internal/domain"
)

// MessageStore is the in-memory chat log. Only a message that is still
// streaming can be updated.
type MessageStore struct {
	mu       sync.RWMutex
	messages []*domain.ChatMessage
	byID     map[domain.MessageID]*domain.ChatMessage
}

func NewMessageStore() *MessageStore {
	return &MessageStore{
		byID: make(map[domain.MessageID]*domain.ChatMessage),
	}
}

func (s *MessageStore) AppendMessage(msg *domain.ChatMessage) error {
	if msg == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[msg.ID]; exists {
		return fmt.Errorf("message %s already exists", msg.ID)
	}

	cp := *msg
	s.messages = append(s.messages, &cp)
	s.byID[cp.ID] = &cp
	return nil
}

// UpdateMessage replaces the text of a streaming message. Passing
// streaming=false seals it.
func (s *MessageStore) UpdateMessage(id domain.MessageID, text string, streaming bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("message %s not found", id)
	}
	if !msg.Streaming {
		return fmt.Errorf("message %s is final", id)
	}

	msg.Text = text
	msg.Streaming = streaming
	return nil
}

// ListMessages returns copies of the last `limit` messages in order.
// If limit <= 0, returns all.
func (s *MessageStore) ListMessages(limit int) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]domain.ChatMessage, len(msgs))
	for i, m := range msgs {
		out[i] = *m
	}
	return out, nil
}
