package store

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// CreateMessage stores a message stamped with the current time. The conversation is not checked.
func (s *Store) CreateMessage(ctx context.Context, params CreateMessageParams) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := messageRecord{
		Message: Message{
			ID:             uuid.New(),
			ConversationID: params.ConversationID,
			Content:        params.Content,
			Role:           params.Role,
			CreatedAt:      s.timestamp(),
		},
		seq: s.nextSeq(),
	}
	s.messages[record.ID] = record
	return record.Message, nil
}

func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.messages[id]
	if !ok {
		return Message{}, ErrNotFound
	}
	return record.Message, nil
}

// ListMessagesByConversation returns the conversation's messages oldest first.
// Messages created at the same instant keep their insertion order.
func (s *Store) ListMessagesByConversation(ctx context.Context, conversationID uuid.UUID) ([]Message, error) {
	s.mu.RLock()
	records := lo.Filter(lo.Values(s.messages), func(r messageRecord, _ int) bool {
		return r.ConversationID == conversationID
	})
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.seq < b.seq
	})

	return lo.Map(records, func(r messageRecord, _ int) Message {
		return r.Message
	}), nil
}

// DeleteMessagesByConversation removes every message of the conversation. It always succeeds.
func (s *Store) DeleteMessagesByConversation(ctx context.Context, conversationID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteMessagesLocked(conversationID)
	return true, nil
}

func (s *Store) deleteMessagesLocked(conversationID uuid.UUID) int {
	removed := 0
	for id, record := range s.messages {
		if record.ConversationID == conversationID {
			delete(s.messages, id)
			removed++
		}
	}
	return removed
}
