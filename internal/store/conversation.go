package store

import (
	"chat-server/internal/observability"
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

func (s *Store) CreateConversation(ctx context.Context, params CreateConversationParams) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.timestamp()
	record := &conversationRecord{
		Conversation: Conversation{
			ID:        uuid.New(),
			Title:     params.Title,
			CreatedAt: now,
			UpdatedAt: now,
		},
		touched: s.nextSeq(),
	}
	s.conversations[record.ID] = record
	return record.Conversation, nil
}

func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.conversations[id]
	if !ok {
		return Conversation{}, ErrNotFound
	}
	return record.Conversation, nil
}

// ListConversations returns every conversation, most recently updated first.
// Conversations with equal UpdatedAt are ordered by most recent create/update.
func (s *Store) ListConversations(ctx context.Context) ([]Conversation, error) {
	s.mu.RLock()
	records := lo.Values(s.conversations)
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.touched > b.touched
	})

	return lo.Map(records, func(r *conversationRecord, _ int) Conversation {
		return r.Conversation
	}), nil
}

// UpdateConversation merges params into the conversation and always moves UpdatedAt to now,
// ignoring any UpdatedAt the caller supplied. UpdatedAt never moves backwards.
func (s *Store) UpdateConversation(ctx context.Context, id uuid.UUID, params UpdateConversationParams) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.conversations[id]
	if !ok {
		return Conversation{}, ErrNotFound
	}

	updated := record.Conversation
	if params.Title != nil {
		updated.Title = *params.Title
	}

	now := s.timestamp()
	if now.Before(record.UpdatedAt) {
		now = record.UpdatedAt
	}
	updated.UpdatedAt = now

	s.conversations[id] = &conversationRecord{
		Conversation: updated,
		touched:      s.nextSeq(),
	}
	return updated, nil
}

// DeleteConversation removes the conversation together with all of its messages.
// It reports false when no such conversation existed.
func (s *Store) DeleteConversation(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[id]; !ok {
		return false, nil
	}
	delete(s.conversations, id)
	removed := s.deleteMessagesLocked(id)

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "conversation_id", Value: id.String()},
		observability.Field{Key: "messages_removed", Value: removed},
	)
	s.logger.Debug(ctx, "conversation deleted")
	return true, nil
}
