package store

import (
	"chat-server/internal/observability"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testClock is a manually advanced clock. Every store call sees the same instant until Advance is called.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// setupTestStore returns an empty store driven by a controllable clock.
func setupTestStore(t *testing.T) (*Store, *testClock) {
	t.Helper()
	clock := newTestClock()
	return New(observability.NewNopLogger(), WithClock(clock.Now)), clock
}

// Fixtures provides factory functions for creating test data.
type Fixtures struct {
	t     *testing.T
	store *Store
	ctx   context.Context
}

func NewFixtures(t *testing.T, s *Store) *Fixtures {
	t.Helper()
	return &Fixtures{t: t, store: s, ctx: context.Background()}
}

func (f *Fixtures) CreateConversation(title string) Conversation {
	f.t.Helper()
	conversation, err := f.store.CreateConversation(f.ctx, CreateConversationParams{Title: title})
	require.NoError(f.t, err, "failed to create test conversation")
	return conversation
}

func (f *Fixtures) CreateMessage(conversationID uuid.UUID, role MessageRole, content string) Message {
	f.t.Helper()
	message, err := f.store.CreateMessage(f.ctx, CreateMessageParams{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	})
	require.NoError(f.t, err, "failed to create test message")
	return message
}

func ptr[T any](v T) *T {
	return &v
}
