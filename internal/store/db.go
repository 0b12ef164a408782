package store

import (
	"chat-server/internal/observability"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// Store is the volatile in-memory backing store for users, conversations and messages.
// State lives for the lifetime of the process; a restart yields an empty store.
type Store struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]User
	conversations map[uuid.UUID]*conversationRecord
	messages      map[uuid.UUID]messageRecord

	// seq orders records that share a timestamp
	seq uint64

	now    func() time.Time
	logger *observability.Logger
}

type Option func(*Store)

// WithClock overrides the time source used to stamp records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(logger *observability.Logger, opts ...Option) *Store {
	s := &Store{
		users:         make(map[uuid.UUID]User),
		conversations: make(map[uuid.UUID]*conversationRecord),
		messages:      make(map[uuid.UUID]messageRecord),
		now:           time.Now,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// nextSeq must be called with mu held for writing.
func (s *Store) nextSeq() uint64 {
	s.seq++
	return s.seq
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}
