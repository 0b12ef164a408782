package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

func (s *Store) CreateUser(ctx context.Context, params CreateUserParams) (User, error) {
	user := User{
		ID:       uuid.New(),
		Username: params.Username,
		Password: params.Password,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := lo.Find(lo.Values(s.users), func(u User) bool {
		return u.Username == username
	})
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}
