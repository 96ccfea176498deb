package identity

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User // keyed by normalized email
}

// NewMemoryRepository builds an in-memory user store with the same
// uniqueness and versioning semantics as the Postgres repository. Used in
// tests and when running without a database.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.users[email]
	return exists, nil
}

func (r *memoryRepository) Insert(_ context.Context, user User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Email]; exists {
		return User{}, ErrDuplicateEmail
	}
	r.users[user.Email] = user
	return user, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) ListAll(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (r *memoryRepository) Update(_ context.Context, user User, expectedVersion int64) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var current User
	var currentEmail string
	found := false
	for email, u := range r.users {
		if u.ID == user.ID {
			current, currentEmail, found = u, email, true
			break
		}
	}
	if !found {
		return User{}, ErrNotFound
	}
	if current.Version != expectedVersion {
		return User{}, ErrConflict
	}
	if user.Email != currentEmail {
		if _, taken := r.users[user.Email]; taken {
			return User{}, ErrDuplicateEmail
		}
		delete(r.users, currentEmail)
	}
	user.PasswordHash = current.PasswordHash
	user.CreatedAt = current.CreatedAt
	user.Version = current.Version + 1
	r.users[user.Email] = user
	return user, nil
}
