package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo Repository, email string, created time.Time) User {
	t.Helper()
	user, err := repo.Insert(context.Background(), User{
		ID:           uuid.NewString(),
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: []byte("$2a$04$notarealhash"),
		Version:      1,
		CreatedAt:    created,
	})
	require.NoError(t, err)
	return user
}

func TestMemoryRepositoryInsertAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	user := seedUser(t, repo, "john@example.com", time.Now().UTC())

	exists, err := repo.ExistsByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	found, err := repo.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", found.Email)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryDuplicateInsert(t *testing.T) {
	repo := NewMemoryRepository()
	seedUser(t, repo, "john@example.com", time.Now().UTC())

	_, err := repo.Insert(context.Background(), User{
		ID:           uuid.NewString(),
		Email:        "john@example.com",
		PasswordHash: []byte("x"),
		Version:      1,
		CreatedAt:    time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryRepositoryListOrder(t *testing.T) {
	repo := NewMemoryRepository()
	base := time.Now().UTC()
	first := seedUser(t, repo, "first@example.com", base)
	second := seedUser(t, repo, "second@example.com", base.Add(time.Second))

	users, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, first.ID, users[0].ID)
	assert.Equal(t, second.ID, users[1].ID)
}

func TestMemoryRepositoryUpdateVersioning(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	user := seedUser(t, repo, "john@example.com", time.Now().UTC())

	user.City = "Lisbon"
	updated, err := repo.Update(ctx, user, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, "Lisbon", updated.City)

	// Stale writer holding version 1 must be rejected.
	user.City = "Berlin"
	_, err = repo.Update(ctx, user, 1)
	assert.ErrorIs(t, err, ErrConflict)

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", found.City)
}

func TestMemoryRepositoryUpdateUnknownUser(t *testing.T) {
	repo := NewMemoryRepository()
	_, err := repo.Update(context.Background(), User{ID: uuid.NewString()}, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepositoryUpdateEmailChange(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	user := seedUser(t, repo, "old@example.com", time.Now().UTC())
	seedUser(t, repo, "taken@example.com", time.Now().UTC())

	user.Email = "new@example.com"
	updated, err := repo.Update(ctx, user, 1)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)

	_, err = repo.FindByEmail(ctx, "old@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	updated.Email = "taken@example.com"
	_, err = repo.Update(ctx, updated, updated.Version)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}
