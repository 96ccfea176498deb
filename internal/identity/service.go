package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/user-auth-app/user_auth_app/internal/notification"
	"github.com/user-auth-app/user_auth_app/internal/password"
)

// Service orchestrates registration, login and profile updates. It holds no
// locks of its own; cross-request coordination is delegated to the
// repository's uniqueness and version guarantees.
type Service struct {
	repo     Repository
	hasher   password.Hasher
	notifier notification.Notifier
	decoy    []byte
}

// NewService creates an identity service. notifier may be nil.
func NewService(repo Repository, hasher password.Hasher, notifier notification.Notifier) *Service {
	// Digest of a throwaway value, verified when a login targets an unknown
	// email so both failure paths cost roughly one hash comparison.
	decoy, _ := hasher.Hash(uuid.NewString())
	return &Service{repo: repo, hasher: hasher, notifier: notifier, decoy: decoy}
}

// Register creates a new user with a hashed password. The repository's
// unique index is the authority on email uniqueness; the ExistsByEmail
// pre-check only short-circuits the common duplicate case before paying for
// a hash.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	email := NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return User{}, ErrInvalidInput
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return User{}, ErrDuplicateEmail
	}

	// Hashing is deliberately slow; it runs before any store write begins.
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.New().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        email,
		PhoneNumber:  input.PhoneNumber,
		Age:          input.Age,
		Country:      input.Country,
		City:         input.City,
		Address:      input.Address,
		PasswordHash: hash,
		Version:      1,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Insert(ctx, user)
	if err != nil {
		// Concurrent registrations that raced past the pre-check land here as
		// ErrDuplicateEmail.
		return User{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Welcome(created.Email, created.FirstName))
	}

	return created, nil
}

// Login verifies credentials for the email. An unknown email and a wrong
// password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, plaintext string) (User, error) {
	email = NormalizeEmail(email)
	if email == "" || plaintext == "" {
		return User{}, ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.hasher.Verify(plaintext, s.decoy)
			return User{}, ErrInvalidCredentials
		}
		return User{}, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// ListUsers returns all stored users in creation order.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListAll(ctx)
}

// UpdateProfile applies a profile mutation under optimistic concurrency. A
// version conflict is retried once against fresh state before being
// surfaced to the caller.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateInput) (User, error) {
	for attempt := 0; ; attempt++ {
		current, err := s.repo.FindByID(ctx, input.ID)
		if err != nil {
			return User{}, err
		}

		updated := current
		updated.FirstName = input.FirstName
		updated.LastName = input.LastName
		updated.PhoneNumber = input.PhoneNumber
		updated.Age = input.Age
		updated.Country = input.Country
		updated.City = input.City
		updated.Address = input.Address
		if email := NormalizeEmail(input.Email); email != "" {
			updated.Email = email
		}

		saved, err := s.repo.Update(ctx, updated, current.Version)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, ErrConflict) || attempt >= 1 {
			return User{}, err
		}
		// Lost the race; re-read and retry once.
	}
}
