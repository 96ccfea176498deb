package identity

import (
	"strings"
	"time"
)

// User represents a registered account. PasswordHash never leaves the
// service boundary; handlers project users through a response DTO.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	Age          *int
	Country      string
	City         string
	Address      string
	PasswordHash []byte
	Version      int64
	CreatedAt    time.Time
}

// RegisterInput carries the fields accepted at signup.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
	Age         *int
	Country     string
	City        string
	Address     string
}

// UpdateInput describes a profile mutation for an existing user. The
// password is not updatable through this path.
type UpdateInput struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Age         *int
	Country     string
	City        string
	Address     string
}

// NormalizeEmail applies the single email policy used across the service:
// addresses are trimmed and lower-cased before compare and store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
