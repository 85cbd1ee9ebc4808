package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopcraft/storefront/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// User is a storefront account. Its id is the owner discriminator of the
// persisted cart.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser validates credentials and hashes the password.
func NewUser(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}, nil
}

// VerifyPassword reports whether password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func validateUsername(username string) error {
	if username == "" {
		return shared.ErrInvalidInput.WithMessage("Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.ErrInvalidInput.WithMessage("Username must be at least 3 characters")
	}
	if len(username) > 50 {
		return shared.ErrInvalidInput.WithMessage("Username cannot exceed 50 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.ErrInvalidInput.WithMessage("Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return shared.ErrInvalidInput.WithMessage("Password must be at least 6 characters")
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return shared.ErrInvalidInput.WithMessage("Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
