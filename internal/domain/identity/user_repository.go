package identity

import "context"

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create stores a new user and assigns its id. It returns
	// shared.ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, user *User) error

	// FindByID returns shared.ErrNotFound when absent.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByUsername returns shared.ErrNotFound when absent.
	FindByUsername(ctx context.Context, username string) (*User, error)
}
