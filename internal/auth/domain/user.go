package domain

import (
	"context"
	"time"
)

// User is the spec's minimal identity: a unique id, a unique username, and
// an opaque password hash. Email is ambient (used only to address the
// welcome-email pipeline) and is never a login credential.
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Email        string
	CreatedAt    time.Time
}

// IsDeleted reports whether the user has been soft-deleted: username
// rewritten to the reserved "Deleted User" literal, hash blanked.
func (u User) IsDeleted() bool {
	return u.Username == DeletedUsername
}

const DeletedUsername = "Deleted User"

// UserRepository is the typed persistence contract for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	SearchByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]*User, error)
	// Update persists patched fields; used both for profile edits and for
	// the soft-delete rewrite on account deletion.
	Update(ctx context.Context, user *User) error
}
