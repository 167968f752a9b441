package domain

import (
	"context"
	"time"
)

// User is an authenticated principal. Accounts are created on first
// successful one-time-code verification, never ahead of it.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewUser creates a new User instance.
func NewUser(id, email string) *User {
	now := time.Now()
	return &User{
		ID:        id,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate validates the user.
func (u *User) Validate() error {
	if u.ID == "" {
		return NewInvalidInputError("user id is required")
	}
	if u.Email == "" {
		return NewInvalidInputError("email is required")
	}
	return nil
}

// Profile holds the display names for one user. Exactly one row per user;
// created lazily on first access and never deleted while the user exists.
type Profile struct {
	ID        string
	FirstName *string
	LastName  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName renders the profile for UI lists. Falls back to the empty
// string when both names are unset.
func (p *Profile) DisplayName() string {
	switch {
	case p.FirstName != nil && p.LastName != nil:
		return *p.FirstName + " " + *p.LastName
	case p.FirstName != nil:
		return *p.FirstName
	case p.LastName != nil:
		return *p.LastName
	default:
		return ""
	}
}

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// ProfileRepository defines the interface for profile persistence.
type ProfileRepository interface {
	// EnsureProfile inserts an empty profile row for the user if absent.
	EnsureProfile(ctx context.Context, userID string) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	GetProfilesByIDs(ctx context.Context, userIDs []string) ([]*Profile, error)
	UpdateProfile(ctx context.Context, profile *Profile) error
}
