package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// Role is an opaque tag stored with the user. Nothing in this service
// enforces it; it is carried for downstream consumers.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// User is a registered principal. Email is unique case-insensitively.
// RefreshToken holds the single currently-valid refresh token; nil means
// the user has no live session.
type User struct {
	ID           UserID
	Username     string
	Email        string
	PasswordHash string
	Confirmed    bool
	RefreshToken *string
	Role         Role
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
