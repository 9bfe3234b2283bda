package user

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/barangaymabini/portal/internal/session"
)

var (
	ErrNotFound             = errors.New("User not found")
	ErrDuplicate            = errors.New("Username or Email already exists")
	ErrUsernameTaken        = errors.New("Username already in use")
	ErrEmailTaken           = errors.New("Email already in use")
	ErrInvalidCredentials   = errors.New("Invalid username or password")
	ErrInvalidAdminCode     = errors.New("Invalid admin registry code")
	ErrInvalidModeratorCode = errors.New("Invalid moderator registry code")
	ErrCodeNotAllowed       = errors.New("Registry code not required for viewer role")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidInput         = errors.New("invalid input")
)

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleViewer    = "viewer"
)

var validRoles = map[string]struct{}{
	RoleAdmin:     {},
	RoleModerator: {},
	RoleViewer:    {},
}

// IsValidRole reports whether role is one of the portal roles.
func IsValidRole(role string) bool {
	_, ok := validRoles[role]
	return ok
}

// User is a portal account. The password hash never serializes.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Age          int       `json:"age"`
	Address      string    `json:"address"`
	Gender       string    `json:"gender"`
	PhoneNumber  string    `json:"phoneNumber"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Snapshot builds the session copy of the profile.
func (u User) Snapshot() session.Snapshot {
	return session.Snapshot{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Age:         u.Age,
		Address:     u.Address,
		Gender:      u.Gender,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}
