package domain

import (
	"context"
	"strings"
	"time"
)

// Application roles carried in users and identity tokens.
const (
	RoleOrganizer   = "organizer"
	RoleParticipant = "participant"
)

// NormalizeRole lowercases and trims role. An empty role becomes RoleParticipant.
// The second return value is false when the role is not one of the known roles.
func NormalizeRole(role string) (string, bool) {
	r := strings.TrimSpace(strings.ToLower(role))
	switch r {
	case "":
		return RoleParticipant, true
	case RoleOrganizer, RoleParticipant:
		return r, true
	default:
		return r, false
	}
}

// User represents a registered account. PasswordHash never leaves the server.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(name, email, passwordHash, role string, createdAt, updatedAt time.Time) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Summary returns the public {id, name, email} projection used when users are
// embedded in events.
func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// UserSummary is the public projection of a user embedded in event responses.
// swagger:model UserSummary
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Claims is the identity asserted by a verified token.
type Claims struct {
	SubjectID string
	Role      string
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer issues signed, time-limited identity tokens.
type TokenIssuer interface {
	Issue(subjectID, role string) (string, error)
}

// TokenVerifier verifies a token and returns the identity it asserts.
// Any failure (bad signature, malformed, expired) is reported as ErrInvalidToken.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ListByIDs returns the users found for ids; missing ids are skipped.
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
}

// UserService defines account registration and login.
type UserService interface {
	Register(ctx context.Context, name, email, password, role string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
