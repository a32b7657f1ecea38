package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Column limits mirrored by the relational schema.
const (
	MaxUsernameLen = 50
	MaxEmailLen    = 100
	MinPasswordLen = 6
)

// User is an account record. PasswordHash never leaves the service layer.
type User struct {
	id           int64
	username     string
	email        string
	passwordHash string
	active       bool
	admin        bool
	createdAt    time.Time
	updatedAt    *time.Time
}

// New validates identity fields and creates an unsaved User (id 0).
func New(username, email, passwordHash string, active, admin bool) (User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if err := ValidateUsername(username); err != nil {
		return User{}, err
	}
	if err := ValidateEmail(email); err != nil {
		return User{}, err
	}
	if passwordHash == "" {
		return User{}, fmt.Errorf("password is required")
	}
	return User{
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		active:       active,
		admin:        admin,
		createdAt:    time.Now().UTC(),
	}, nil
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(
	id int64, username, email, passwordHash string, active, admin bool,
	createdAt time.Time, updatedAt *time.Time,
) User {
	return User{
		id: id, username: username, email: email, passwordHash: passwordHash,
		active: active, admin: admin, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ValidateUsername checks presence and length.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username too long (max %d)", MaxUsernameLen)
	}
	return nil
}

// ValidateEmail checks presence, length and address syntax.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLen {
		return fmt.Errorf("email too long (max %d)", MaxEmailLen)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

func (u *User) ID() int64             { return u.id }
func (u *User) Username() string      { return u.username }
func (u *User) Email() string         { return u.email }
func (u *User) PasswordHash() string  { return u.passwordHash }
func (u *User) IsActive() bool        { return u.active }
func (u *User) IsAdmin() bool         { return u.admin }
func (u *User) CreatedAt() time.Time  { return u.createdAt }
func (u *User) UpdatedAt() *time.Time { return u.updatedAt }

// Update is a partial account change. Password is plain text here and hashed by the service.
type Update struct {
	Username *string
	Email    *string
	Password *string
	Active   *bool
	Admin    *bool
}

// IsEmpty reports whether no field is set.
func (u Update) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil && u.Active == nil && u.Admin == nil
}

// Apply returns a copy with identity and flag changes applied. passwordHash replaces the
// stored hash when non-empty.
func (u *User) Apply(upd Update, passwordHash string) User {
	out := *u
	if upd.Username != nil {
		out.username = strings.TrimSpace(*upd.Username)
	}
	if upd.Email != nil {
		out.email = strings.TrimSpace(*upd.Email)
	}
	if passwordHash != "" {
		out.passwordHash = passwordHash
	}
	if upd.Active != nil {
		out.active = *upd.Active
	}
	if upd.Admin != nil {
		out.admin = *upd.Admin
	}
	now := time.Now().UTC()
	out.updatedAt = &now
	return out
}
