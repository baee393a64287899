package domain

import (
	"regexp"
	"strings"
	"time"
)

// usernamePattern restricts usernames to 3-20 ASCII letters, digits, '_' or '-'.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

// User models a registered identity. Username is immutable after creation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int64     `json:"version"`
}

// ProfilePatch carries the mutable profile fields. Nil pointers are left untouched.
// A non-zero ExpectedVersion makes the update conditional on the stored version.
type ProfilePatch struct {
	Username        *string
	Email           *string
	Nickname        *string
	AvatarURL       *string
	ExpectedVersion int64
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Nickname == nil && p.AvatarURL == nil
}

// ValidUsername reports whether s satisfies the username policy.
func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// NormalizeEmail trims and lower-cases an address so that uniqueness is
// enforced on the canonical form.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
