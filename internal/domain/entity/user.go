// Package entity contains the core business objects of signup.
package entity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxEmailLength is the width of the stored email column.
const MaxEmailLength = 255

// emailPattern is local-part "@" domain "." tld, where the tld is two or more letters.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// User is a registered account together with the phones it owns.
type User struct {
	ID           uuid.UUID // Generated at registration, never supplied by the caller.
	Name         string
	Email        string // Canonical form, see CanonicalEmail.
	PasswordHash string // Digest produced by a PasswordHasher, never the plaintext.
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  time.Time
	IsActive     bool
	Token        string   // Latest issued session token.
	Phones       []*Phone // Owned by the user, persisted and removed with it.
}

// Phone is a contact number belonging to exactly one User.
type Phone struct {
	ID          int64
	UserID      uuid.UUID // Back-reference for lookups only.
	Number      string
	CityCode    string
	CountryCode string
}

// CanonicalEmail returns the form under which an email is checked and stored.
// Addresses are compared case-insensitively, so "Ana@Test.cl" and "ana@test.cl"
// are the same account. Surrounding whitespace is kept and fails IsValidEmail.
func CanonicalEmail(email string) string {
	return strings.ToLower(email)
}

// IsValidEmail reports whether email has the accepted address shape and fits
// the stored column.
func IsValidEmail(email string) bool {
	return len(email) <= MaxEmailLength && emailPattern.MatchString(email)
}
