// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher is the Credential Hasher: a salted, deliberately slow
// one-way transform of a plaintext secret.
type PasswordHasher interface {
	// Hash returns a fresh salted digest of password. Two calls with the same
	// password yield different digests that both pass Check.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a digest produced by Hash.
	Check(password, hash string) bool
}
