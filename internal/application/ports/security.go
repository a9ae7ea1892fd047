package ports

// PasswordHasher hashes and verifies passwords (Argon2id).
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches encoded. A malformed encoded
	// value verifies as false, never as an error.
	Verify(password, encoded string) bool
}
