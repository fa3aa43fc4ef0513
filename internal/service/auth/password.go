package auth

import "golang.org/x/crypto/bcrypt"

// PasswordVerifier checks a plaintext password against a stored hash.
// Login, password change, and account deletion all confirm credentials
// through this interface so tests can substitute a fake.
type PasswordVerifier interface {
	// Compare returns nil when password matches hashedPassword, and a
	// non-nil error on mismatch or a malformed hash.
	Compare(hashedPassword, password string) error
}

// BcryptVerifier is the production PasswordVerifier, backed by bcrypt.
type BcryptVerifier struct{}

// NewBcryptVerifier creates a new BcryptVerifier.
func NewBcryptVerifier() *BcryptVerifier {
	return &BcryptVerifier{}
}

// Compare implements PasswordVerifier.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
