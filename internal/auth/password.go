package auth

import (
	"errors"
	"fmt"

	"github.com/Abdurahmanit/meraroom-service/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch is returned by Compare when the password is wrong.
var ErrPasswordMismatch = errors.New("password does not match")

// PasswordHasher hashes passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, or bcrypt's default when cost is out of range.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash rejects passwords shorter than the minimum before hashing.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) < domain.MinPasswordLength {
		return "", &domain.ValidationError{Fields: []domain.FieldError{{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", domain.MinPasswordLength),
		}}}
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Compare checks password against a stored hash.
func (h *PasswordHasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
