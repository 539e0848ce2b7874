package auth

import (
	"errors"
	"fmt"

	"github.com/niksmo/snublejuice/internal/core/domain"
	"github.com/niksmo/snublejuice/internal/core/port"
	"golang.org/x/crypto/bcrypt"
)

var _ port.PasswordHasher = (*BcryptHasher)(nil)

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to the default cost when cost is out of range.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(password string) (string, error) {
	const op = "BcryptHasher.Hash"

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(b), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	const op = "BcryptHasher.Compare"

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) ||
			errors.Is(err, bcrypt.ErrHashTooShort) {
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
