package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/logintest/accounts-api/internal/core/domain"
)

// DefaultPasswordCost is the bcrypt work factor applied to new hashes.
const DefaultPasswordCost = 12

func passwordCost(cost int) int {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return DefaultPasswordCost
	}
	return cost
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password is too long", domain.ErrValidation)
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func checkConfirmation(password, confirmation string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrValidation)
	}
	if password != confirmation {
		return fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	return nil
}

// normalizeEmail is applied to every email before it reaches storage.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
