package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// AdminAuthenticator checks the single organizer password against a bcrypt hash
// supplied through configuration.
type AdminAuthenticator struct {
	hash []byte
}

// NewAdminAuthenticator validates that hash is a bcrypt hash.
func NewAdminAuthenticator(hash string) (*AdminAuthenticator, error) {
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("invalid password hash: %w", err)
	}
	return &AdminAuthenticator{hash: []byte(hash)}, nil
}

// Authenticate returns the subject for a correct password.
func (a *AdminAuthenticator) Authenticate(_ context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return AdminSubject, nil
}

// HashPassword returns a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
