package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret-test-secret-test-sec", time.Hour)

	token, expires, err := m.Generate(AdminSubject, AdminRole)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if time.Until(expires) < 59*time.Minute {
		t.Errorf("expires = %v, want about one hour from now", expires)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.Subject != AdminSubject || claims.Role != AdminRole {
		t.Errorf("claims = %+v", claims)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-another-secret-an", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { m.now = time.Now }()
		if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestAdminAuthenticator(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	a, err := NewAdminAuthenticator(string(hash))
	if err != nil {
		t.Fatalf("NewAdminAuthenticator failed: %v", err)
	}

	subject, err := a.Authenticate(context.Background(), "correct horse")
	if err != nil || subject != AdminSubject {
		t.Errorf("Authenticate() = %q, %v", subject, err)
	}
	if _, err := a.Authenticate(context.Background(), "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}

	if _, err := NewAdminAuthenticator("plaintext"); err == nil {
		t.Error("NewAdminAuthenticator() expected error for a non-bcrypt hash")
	}
}

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("error = %v, want ErrWeakPassword", err)
	}
	hash, err := HashPassword("long enough")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("long enough")) != nil {
		t.Error("hash does not match password")
	}
}
