package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmynk/onbeventi/internal/auth"
)

func TestSubjectFromBearer(t *testing.T) {
	m := auth.NewJWTManager("test-secret-test-secret-test-sec", time.Hour)
	token, _, err := m.Generate(auth.AdminSubject, auth.AdminRole)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer " + token, want: auth.AdminSubject},
		{name: "missing", header: "", wantErr: auth.ErrMissingToken},
		{name: "wrong scheme", header: "Basic " + token, wantErr: auth.ErrInvalidToken},
		{name: "empty token", header: "Bearer ", wantErr: auth.ErrInvalidToken},
		{name: "tampered", header: "Bearer " + token + "x", wantErr: auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SubjectFromBearer(m, tt.header)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("SubjectFromBearer() = %q, %v", got, err)
			}
		})
	}
}

func TestSubjectContext(t *testing.T) {
	if got := GetSubject(context.Background()); got != "" {
		t.Errorf("GetSubject() on empty context = %q", got)
	}
	ctx := WithSubject(context.Background(), "admin")
	if got := GetSubject(ctx); got != "admin" {
		t.Errorf("GetSubject() = %q, want admin", got)
	}
}
