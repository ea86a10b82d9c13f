// Package auth protects the API with a single organizer password and
// short-lived bearer tokens.
package auth

import "context"

const (
	issuer = "onbeventi"

	// AdminSubject and AdminRole identify the organizer in issued tokens.
	AdminSubject = "admin"
	AdminRole    = "organizer"
)

// Authenticator verifies a credential and returns the authenticated subject.
// This abstraction allows swapping the single-password scheme for per-user
// accounts without changing the service layer.
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (string, error)
}
