package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/onbeventi/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// SubjectKey is the context key for storing the authenticated subject.
	SubjectKey contextKey = "subject"

	subjectSlotKey contextKey = "subject-slot"
)

// subjectSlot lets an outer interceptor see the subject set further in.
type subjectSlot struct {
	subject string
}

// GetSubject extracts the authenticated subject from the context.
// Returns empty string if not found.
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(SubjectKey).(string)
	return subject
}

// WithSubject returns a copy of ctx carrying subject.
func WithSubject(ctx context.Context, subject string) context.Context {
	if slot, ok := ctx.Value(subjectSlotKey).(*subjectSlot); ok {
		slot.subject = subject
	}
	return context.WithValue(ctx, SubjectKey, subject)
}

// SubjectFromBearer validates an "Authorization: Bearer <token>" header value.
func SubjectFromBearer(jwtManager *auth.JWTManager, header string) (string, error) {
	if header == "" {
		return "", auth.ErrMissingToken
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", auth.ErrInvalidToken
	}
	claims, err := jwtManager.Validate(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// RequireAuth returns an interceptor that validates bearer tokens on every
// procedure except the public ones (such as Login) and adds the subject to
// the request context.
func RequireAuth(jwtManager *auth.JWTManager, publicProcedures ...string) connect.UnaryInterceptorFunc {
	public := make(map[string]bool, len(publicProcedures))
	for _, p := range publicProcedures {
		public[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if public[req.Spec().Procedure] {
				return next(ctx, req)
			}

			subject, err := SubjectFromBearer(jwtManager, req.Header().Get("Authorization"))
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithSubject(ctx, subject), req)
		}
	}
}
