package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/onbeventi/internal/repository"
	"github.com/mmynk/onbeventi/pkg/validator"
)

// toConnectError maps domain errors to Connect codes. Anything unknown is
// logged and reported as Internal.
func toConnectError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrEventNotFound), errors.Is(err, repository.ErrAttendeeNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, repository.ErrCapacityReached), errors.Is(err, repository.ErrCapacityExceeded):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, repository.ErrStaleRevision):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, repository.ErrDuplicateID):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, validator.ErrInvalid):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		slog.ErrorContext(ctx, op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}
