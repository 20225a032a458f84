package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/store"
)

var (
	// ErrUserNotFound is returned by mutations and deletes addressed to an
	// unknown account.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidDataProvided is returned when a payload fails validation.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrUserAlreadyExists is returned when userId, email or username is
	// already taken.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUnknownIdentity is returned when tokens are requested for an email
	// that matches no account.
	ErrUnknownIdentity = errors.New("unknown identity")

	// ErrInternal wraps every infrastructure failure.
	ErrInternal = errors.New("internal error")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)

// storeError translates a repository error into the service taxonomy.
// Unrecognised errors are logged with the operation tag and wrapped in
// ErrInternal.
func storeError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNoUserWasFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrUserAlreadyExists):
		return ErrUserAlreadyExists
	case errors.Is(err, store.ErrUnknownField):
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	logger.FromContext(ctx).Err(err).Str("op", op).Msg("store operation failed")
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDataProvided, fmt.Sprintf(format, args...))
}
