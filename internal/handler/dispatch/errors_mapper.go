package dispatch

import (
	"errors"

	"github.com/MKhiriev/go-accounts/internal/service"
	"github.com/MKhiriev/go-accounts/models"
)

var errorCodeMap = []struct {
	target error
	code   string
}{
	{ErrUnknownCommand, models.CodeUnknownCommand},
	{ErrBadPayload, models.CodeBadPayload},
	{service.ErrUserNotFound, models.CodeNotFound},
	{service.ErrUserAlreadyExists, models.CodeValidation},
	{service.ErrInvalidDataProvided, models.CodeValidation},
	{service.ErrUnknownIdentity, models.CodeUnauthorized},
	{service.ErrInternal, models.CodeInternal},
}

// CodeFromError returns the reply code of err. Errors outside the known
// taxonomy are internal.
func CodeFromError(err error) string {
	for _, entry := range errorCodeMap {
		if errors.Is(err, entry.target) {
			return entry.code
		}
	}
	return models.CodeInternal
}

// ReplyError converts err into the error part of a reply.
func ReplyError(err error) *models.ReplyError {
	if err == nil {
		return nil
	}

	return &models.ReplyError{
		Code:    CodeFromError(err),
		Message: err.Error(),
	}
}
