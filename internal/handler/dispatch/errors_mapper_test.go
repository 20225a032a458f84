package dispatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/MKhiriev/go-accounts/internal/service"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/stretchr/testify/assert"
)

func TestCodeFromError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("%w: users/x", ErrUnknownCommand), models.CodeUnknownCommand},
		{fmt.Errorf("%w: missing data", ErrBadPayload), models.CodeBadPayload},
		{service.ErrUserNotFound, models.CodeNotFound},
		{service.ErrUserAlreadyExists, models.CodeValidation},
		{fmt.Errorf("%w: email is required", service.ErrInvalidDataProvided), models.CodeValidation},
		{service.ErrUnknownIdentity, models.CodeUnauthorized},
		{fmt.Errorf("%w: timeout", service.ErrInternal), models.CodeInternal},
		{errors.New("something else"), models.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, CodeFromError(tt.err))
		})
	}
}

func TestReplyError(t *testing.T) {
	assert.Nil(t, ReplyError(nil))

	got := ReplyError(service.ErrUserNotFound)
	assert.Equal(t, &models.ReplyError{Code: models.CodeNotFound, Message: "user not found"}, got)
}
