package http

import (
	"net/http"

	"github.com/MKhiriev/go-accounts/models"
)

var codeStatusMap = map[string]int{
	models.CodeNotFound:       http.StatusNotFound,
	models.CodeValidation:     http.StatusBadRequest,
	models.CodeUnauthorized:   http.StatusUnauthorized,
	models.CodeInternal:       http.StatusInternalServerError,
	models.CodeUnknownCommand: http.StatusNotFound,
	models.CodeBadPayload:     http.StatusBadRequest,
}

func statusFromCode(code string) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
