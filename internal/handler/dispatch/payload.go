package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-accounts/internal/utils"
)

// decode strictly decodes data into a new T.
func decode[T any](data json.RawMessage) (T, error) {
	var payload T
	if len(bytes.TrimSpace(data)) == 0 {
		return payload, fmt.Errorf("%w: missing data", ErrBadPayload)
	}

	if err := utils.DecodeJSON(bytes.NewReader(data), &payload); err != nil {
		return payload, fmt.Errorf("%w: %w", ErrBadPayload, err)
	}

	return payload, nil
}

// decodeString decodes a bare JSON string payload such as "<userId>".
func decodeString(data json.RawMessage) (string, error) {
	return decode[string](data)
}
