// Package utils provides general-purpose helpers shared by the server,
// the login-events consumer and the CLI client: context keys, HMAC hashing,
// JSON response writing, the resty client constructor, JWT signing and
// identifier generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys so that values set here
// cannot collide with string keys of other packages.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// TraceIDCtxKey is the key under which the trace identifier of the current
// request or message is stored.
var TraceIDCtxKey = contextKey("traceID")

// WithTraceID returns a copy of ctx carrying traceID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDCtxKey, traceID)
}

// GetTraceIDFromContext returns the trace identifier stored in ctx.
// ok is false when the value is missing or is not a non-empty string.
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	return traceID, ok && traceID != ""
}

// maxTraceIDLength bounds caller-supplied ids that end up in every log line.
const maxTraceIDLength = 128

// IsValidTraceID reports whether a caller-supplied trace id can be reused:
// non-empty printable ASCII without spaces, at most 128 bytes.
func IsValidTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
