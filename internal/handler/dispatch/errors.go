package dispatch

import "errors"

var (
	// ErrUnknownCommand is returned for a (cmd, method) pair with no route.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadPayload is returned when the command data cannot be decoded into
	// the payload expected by the route.
	ErrBadPayload = errors.New("bad payload")
)
