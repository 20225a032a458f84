package server

import "errors"

// errNoServersAreCreated means neither SERVER_ADDRESS nor SERVER_GRPC_ADDRESS
// produced a transport.
var errNoServersAreCreated = errors.New("no transport is configured: set an HTTP or gRPC address")
