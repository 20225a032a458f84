// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for sending commands
// to the accounts service.
//
// The primary abstraction is [ServerAdapter], which decouples the CLI client
// from the underlying protocol. The package ships an HTTP implementation
// ([NewHTTPServerAdapter]) and a gRPC implementation ([NewGRPCServerAdapter]).
//
// Command failures are returned inside the reply. Transport failures are
// mapped to the sentinel errors in errors.go so that callers can use
// [errors.Is] regardless of the protocol.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-accounts/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the accounts
// service.
type ServerAdapter interface {
	// Send executes one command and returns its reply. A non-nil error means
	// the command could not be delivered or the answer could not be read.
	Send(ctx context.Context, cmd models.Command) (models.Reply, error)

	// Close releases the underlying connection.
	Close() error
}
