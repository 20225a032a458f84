// Package server runs the HTTP and gRPC command transports together with the
// login-events consumer, and shuts all of them down on SIGINT, SIGTERM or
// SIGQUIT.
package server
