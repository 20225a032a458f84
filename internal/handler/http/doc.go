// Package http implements the HTTP transport of the accounts service.
//
// Commands are posted to /api/commands/{cmd}/{method} with the raw payload as
// the request body and answered with the reply envelope. Request tracing,
// access logging, response compression and the optional HMAC integrity check
// are handled here before the command reaches the dispatcher.
package http
