// Package config loads, merges and validates the configuration of the
// accounts service and its CLI client.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// [GetStructuredConfig] is the server entry point; the client calls [Load]
// with its own flag set and then [StructuredConfig.ValidateClient].
package config
