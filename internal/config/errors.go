package config

import "errors"

// Validation errors returned when a configuration group is incomplete or
// invalid. Returned errors wrap one of these with the failing rule.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (missing token sign key, unknown timezone or week start day).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidStorageConfigs indicates a missing database URI.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid listen or timeout settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidBrokerConfigs indicates an enabled consumer without a queue
	// name or with a non-positive prefetch count.
	ErrInvalidBrokerConfigs = errors.New("invalid broker configuration")
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")

	// ErrInvalidEnvConfigs wraps every variable that could not be parsed.
	ErrInvalidEnvConfigs = errors.New("error getting env configs")
)
