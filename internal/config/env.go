// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from APP_*, STORAGE_*, SERVER_*, BROKER_* and ADAPTER_*
// variables. All malformed variables are reported at once, each naming its
// struct field.
func parseEnv(cfg *StructuredConfig) error {
	err := env.Parse(cfg)
	if err == nil {
		return nil
	}

	var aggregate env.AggregateError
	if errors.As(err, &aggregate) {
		return fmt.Errorf("%w: %w", ErrInvalidEnvConfigs, errors.Join(aggregate.Errors...))
	}

	return fmt.Errorf("%w: %w", ErrInvalidEnvConfigs, err)
}
