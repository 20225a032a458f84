// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func (cfg *StructuredConfig) setDefaults() {
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = DefaultTokenDuration
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = DefaultTimezone
	}
	if cfg.App.WeekStart == "" {
		cfg.App.WeekStart = DefaultWeekStart
	}
	if cfg.App.MaxPerPage == 0 {
		cfg.App.MaxPerPage = DefaultMaxPerPage
	}
	if cfg.Storage.DB.Name == "" {
		cfg.Storage.DB.Name = DefaultDBName
	}
	if cfg.Server.HTTPAddress == "" {
		cfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if cfg.Server.GRPCAddress == "" {
		cfg.Server.GRPCAddress = DefaultGRPCAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Broker.LoginEventsQueue == "" {
		cfg.Broker.LoginEventsQueue = DefaultLoginEventsQueue
	}
	if cfg.Broker.Prefetch == 0 {
		cfg.Broker.Prefetch = DefaultPrefetch
	}
	if cfg.Broker.ReconnectInterval == 0 {
		cfg.Broker.ReconnectInterval = DefaultReconnectInterval
	}
	if cfg.Adapter.HTTPAddress == "" {
		cfg.Adapter.HTTPAddress = "http://" + cfg.Server.HTTPAddress
	}
	if cfg.Adapter.GRPCAddress == "" {
		cfg.Adapter.GRPCAddress = cfg.Server.GRPCAddress
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = cfg.Server.RequestTimeout
	}
}

// validate checks the server invariants of the merged configuration.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.TokenSignKey == "" {
		return fmt.Errorf("%w: token sign key is required", ErrInvalidAppConfigs)
	}
	if cfg.App.TokenDuration < 0 {
		return fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs)
	}
	if cfg.App.MaxPerPage < 1 {
		return fmt.Errorf("%w: max per page must be positive", ErrInvalidAppConfigs)
	}
	if _, err := cfg.App.Location(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}
	if _, err := cfg.App.WeekStartDay(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, err)
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database uri is required", ErrInvalidStorageConfigs)
	}

	if cfg.Server.RequestTimeout < 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidServerConfigs)
	}

	if cfg.Broker.URL != "" && (cfg.Broker.Prefetch < 1 || cfg.Broker.LoginEventsQueue == "") {
		return ErrInvalidBrokerConfigs
	}

	return nil
}

// ValidateClient checks the settings the CLI client needs.
func (cfg *StructuredConfig) ValidateClient() error {
	if cfg.Adapter.HTTPAddress == "" && cfg.Adapter.GRPCAddress == "" {
		return ErrInvalidAdapterConfigs
	}
	if cfg.Adapter.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidAdapterConfigs)
	}

	return nil
}

// Location resolves Timezone.
func (a App) Location() (*time.Location, error) {
	return time.LoadLocation(a.Timezone)
}

// WeekStartDay resolves WeekStart (case-insensitive).
func (a App) WeekStartDay() (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(a.WeekStart))]
	if !ok {
		return 0, fmt.Errorf("unknown week start day %q", a.WeekStart)
	}

	return day, nil
}
