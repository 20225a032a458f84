package config

import (
	"encoding/json"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_EmptyBuilderAppliesDefaults verifies that a builder with no
// sources yields a config holding only the defaults.
func TestBuild_EmptyBuilderAppliesDefaults(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)

	assert.Equal(t, DefaultTokenDuration, cfg.App.TokenDuration)
	assert.Equal(t, DefaultTimezone, cfg.App.Timezone)
	assert.Equal(t, DefaultWeekStart, cfg.App.WeekStart)
	assert.Equal(t, int64(DefaultMaxPerPage), cfg.App.MaxPerPage)
	assert.Equal(t, DefaultDBName, cfg.Storage.DB.Name)
	assert.Equal(t, DefaultLoginEventsQueue, cfg.Broker.LoginEventsQueue)
	assert.Equal(t, "http://"+DefaultHTTPAddress, cfg.Adapter.HTTPAddress)
	assert.Equal(t, DefaultGRPCAddress, cfg.Adapter.GRPCAddress)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterSourceOverrides verifies that a non-zero field of a later
// source replaces the value of an earlier one, while zero fields do not.
func TestBuild_LaterSourceOverrides(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{App: App{Version: "1.0.0", TokenIssuer: "env-issuer"}},
		&StructuredConfig{App: App{TokenIssuer: "json-issuer"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", cfg.App.Version)
	assert.Equal(t, "json-issuer", cfg.App.TokenIssuer)
}

// ── Load ──────────────────────────────────────────────────────────────────────

func TestLoad_EnvFlagsJSONPriority(t *testing.T) {
	t.Setenv("APP_TOKEN_SIGN_KEY", "env-key")
	t.Setenv("APP_TOKEN_ISSUER", "env-issuer")
	t.Setenv("STORAGE_DB_DATABASE_URI", "memory://")

	path := writeTempJSONConfig(t, map[string]any{
		"app": map[string]any{"token_issuer": "json-issuer", "token_duration": "2h"},
	})

	cfg, err := Load(newFlagSet(), []string{"-token-sign-key", "flag-key", "-c", path})
	require.NoError(t, err)

	assert.Equal(t, "flag-key", cfg.App.TokenSignKey)
	assert.Equal(t, "json-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "memory://", cfg.Storage.DB.DSN)
	assert.NoError(t, cfg.validate())
}

func TestLoad_MissingJSONFile(t *testing.T) {
	_, err := Load(newFlagSet(), []string{"-c", "/does/not/exist.json"})
	assert.Error(t, err)
}

func TestLoad_BadFlag(t *testing.T) {
	fs := newFlagSet()
	fs.SetOutput(nopWriter{})

	_, err := Load(fs, []string{"-unknown"})
	assert.Error(t, err)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// ── validate ──────────────────────────────────────────────────────────────────

func validConfig() *StructuredConfig {
	cfg := &StructuredConfig{
		App:     App{TokenSignKey: "secret"},
		Storage: Storage{DB: DB{DSN: "memory://"}},
	}
	cfg.setDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*StructuredConfig) {}},
		{name: "missing sign key", mutate: func(c *StructuredConfig) { c.App.TokenSignKey = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "unknown timezone", mutate: func(c *StructuredConfig) { c.App.Timezone = "Mars/Olympus" }, wantErr: ErrInvalidAppConfigs},
		{name: "unknown week start", mutate: func(c *StructuredConfig) { c.App.WeekStart = "someday" }, wantErr: ErrInvalidAppConfigs},
		{name: "negative per page", mutate: func(c *StructuredConfig) { c.App.MaxPerPage = -1 }, wantErr: ErrInvalidAppConfigs},
		{name: "missing dsn", mutate: func(c *StructuredConfig) { c.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{name: "broker without prefetch", mutate: func(c *StructuredConfig) {
			c.Broker.URL = "amqp://localhost"
			c.Broker.Prefetch = -1
		}, wantErr: ErrInvalidBrokerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateClient(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.ValidateClient())

	cfg.Adapter.HTTPAddress = ""
	cfg.Adapter.GRPCAddress = ""
	assert.ErrorIs(t, cfg.ValidateClient(), ErrInvalidAdapterConfigs)
}

func TestApp_WeekStartDay(t *testing.T) {
	day, err := App{WeekStart: " Sunday "}.WeekStartDay()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, day)

	_, err = App{WeekStart: "funday"}.WeekStartDay()
	assert.Error(t, err)
}

func TestApp_Location(t *testing.T) {
	loc, err := App{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
