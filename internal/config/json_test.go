package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	p := filepath.Join(t.TempDir(), "config.json")
	jsonBody := `{
		"app": {
			"token_sign_key": "jwt_secret",
			"token_issuer": "test_issuer",
			"token_duration": "1h",
			"timezone": "UTC",
			"week_start": "monday",
			"max_per_page": 25,
			"hash_key": "security_hash",
			"version": "0.1.0",
			"log_level": "debug"
		},
		"storage": { "db": { "dsn": "mongodb://localhost:27017", "name": "accounts" } },
		"server": {
			"http_address": "localhost:8080",
			"grpc_address": "localhost:9090",
			"request_timeout": "30s"
		},
		"broker": {
			"url": "amqp://localhost",
			"login_events_queue": "logins",
			"prefetch": 8,
			"reconnect_interval": "1s"
		},
		"adapter": {
			"http_address": "http://localhost:8080",
			"grpc_address": "localhost:9090",
			"request_timeout": 2000000000
		}
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "jwt_secret", cfg.App.TokenSignKey)
	assert.Equal(t, "test_issuer", cfg.App.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, int64(25), cfg.App.MaxPerPage)
	assert.Equal(t, "security_hash", cfg.App.HashKey)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Storage.DB.DSN)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 8, cfg.Broker.Prefetch)
	assert.Equal(t, time.Second, cfg.Broker.ReconnectInterval)
	assert.Equal(t, 2*time.Second, cfg.Adapter.RequestTimeout)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(malformed, []byte(`{"app":`), 0o600))

	badDuration := filepath.Join(dir, "duration.json")
	require.NoError(t, os.WriteFile(badDuration, []byte(`{"app":{"token_duration":"soon"}}`), 0o600))

	for _, p := range []string{filepath.Join(dir, "missing.json"), malformed, badDuration} {
		_, err := parseJSON(p)
		assert.Error(t, err, p)
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := Duration(90 * time.Second).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
