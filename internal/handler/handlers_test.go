package handler

import (
	"testing"

	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/metrics"
	"github.com/MKhiriev/go-accounts/internal/service"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlers(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Server
		wantHTTP bool
		wantGRPC bool
		wantErr  error
	}{
		{name: "http and grpc", cfg: config.Server{HTTPAddress: ":8080", GRPCAddress: ":9090"}, wantHTTP: true, wantGRPC: true},
		{name: "http only", cfg: config.Server{HTTPAddress: ":8080"}, wantHTTP: true},
		{name: "grpc only", cfg: config.Server{GRPCAddress: ":9090"}, wantGRPC: true},
		{name: "no transport", cfg: config.Server{}, wantErr: errNoHandlersAreCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandlers(&service.Services{}, metrics.New(), tt.cfg, "", logger.Nop())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, h)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, h.Dispatcher)
			assert.Equal(t, tt.wantHTTP, h.HTTP != nil)
			assert.Equal(t, tt.wantGRPC, h.GRPC != nil)
		})
	}
}

// The login-events consumer relies on the dispatcher even when metrics are
// disabled.
func TestNewHandlers_DispatcherRoutesConsumerCommand(t *testing.T) {
	h, err := NewHandlers(&service.Services{}, nil, config.Server{GRPCAddress: ":9090"}, "", logger.Nop())

	require.NoError(t, err)
	assert.True(t, h.Dispatcher.Has(models.CmdAmountLogin, models.MethodUpdateAmountLogin))
	assert.True(t, h.Dispatcher.Has(models.CmdUsers, models.MethodLogin))
	assert.False(t, h.Dispatcher.Has(models.CmdUsers, "drop-everything"))
}
