package http

import (
	"time"

	"github.com/MKhiriev/go-accounts/internal/handler/dispatch"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/metrics"
	"github.com/MKhiriev/go-accounts/internal/service"
	"github.com/MKhiriev/go-accounts/internal/utils"
)

// maxCommandBodySize bounds the size of a command payload.
const maxCommandBodySize = 1 << 20

type Handler struct {
	services   *service.Services
	dispatcher *dispatch.Dispatcher
	metrics    *metrics.Metrics

	// hasher is nil when integrity checking is disabled.
	hasher         *utils.Hasher
	requestTimeout time.Duration

	logger *logger.Logger
}

// NewHandler builds the HTTP handler. An empty hashKey disables the
// HashSHA256 check; a zero requestTimeout disables the per-request deadline.
func NewHandler(services *service.Services, dispatcher *dispatch.Dispatcher, m *metrics.Metrics, hashKey string, requestTimeout time.Duration, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")

	h := &Handler{
		services:       services,
		dispatcher:     dispatcher,
		metrics:        m,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
	if hashKey != "" {
		h.hasher = utils.NewHasher(hashKey)
	}

	return h
}
