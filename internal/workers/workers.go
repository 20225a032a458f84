package workers

import (
	"context"

	"github.com/MKhiriev/go-accounts/internal/config"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Workers runs a set of workers together.
type Workers struct {
	workers []Worker
}

// NewWorkers builds the workers enabled by cfg. The login-events consumer is
// only created when a broker URL is configured.
func NewWorkers(cfg config.Broker, dispatcher CommandDispatcher, m *metrics.Metrics, logger *logger.Logger) *Workers {
	w := &Workers{}
	if cfg.URL != "" {
		w.workers = append(w.workers, NewLoginEventsConsumer(cfg, dispatcher, DialAMQP, m, logger))
	}

	return w
}

// Len returns the number of workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker and blocks until all of them return. The first
// error cancels the others.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}

	return g.Wait()
}
