package grpc

import (
	"context"

	"github.com/MKhiriev/go-accounts/internal/handler/dispatch"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// Handler is the root gRPC transport handler.
//
// It implements CommandServiceServer on top of the shared dispatcher. Command
// failures travel inside the reply with an OK transport status; gRPC status
// codes are only used for malformed envelopes.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	health     *health.Server

	logger *logger.Logger
}

// NewHandler constructs a [Handler] over the dispatcher.
func NewHandler(dispatcher *dispatch.Dispatcher, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		dispatcher: dispatcher,
		health:     health.NewServer(),
		logger:     logger,
	}
}

// Dispatch executes one command.
func (h *Handler) Dispatch(ctx context.Context, cmd *models.Command) (*models.Reply, error) {
	if cmd == nil || cmd.Cmd == "" || cmd.Method == "" {
		return nil, status.Error(codes.InvalidArgument, "cmd and method are required")
	}

	reply := h.dispatcher.Dispatch(ctx, *cmd)
	return &reply, nil
}

// Register adds the command service and the standard health service to s.
func (h *Handler) Register(s *grpc.Server) {
	s.RegisterService(&CommandServiceDesc, h)
	healthpb.RegisterHealthServer(s, h.health)

	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
}

// Shutdown marks every service as not serving.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

// ServerOptions returns the interceptor chain of the command server.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			h.recoverUnary,
			h.loggingUnary,
		),
	}
}
