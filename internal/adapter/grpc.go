package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-accounts/internal/config"
	myGRPC "github.com/MKhiriev/go-accounts/internal/handler/grpc"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type grpcServerAdapter struct {
	conn    *grpc.ClientConn
	client  myGRPC.CommandServiceClient
	timeout time.Duration

	logger *logger.Logger
}

// NewGRPCServerAdapter constructs a gRPC implementation of [ServerAdapter]
// over an insecure connection to cfg.GRPCAddress. Extra dial options are
// appended after the defaults.
func NewGRPCServerAdapter(cfg config.Adapter, logger *logger.Logger, opts ...grpc.DialOption) (ServerAdapter, error) {
	address := strings.TrimSpace(cfg.GRPCAddress)
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	return &grpcServerAdapter{
		conn:    conn,
		client:  myGRPC.NewCommandServiceClient(conn),
		timeout: cfg.RequestTimeout,
		logger:  logger,
	}, nil
}

// Send implements [ServerAdapter].
func (g *grpcServerAdapter) Send(ctx context.Context, cmd models.Command) (models.Reply, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	reply, err := g.client.Dispatch(ctx, &cmd)
	if err != nil {
		return models.Reply{}, mapGRPCError(err)
	}

	return *reply, nil
}

// Close implements [ServerAdapter].
func (g *grpcServerAdapter) Close() error {
	return g.conn.Close()
}
