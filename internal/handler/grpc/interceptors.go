package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/MKhiriev/go-accounts/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// traceIDKey is the metadata key of the caller supplied trace identifier.
const traceIDKey = "x-trace-id"

// loggingUnary attaches a request-scoped logger carrying trace_id to the
// context and writes one entry per call.
func (h *Handler) loggingUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
	start := time.Now()

	traceID := uuid.NewString()
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(traceIDKey); len(values) > 0 && utils.IsValidTraceID(values[0]) {
			traceID = values[0]
		}
	}

	l := h.logger.GetChildLogger()
	l.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("trace_id", traceID)
	})
	ctx = l.WithContext(utils.WithTraceID(ctx, traceID))
	_ = grpc.SetHeader(ctx, metadata.Pairs(traceIDKey, traceID))

	resp, err := next(ctx, req)

	var remote string
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		remote = p.Addr.String()
	}

	l.Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Str("peer", remote).
		Send()

	return resp, err
}

// recoverUnary converts a panic into codes.Internal.
func (h *Handler) recoverUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error().
				Interface("reason", r).
				Bytes("stack", debug.Stack()).
				Str("method", info.FullMethod).
				Msg("panic")
			err = status.Error(codes.Internal, "internal")
		}
	}()

	return next(ctx, req)
}
