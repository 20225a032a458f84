package grpc

import (
	"context"

	"github.com/MKhiriev/go-accounts/models"
	"google.golang.org/grpc"
)

const (
	// ServiceName is the fully qualified name of the command service.
	ServiceName = "accounts.v1.CommandService"

	// DispatchFullMethod is the full method name of the unary Dispatch call.
	DispatchFullMethod = "/" + ServiceName + "/Dispatch"
)

// CommandServiceServer is the server API of the command service.
type CommandServiceServer interface {
	Dispatch(ctx context.Context, cmd *models.Command) (*models.Reply, error)
}

// CommandServiceDesc describes the command service. Messages are exchanged
// with the JSON codec; there is no protobuf schema.
var CommandServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CommandServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Dispatch",
			Handler:    dispatchHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.Command)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CommandServiceServer).Dispatch(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DispatchFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CommandServiceServer).Dispatch(ctx, req.(*models.Command))
	}

	return interceptor(ctx, in, info, handler)
}

// CommandServiceClient is the client API of the command service.
type CommandServiceClient interface {
	Dispatch(ctx context.Context, cmd *models.Command, opts ...grpc.CallOption) (*models.Reply, error)
}

type commandServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCommandServiceClient returns a client that sends commands over cc using
// the JSON codec.
func NewCommandServiceClient(cc grpc.ClientConnInterface) CommandServiceClient {
	return &commandServiceClient{cc: cc}
}

func (c *commandServiceClient) Dispatch(ctx context.Context, cmd *models.Command, opts ...grpc.CallOption) (*models.Reply, error) {
	out := new(models.Reply)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)

	if err := c.cc.Invoke(ctx, DispatchFullMethod, cmd, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
