package grpc

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/MKhiriev/go-accounts/internal/clock"
	"github.com/MKhiriev/go-accounts/internal/handler/dispatch"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/mock"
	"github.com/MKhiriev/go-accounts/internal/service"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type serviceMocks struct {
	users *mock.MockUserService
	auth  *mock.MockAuthService
}

func startServer(t *testing.T) (*grpc.ClientConn, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := serviceMocks{
		users: mock.NewMockUserService(ctrl),
		auth:  mock.NewMockAuthService(ctrl),
	}
	services := &service.Services{
		UserService:       m.users,
		AuthService:       m.auth,
		LoginCountService: mock.NewMockLoginCountService(ctrl),
		Calendar:          clock.NewCalendar(clock.System, time.UTC, time.Monday),
	}

	h := NewHandler(dispatch.NewDispatcher(services, nil, logger.Nop()), logger.Nop())
	s := grpc.NewServer(h.ServerOptions()...)
	h.Register(s)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, m
}

func TestDispatch_OverBufconn(t *testing.T) {
	conn, m := startServer(t)
	client := NewCommandServiceClient(conn)

	m.auth.EXPECT().GetByUsername(gomock.Any(), "alice").Return(&models.User{UserID: "u1", Username: "alice"}, nil)

	var header metadata.MD
	ctx := metadata.AppendToOutgoingContext(context.Background(), traceIDKey, "trace-42")
	reply, err := client.Dispatch(ctx, &models.Command{
		Cmd:    models.CmdUsers,
		Method: models.MethodGetByUsername,
		Data:   json.RawMessage(`"alice"`),
	}, grpc.Header(&header))

	require.NoError(t, err)
	require.Nil(t, reply.Error)
	assert.JSONEq(t, `{"userId":"u1","username":"alice"}`, string(reply.Data))
	assert.Equal(t, []string{"trace-42"}, header.Get(traceIDKey))
}

func TestDispatch_FailureIsInBand(t *testing.T) {
	conn, m := startServer(t)
	client := NewCommandServiceClient(conn)

	m.users.EXPECT().BanUser(gomock.Any(), "u9").Return(service.ErrUserNotFound)

	reply, err := client.Dispatch(context.Background(), &models.Command{
		Cmd:    models.CmdUsers,
		Method: models.MethodBanUser,
		Data:   json.RawMessage(`"u9"`),
	})

	require.NoError(t, err)
	require.NotNil(t, reply.Error)
	assert.Equal(t, models.CodeNotFound, reply.Error.Code)
	assert.JSONEq(t, "null", string(reply.Data))
}

func TestDispatch_MalformedEnvelope(t *testing.T) {
	conn, _ := startServer(t)
	client := NewCommandServiceClient(conn)

	_, err := client.Dispatch(context.Background(), &models.Command{Cmd: models.CmdUsers})

	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestHealth(t *testing.T) {
	conn, _ := startServer(t)
	client := healthpb.NewHealthClient(conn)

	for _, svc := range []string{"", ServiceName} {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: svc})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	}
}

func TestRecoverUnary(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	_, err := h.recoverUnary(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: DispatchFullMethod},
		func(context.Context, any) (any, error) { panic("boom") })

	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{}
	assert.Equal(t, "json", codec.Name())

	data, err := codec.Marshal(&models.Command{Cmd: "users", Method: "login", Data: json.RawMessage(`{"email":"a@x.com"}`)})
	require.NoError(t, err)

	var got models.Command
	require.NoError(t, codec.Unmarshal(data, &got))
	assert.Equal(t, "login", got.Method)
	assert.JSONEq(t, `{"email":"a@x.com"}`, string(got.Data))
}
