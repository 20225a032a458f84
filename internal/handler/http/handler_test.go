package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-accounts/internal/clock"
	"github.com/MKhiriev/go-accounts/internal/handler/dispatch"
	"github.com/MKhiriev/go-accounts/internal/logger"
	"github.com/MKhiriev/go-accounts/internal/metrics"
	"github.com/MKhiriev/go-accounts/internal/mock"
	"github.com/MKhiriev/go-accounts/internal/service"
	"github.com/MKhiriev/go-accounts/internal/utils"
	"github.com/MKhiriev/go-accounts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceMocks struct {
	users      *mock.MockUserService
	auth       *mock.MockAuthService
	loginCount *mock.MockLoginCountService
	appInfo    *mock.MockAppInfoService
}

const testHashKey = "integrity-key"

func newTestHandler(t *testing.T, hashKey string) (*Handler, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := serviceMocks{
		users:      mock.NewMockUserService(ctrl),
		auth:       mock.NewMockAuthService(ctrl),
		loginCount: mock.NewMockLoginCountService(ctrl),
		appInfo:    mock.NewMockAppInfoService(ctrl),
	}
	services := &service.Services{
		UserService:       m.users,
		AuthService:       m.auth,
		LoginCountService: m.loginCount,
		AppInfoService:    m.appInfo,
		Calendar:          clock.NewCalendar(clock.System, time.UTC, time.Monday),
	}
	reg := metrics.New()

	h := NewHandler(services, dispatch.NewDispatcher(services, reg, logger.Nop()), reg, hashKey, time.Second, logger.Nop())
	return h, m
}

func postCommand(h *Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

func TestNewHandler_HashKeyEnablesHasher(t *testing.T) {
	h, _ := newTestHandler(t, "")
	assert.Nil(t, h.hasher)

	h, _ = newTestHandler(t, testHashKey)
	assert.NotNil(t, h.hasher)
}

func TestHandleCommand_Success(t *testing.T) {
	h, m := newTestHandler(t, "")
	m.auth.EXPECT().Login(gomock.Any(), "a@x.com").Return(models.TokenPair{AccessToken: "acc", RefreshToken: "ref"}, nil)

	rec := postCommand(h, "/api/commands/users/login", `{"email":"a@x.com"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"accessToken":"acc","refreshToken":"ref"}}`, rec.Body.String())
}

func TestHandleCommand_StatusFromReplyCode(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		expect     func(m serviceMocks)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown command",
			path:       "/api/commands/users/explode",
			wantStatus: http.StatusNotFound,
			wantCode:   models.CodeUnknownCommand,
		},
		{
			name:       "bad payload",
			path:       "/api/commands/users/login",
			body:       `{"mail":"a@x.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeBadPayload,
		},
		{
			name: "not found",
			path: "/api/commands/users/ban-user",
			body: `"u9"`,
			expect: func(m serviceMocks) {
				m.users.EXPECT().BanUser(gomock.Any(), "u9").Return(service.ErrUserNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   models.CodeNotFound,
		},
		{
			name: "unauthorized",
			path: "/api/commands/users/login",
			body: `{"email":"ghost@x.com"}`,
			expect: func(m serviceMocks) {
				m.auth.EXPECT().Login(gomock.Any(), "ghost@x.com").Return(models.TokenPair{}, service.ErrUnknownIdentity)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.CodeUnauthorized,
		},
		{
			name: "internal",
			path: "/api/commands/amount-login/update-amount-login",
			body: `{"amountLogin":1}`,
			expect: func(m serviceMocks) {
				m.loginCount.EXPECT().RecordLogins(gomock.Any(), int64(1)).Return(service.ErrInternal)
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t, "")
			if tt.expect != nil {
				tt.expect(m)
			}

			rec := postCommand(h, tt.path, tt.body, nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.wantCode+`"`)
		})
	}
}

func TestHandleCommand_GzipRoundTrip(t *testing.T) {
	h, m := newTestHandler(t, "")
	m.auth.EXPECT().GetByEmail(gomock.Any(), "a@x.com").Return(&models.User{Email: "a@x.com"}, nil)

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, err := zw.Write([]byte(`"a@x.com"`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/commands/users/getByEmail", &compressed)
	req.Header.Set("Content-Encoding", "gzip")
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"email":"a@x.com"}}`, string(body))
}

func TestRoutes_Health(t *testing.T) {
	h, _ := newTestHandler(t, "")

	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoutes_Metrics(t *testing.T) {
	h, m := newTestHandler(t, "")
	m.users.EXPECT().UnBanUser(gomock.Any(), "u1").Return(nil)

	postCommand(h, "/api/commands/users/un-ban-user", `"u1"`, nil)

	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `accounts_commands_total{cmd="users",code="ok",method="un-ban-user"} 1`)
}

func TestRoutes_WrongMethodIsNotFound(t *testing.T) {
	h, _ := newTestHandler(t, "")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/commands/users/login"},
		{http.MethodPost, "/api/version"},
		{http.MethodDelete, "/api/health"},
		{http.MethodGet, "/api/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Init().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestHandleCommand_Hashing(t *testing.T) {
	body := `{"amountLogin":2}`
	path := "/api/commands/amount-login/update-amount-login"

	t.Run("valid hash", func(t *testing.T) {
		h, m := newTestHandler(t, testHashKey)
		m.loginCount.EXPECT().RecordLogins(gomock.Any(), int64(2)).Return(nil)

		rec := postCommand(h, path, body, map[string]string{hashHeader: utils.HashString(body, testHashKey)})

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong hash", func(t *testing.T) {
		h, _ := newTestHandler(t, testHashKey)

		rec := postCommand(h, path, body, map[string]string{hashHeader: utils.HashString(body, "other-key")})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing hash", func(t *testing.T) {
		h, _ := newTestHandler(t, testHashKey)

		rec := postCommand(h, path, body, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("disabled", func(t *testing.T) {
		h, m := newTestHandler(t, "")
		m.loginCount.EXPECT().RecordLogins(gomock.Any(), int64(2)).Return(nil)

		rec := postCommand(h, path, body, map[string]string{hashHeader: "garbage"})

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestStatusFromCode_Unknown(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFromCode("weird"))
}
