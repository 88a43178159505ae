package middleware_test

import (
	"hotel/config"
	"hotel/infras/jwt"
	jwtMocks "hotel/infras/jwt/mocks"
	"hotel/infras/otel/mocks"
	"hotel/permissions"
	"hotel/shared/constant"
	"hotel/transport/http/middleware"
	"hotel/transport/http/response"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testPermissions = `{
  "endpoints": [
    { "path": "/v1/auth/login", "method": "POST", "skip": true },
    { "path": "/v1/rooms/", "method": "GET", "permissions": ["admin", "receptionist"] },
    { "path": "/v1/rooms/{id}", "method": "DELETE", "permissions": ["admin"] }
  ]
}`

const apiKey = "internal-key"

func newServer(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	perms, err := permissions.Parse([]byte(testPermissions))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	authRole := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), perms, cfg)

	whoAmI := func(w http.ResponseWriter, r *http.Request) {
		id, _ := middleware.StaffID(r.Context())
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)

		response.WithJSON(w, http.StatusOK, map[string]any{"staff_id": id, "role": role})
	}

	mux := chi.NewRouter()
	mux.Use(authRole.APIKey, authRole.Auth, authRole.RBAC)
	mux.Route("/v1", func(r chi.Router) {
		r.Post("/auth/login", whoAmI)
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", whoAmI)
			r.Delete("/{id}", whoAmI)
		})
	})

	return mux
}

func TestAuthRole(t *testing.T) {
	receptionist := &jwt.Claims{StaffID: "4", Email: "desk@hotel.test", Role: constant.RoleReceptionist}
	admin := &jwt.Claims{StaffID: "1", Email: "admin@hotel.test", Role: constant.RoleAdmin}

	tests := []struct {
		name     string
		method   string
		path     string
		headers  map[string]string
		mock     func(m *jwtMocks.MockJWT)
		wantCode int
	}{
		{
			name:     "skipped route needs no token",
			method:   http.MethodPost,
			path:     "/v1/auth/login",
			wantCode: http.StatusOK,
		},
		{
			name:     "missing token",
			method:   http.MethodGet,
			path:     "/v1/rooms",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown route without token",
			method:   http.MethodGet,
			path:     "/v1/nowhere",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodGet,
			path:    "/v1/rooms",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer stale"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("stale", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:    "receptionist lists rooms",
			method:  http.MethodGet,
			path:    "/v1/rooms/",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer desk"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("desk", jwt.AccessToken).Return(receptionist, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:    "receptionist cannot delete rooms",
			method:  http.MethodDelete,
			path:    "/v1/rooms/101",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer desk"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("desk", jwt.AccessToken).Return(receptionist, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:    "admin deletes rooms",
			method:  http.MethodDelete,
			path:    "/v1/rooms/101",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer boss"},
			mock: func(m *jwtMocks.MockJWT) {
				m.EXPECT().ValidateToken("boss", jwt.AccessToken).Return(admin, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "valid api key bypasses tokens",
			method:   http.MethodDelete,
			path:     "/v1/rooms/101",
			headers:  map[string]string{constant.RequestHeaderAPIKey: apiKey},
			wantCode: http.StatusOK,
		},
		{
			name:     "wrong api key",
			method:   http.MethodGet,
			path:     "/v1/rooms",
			headers:  map[string]string{constant.RequestHeaderAPIKey: "guess"},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			jwtService := jwtMocks.NewMockJWT(ctrl)

			if tt.mock != nil {
				tt.mock(jwtService)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()
			newServer(t, jwtService).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestStaffID(t *testing.T) {
	claims := &jwt.Claims{StaffID: "12", Role: constant.RoleAdmin}

	ctrl := gomock.NewController(t)
	jwtService := jwtMocks.NewMockJWT(ctrl)
	jwtService.EXPECT().ValidateToken("token", jwt.AccessToken).Return(claims, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms/", nil)
	req.Header.Set(constant.RequestHeaderAuthorization, "Bearer token")

	rec := httptest.NewRecorder()
	newServer(t, jwtService).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"staff_id":12,"role":"admin"}}`, rec.Body.String())
}
