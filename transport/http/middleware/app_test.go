package middleware

import (
	"errors"
	"hotel/config"
	"hotel/infras/otel/mocks"
	"hotel/shared/cache"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/time/rate"
)

var noContent = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func newApp(t *testing.T, cfg *config.Config) (*appMiddleware, *cacheMocks.MockRedisCache) {
	t.Helper()

	redisCache := cacheMocks.NewMockRedisCache(gomock.NewController(t))

	return NewAppMiddleware(mocks.NewOtel(), cfg, redisCache).(*appMiddleware), redisCache
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for first hop", map[string]string{constant.RequestHeaderForwardedFor: "203.0.113.9, 10.0.0.1"}, "10.0.0.2:5555", "203.0.113.9"},
		{"real ip", map[string]string{constant.RequestHeaderRealIP: " 198.51.100.4 "}, "10.0.0.2:5555", "198.51.100.4"},
		{"peer address", nil, "192.0.2.10:40000", "192.0.2.10"},
		{"peer without port", nil, "192.0.2.10", "192.0.2.10"},
	}

	app, _ := newApp(t, &config.Config{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.RemoteAddr = tt.remote

			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			assert.Equal(t, tt.want, app.getClientIP(req))
		})
	}
}

func TestRequestID(t *testing.T) {
	app, _ := newApp(t, &config.Config{})

	var seen string

	handler := app.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(constant.ContextKeyRequestID).(string)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set(constant.RequestHeaderRequestID, "desk-42")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "desk-42", seen)
	assert.Equal(t, "desk-42", rec.Header().Get(constant.RequestHeaderRequestID))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))

	assert.NotEmpty(t, rec.Header().Get(constant.RequestHeaderRequestID))
	assert.Equal(t, rec.Header().Get(constant.RequestHeaderRequestID), seen)
}

func TestRecover(t *testing.T) {
	app, _ := newApp(t, &config.Config{})

	handler := app.Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("night audit exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/occupancy/current", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "night audit")
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 3
	cfg.App.RateLimiter.WindowSeconds = 60

	const key = "limiter:192.0.2.10:desk-app"

	tests := []struct {
		name      string
		mock      func(m *cacheMocks.MockRedisCache)
		wantCode  int
		remaining string
	}{
		{
			name: "first request",
			mock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(cache.ErrMiss)
				m.EXPECT().Save(gomock.Any(), key, 1, 60).Return(nil)
			},
			wantCode:  http.StatusNoContent,
			remaining: "2",
		},
		{
			name: "over the limit",
			mock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Get(gomock.Any(), key, gomock.Any()).DoAndReturn(func(_ any, _ string, value any) error {
					*(value.(*int)) = 3

					return nil
				})
			},
			wantCode: http.StatusTooManyRequests,
		},
		{
			name: "cache down falls back to the local limiter",
			mock: func(m *cacheMocks.MockRedisCache) {
				m.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(errors.New("dial tcp: refused"))
			},
			wantCode: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, redisCache := newApp(t, cfg)
			tt.mock(redisCache)

			req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
			req.RemoteAddr = "192.0.2.10:40000"
			req.Header.Set(constant.RequestHeaderUserAgent, "desk-app")

			rec := httptest.NewRecorder()
			app.RateLimit()(noContent).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.remaining, rec.Header().Get(constant.RequestHeaderRateLimitRemaining))
		})
	}
}

func TestLocalLimiter(t *testing.T) {
	limiter := newLocalLimiter(2, 3600)

	assert.True(t, limiter.allow("desk"))
	assert.True(t, limiter.allow("desk"))
	assert.False(t, limiter.allow("desk"))
	assert.True(t, limiter.allow("lobby"))

	unlimited := newLocalLimiter(0, 0)
	for range 10 {
		assert.True(t, unlimited.allow("desk"))
	}
}

func TestLocalLimiter_Capacity(t *testing.T) {
	tests := []struct {
		name     string
		seed     func(l *localLimiter)
		wantKeys []string
	}{
		{
			name: "refilled buckets are dropped",
			seed: func(l *localLimiter) {
				l.limiters["idle"] = rate.NewLimiter(l.limit, l.burst)
				l.allow("busy")
			},
			wantKeys: []string{"busy", "walk-in"},
		},
		{
			name: "throttled clients reset the map",
			seed: func(l *localLimiter) {
				l.allow("desk")
				l.allow("lobby")
			},
			wantKeys: []string{"walk-in"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := newLocalLimiter(2, 3600)
			limiter.capacity = 2

			tt.seed(limiter)

			assert.True(t, limiter.allow("walk-in"))
			assert.ElementsMatch(t, tt.wantKeys, slices.Collect(maps.Keys(limiter.limiters)))
		})
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	app, _ := newApp(t, &config.Config{})

	rec := httptest.NewRecorder()
	app.RateLimit()(noContent).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
