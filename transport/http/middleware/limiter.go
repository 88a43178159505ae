package middleware

import (
	"errors"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	"hotel/transport/http/response"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownUserAgent  = "unknown"
)

// RateLimit counts requests per client IP and user agent in redis.
// While redis is unreachable each instance enforces the same budget in memory.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limiter := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		if !limiter.Enable {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, a.getClientIP(r), a.getUA(r))

			var count int

			err := a.cache.Get(r.Context(), cacheKey, &count)

			switch {
			case errors.Is(err, cache.ErrMiss):
				count = 1
			case err != nil:
				log.Warn().Err(err).Msg("rate limiter cache unavailable, using local limiter")

				if !a.fallback.allow(cacheKey) {
					response.WithRequestLimitExceeded(w)

					return
				}

				next.ServeHTTP(w, r)

				return
			default:
				count++
			}

			if count > limiter.MaxRequests {
				response.WithRequestLimitExceeded(w)

				return
			}

			if err := a.cache.Save(r.Context(), cacheKey, count, limiter.WindowSeconds); err != nil {
				log.Warn().Err(err).Msg("failed to store rate limit counter")
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limiter.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limiter.MaxRequests-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

			next.ServeHTTP(w, r)
		})
	}
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return unknownUserAgent
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer address.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}

// maxLocalLimiterKeys bounds the number of client buckets kept in memory.
const maxLocalLimiterKeys = 10000

// localLimiter keeps one token bucket per client key.
type localLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
	capacity int
}

func newLocalLimiter(maxRequests, windowSeconds int) *localLimiter {
	limit := rate.Inf
	if maxRequests > 0 && windowSeconds > 0 {
		limit = rate.Every(time.Duration(windowSeconds) * time.Second / time.Duration(maxRequests))
	}

	return &localLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    max(1, maxRequests),
		capacity: maxLocalLimiterKeys,
	}
}

func (l *localLimiter) allow(key string) bool {
	l.mu.Lock()

	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= l.capacity {
			l.evict()
		}

		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}

	l.mu.Unlock()

	return limiter.Allow()
}

// evict drops the buckets that have refilled, since a fresh bucket behaves the same.
// When every client is still throttled the map is reset. Callers hold mu.
func (l *localLimiter) evict() {
	now := time.Now()

	for key, limiter := range l.limiters {
		if limiter.TokensAt(now) >= float64(l.burst) {
			delete(l.limiters, key)
		}
	}

	if len(l.limiters) >= l.capacity {
		clear(l.limiters)
	}
}
