package middleware

import (
	"net/http"
	"sync"
	"time"

	"unimeet/pkg/logger"
)

// ActorExtractor resolves the rate-limiting key for a request. Booking and
// hold traffic is limited per acting user, not per IP.
type ActorExtractor func(r *http.Request) string

type ActorRateLimiter struct {
	mu        sync.RWMutex
	requests  map[string][]time.Time
	limit     int
	window    time.Duration
	extractor ActorExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewActorRateLimiter(limit int, window time.Duration, extractor ActorExtractor, log *logger.Logger) *ActorRateLimiter {
	limiter := &ActorRateLimiter{
		requests:  make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *ActorRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for actor, timestamps := range rl.requests {
				if len(timestamps) == 0 || time.Since(timestamps[len(timestamps)-1]) > rl.window {
					delete(rl.requests, actor)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *ActorRateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *ActorRateLimiter) Allow(actor string) bool {
	if actor == "" {
		return true
	}

	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := rl.requests[actor][:0:0]
	for _, ts := range rl.requests[actor] {
		if now.Sub(ts) < rl.window {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[actor] = valid
		return false
	}

	rl.requests[actor] = append(valid, now)
	return true
}

func ActorRateLimit(limiter *ActorRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := limiter.extractor(r)
			if actor == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(actor) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", requestIDFrom(r.Context()),
					"actor", actor,
					"path", r.URL.Path,
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func DefaultActorExtractor(r *http.Request) string {
	return r.Header.Get("X-Actor-ID")
}
