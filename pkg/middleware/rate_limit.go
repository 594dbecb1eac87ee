package middleware

import (
	"net/http"
	"sync"
	"time"

	"mediq/pkg/logger"
)

type ActorExtractor func(r *http.Request) string

// ActorRateLimiter throttles per authenticated actor within a sliding
// window. Anonymous requests pass through untouched.
type ActorRateLimiter struct {
	mu             sync.RWMutex
	requests       map[string][]time.Time
	limit          int
	window         time.Duration
	actorExtractor ActorExtractor
	log            *logger.Logger
	stopCh         chan struct{}
}

func NewActorRateLimiter(limit int, window time.Duration, extractor ActorExtractor, log *logger.Logger) *ActorRateLimiter {
	limiter := &ActorRateLimiter{
		requests:       make(map[string][]time.Time),
		limit:          limit,
		window:         window,
		actorExtractor: extractor,
		log:            log,
		stopCh:         make(chan struct{}),
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

	valid := make([]time.Time, 0, len(rl.requests[actor]))
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
			actor := extractActor(r, limiter.actorExtractor)

			if actor == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(actor) {
				rejectRateLimited(w, limiter.log, r, actor)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractActor(r *http.Request, extractor ActorExtractor) string {
	if extractor == nil {
		return r.Header.Get(HeaderActorID)
	}
	return extractor(r)
}

func rejectRateLimited(w http.ResponseWriter, log *logger.Logger, r *http.Request, actor string) {
	log.Warn("Rate limit exceeded",
		"request_id", requestIDFrom(r),
		"actor", actor,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte(`{"error":"Rate limit exceeded"}`))
}

func DefaultActorExtractor(r *http.Request) string {
	return r.Header.Get(HeaderActorID)
}
