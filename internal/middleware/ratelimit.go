// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter caps requests to one route family within a sliding window.
// Signed-in callers are counted by user id, anonymous traffic by IP.
type RateLimiter struct {
	scope  string
	limit  int
	window time.Duration
	now    func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time

	stop chan struct{}
}

// NewRateLimiter allows limit requests per window for each key. scope
// names the guarded routes in logs ("login", "webhook", "uploads").
func NewRateLimiter(scope string, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		scope:  scope,
		limit:  limit,
		window: window,
		now:    time.Now,
		hits:   make(map[string][]time.Time),
		stop:   make(chan struct{}),
	}
	go rl.sweepLoop(5 * time.Minute)
	return rl
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

func (rl *RateLimiter) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// allow records a hit for key and reports whether it fits the window. On
// rejection it also returns how long until the oldest hit expires.
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	now := rl.now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := live(rl.hits[key], cutoff)
	if len(recent) >= rl.limit {
		rl.hits[key] = recent
		if len(recent) == 0 {
			return false, rl.window
		}
		return false, recent[0].Sub(cutoff)
	}
	rl.hits[key] = append(recent, now)
	return true, 0
}

// sweep drops keys whose hits have all expired.
func (rl *RateLimiter) sweep() {
	cutoff := rl.now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, ts := range rl.hits {
		if recent := live(ts, cutoff); len(recent) > 0 {
			rl.hits[key] = recent
		} else {
			delete(rl.hits, key)
		}
	}
}

// live filters ts in place down to hits after cutoff. Hits are appended
// in order, so the first live one ends the scan.
func live(ts []time.Time, cutoff time.Time) []time.Time {
	for i, t := range ts {
		if t.After(cutoff) {
			return ts[i:]
		}
	}
	return ts[:0]
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := limitKey(r)
		ok, wait := rl.allow(key)
		if !ok {
			retry := max(1, int(math.Ceil(wait.Seconds())))
			slog.Warn("rate limited", "scope", rl.scope, "key", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			http.Error(w, "Too many attempts. Try again in "+strconv.Itoa(retry)+"s.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// limitKey counts a signed-in caller by user id and anyone else by the
// address chi's RealIP middleware left in RemoteAddr.
func limitKey(r *http.Request) string {
	if c := CallerFromCtx(r.Context()); c != nil {
		return "user:" + c.UserID
	}
	return "ip:" + clientIP(r)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
