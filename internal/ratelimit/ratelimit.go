// Package ratelimit throttles repeated attempts per client key inside a fixed
// window. Counters live in a Store so several server instances can share them.
package ratelimit

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/heartmarshall/phoneshop-backend/internal/domain"
)

// State is the counter for one key: attempts seen in the window starting at WindowStart.
type State struct {
	Count       int
	WindowStart time.Time
}

// Store keeps attempt counters.
type Store interface {
	// Hit records one attempt for key and returns the state after it.
	// A window older than window is replaced by a fresh one starting at now.
	Hit(ctx context.Context, key string, window time.Duration, now time.Time) (State, error)
	Reset(ctx context.Context, key string) error
}

// ExceededError is returned by Allow when the key is over its budget.
type ExceededError struct {
	RetryAfter time.Duration
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *ExceededError) Unwrap() error { return domain.ErrRateLimited }

// Limiter allows at most maxAttempts per key inside window.
type Limiter struct {
	store       Store
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

// New creates a Limiter backed by store.
func New(store Store, maxAttempts int, window time.Duration) *Limiter {
	return &Limiter{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// Allow records an attempt for key. It returns *ExceededError once the key
// has used up its attempts for the current window.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	now := l.now()
	st, err := l.store.Hit(ctx, key, l.window, now)
	if err != nil {
		return fmt.Errorf("ratelimit: hit %s: %w", key, err)
	}
	if st.Count <= l.maxAttempts {
		return nil
	}

	retry := st.WindowStart.Add(l.window).Sub(now)
	if retry < time.Second {
		retry = time.Second
	}
	return &ExceededError{RetryAfter: retry}
}

// Reset clears the counter for key, e.g. after a successful login.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.store.Reset(ctx, key); err != nil {
		return fmt.Errorf("ratelimit: reset %s: %w", key, err)
	}
	return nil
}

// Key builds the client identity for login throttling from the remote
// address and the (case-insensitive) username.
func Key(remoteAddr, username string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	return "login:" + host + ":" + strings.ToLower(strings.TrimSpace(username))
}
