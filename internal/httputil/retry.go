// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for converter backends that talk to
// remote services.
package httputil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the default first backoff. Tests override this to avoid
// real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 5

// Retrier sends requests and retries while the server answers 429 Too Many
// Requests or 503 Service Unavailable.
type Retrier struct {
	Client *http.Client

	// MaxRetries is the retry budget; zero uses 5.
	MaxRetries int

	// BaseDelay doubles on every attempt; zero uses RetryBaseDelay.
	BaseDelay time.Duration

	// Logger receives a debug line per retry; nil discards.
	Logger *slog.Logger
}

// Do executes req. A Retry-After header given in seconds replaces the computed
// backoff. Request bodies are rebuilt through req.GetBody, so requests created
// from bytes.Reader or strings.Reader can be resent. After the budget is spent
// the last throttled response is returned for the caller to inspect. A
// cancelled ctx during backoff returns ctx.Err().
func (r *Retrier) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	base := r.BaseDelay
	if base <= 0 {
		base = RetryBaseDelay
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * base
		if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			backoff = d
		}
		if r.Logger != nil {
			r.Logger.Debug("retrying request",
				"url", req.URL.String(),
				"status", resp.StatusCode,
				"backoff", backoff,
				"attempt", attempt+1,
				"max_retries", maxRetries,
			)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// retryAfter parses a Retry-After header holding whole seconds.
func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
