// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across the adapters.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// RetryBaseDelay is the base duration for exponential backoff between
// attempts. Tests override this to avoid real sleeps.
var RetryBaseDelay = 1 * time.Second

// RetryMaxDelay caps the backoff between attempts.
var RetryMaxDelay = 5 * time.Second

const defaultMaxAttempts = 2

// DoWithRetry executes an HTTP request and retries on transport errors and
// non-2xx responses with exponential backoff. The delay starts at
// RetryBaseDelay, doubles each attempt, and is capped at RetryMaxDelay.
//
// When maxAttempts is 0 the default (2 total attempts) is used. Before a
// retry the failed response body, if any, is drained and closed. If the
// context is cancelled during a backoff wait the function returns ctx.Err().
// After the last attempt the final response or transport error is returned
// as-is so the caller can apply its own failure default.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxAttempts int) (*http.Response, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var resp *http.Response
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * RetryBaseDelay
			if backoff > RetryMaxDelay {
				backoff = RetryMaxDelay
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err = client.Do(req.Clone(ctx))
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		// Last attempt keeps its outcome for the caller to inspect.
		if attempt == maxAttempts-1 {
			break
		}
		if resp != nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}
	return resp, err
}
