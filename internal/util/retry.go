// ABOUTME: Retry utilities for API calls with exponential backoff
// ABOUTME: Used by the LLM client for embeddings, generation, and reranking
package util

import (
	"math/rand/v2"
	"time"
)

// Backoff returns exponential backoff with jitter.
// Base delay is doubled each attempt, with random jitter up to 25%.
func Backoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in bit shift
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	// Cap at 30 seconds
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	// Jitter: -25% to +25%
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}

// Retry runs fn up to maxRetries+1 times, sleeping with exponential
// backoff between attempts. Returns nil on the first success, otherwise
// the error from the last attempt.
func Retry(maxRetries int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(Backoff(baseDelay, attempt))
		}
		if lastErr = fn(); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
