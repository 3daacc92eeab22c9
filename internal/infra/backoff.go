package infra

import (
	"time"
)

const (
	// Retry delays for transient API failures. The poll interval is 60s,
	// so in-request retries must finish well inside one cycle.
	baseDelay = 500 * time.Millisecond
	maxDelay  = 8 * time.Second
)

// CalculateBackoff returns the exponential backoff duration for a given
// retry count: baseDelay * 2^retryCount, capped at maxDelay.
func CalculateBackoff(retryCount int) time.Duration {
	if retryCount < 0 {
		return baseDelay
	}

	// 2^30 * 500ms already exceeds any sane cap.
	if retryCount > 30 {
		return maxDelay
	}

	backoff := baseDelay * time.Duration(1<<retryCount)
	if backoff > maxDelay {
		return maxDelay
	}

	return backoff
}
