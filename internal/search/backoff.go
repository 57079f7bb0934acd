package search

import (
	"math"
	"math/rand"
	"strconv"
	"time"
)

// RetryError is returned when all retry attempts against the search
// endpoint are exhausted.
type RetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *RetryError) Error() string {
	msg := "failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *RetryError) Unwrap() error { return e.LastError }

// isRetryableStatus reports whether an HTTP status is worth retrying.
// Retryable: 429 and 5xx.
func isRetryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}

// calculateBackoff returns the exponential backoff delay for an attempt,
// capped at maxBackoff, with 0-25% jitter to avoid thundering herd.
func calculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	delay := math.Min(float64(initial)*math.Pow(2, float64(attempt)), float64(max))
	jitter := rand.Float64() * 0.25 * delay
	return time.Duration(delay + jitter)
}

// calculateRateLimitBackoff handles HTTP 429: the server-provided
// Retry-After wins when present, otherwise a steeper 3x curve applies.
func calculateRateLimitBackoff(attempt int, initial, max time.Duration, retryAfter string) time.Duration {
	if retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			jitter := time.Duration(rand.Int63n(int64(time.Second)))
			return time.Duration(seconds)*time.Second + jitter
		}
	}
	delay := math.Min(float64(initial)*math.Pow(3, float64(attempt)), float64(max))
	jitter := rand.Float64() * 0.25 * delay
	return time.Duration(delay + jitter)
}
