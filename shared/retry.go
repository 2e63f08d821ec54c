package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"time"
)

const (
	initialBackoffDelay = 100 * time.Millisecond
	maxBackoffDelay     = 10 * time.Second
)

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	JitterPercent     float64
	// Retryable overrides IsRetryableError when set
	Retryable func(error) bool
}

// DefaultRetryConfig returns the defaults used for bridge API calls
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       3,
		InitialDelay:      initialBackoffDelay,
		MaxDelay:          maxBackoffDelay,
		BackoffMultiplier: 2.0,
		JitterPercent:     10.0,
	}
}

// Backoff returns the delay before retry number attempt (1-based).
func (c *RetryConfig) Backoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.InitialDelay
	}

	mult := c.BackoffMultiplier
	if mult < 1 {
		mult = 1
	}
	delay := time.Duration(float64(c.InitialDelay) * math.Pow(mult, float64(attempt-1)))
	if delay > c.MaxDelay || delay < 0 {
		delay = c.MaxDelay
	}

	return delay + cryptoJitter(float64(delay)*c.JitterPercent/100)
}

// cryptoJitter returns a random duration in [0, maxJitter)
func cryptoJitter(maxJitter float64) time.Duration {
	if maxJitter <= 0 {
		return 0
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}

	ratio := float64(binary.LittleEndian.Uint64(buf[:])) / float64(^uint64(0))
	return time.Duration(ratio * maxJitter)
}

// nonRetryable marks an error that must not be retried regardless of its message.
type nonRetryable struct{ err error }

func (e nonRetryable) Error() string { return e.err.Error() }
func (e nonRetryable) Unwrap() error { return e.err }

// Permanent wraps err so RetryWithBackoff returns it immediately, unwrapped,
// whatever the configured classifier says.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return nonRetryable{err}
}

// isNonRetryableError determines if an error should not be retried
func isNonRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var p nonRetryable
	if errors.As(err, &p) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	nonRetryablePatterns := []string{
		"invalid input",
		"invalid argument",
		"invalid parameter",
		"validation error",
		"bad request",
		"not found",
		"authentication failed",
		"permission denied",
		"malformed",
	}

	for _, pattern := range nonRetryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// IsRetryableError determines if an error is worth retrying
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if isNonRetryableError(err) {
		return false
	}

	errStr := strings.ToLower(err.Error())

	retryablePatterns := []string{
		"connection",
		"timeout",
		"temporary",
		"network",
		"unavailable",
		"rate limit",
		"too many requests",
		"internal server error",
		"bad gateway",
		"gateway timeout",
		"eof",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// RetryWithBackoff executes operation until it succeeds, returns a
// non-retryable error, runs out of attempts or ctx is done.
func RetryWithBackoff(ctx context.Context, config *RetryConfig, operation func(attempt int) error) error {
	if config == nil {
		config = DefaultRetryConfig()
	}
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	retryable := config.Retryable
	if retryable == nil {
		retryable = IsRetryableError
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		err := operation(attempt)
		if err == nil {
			return nil
		}

		lastErr = err

		var p nonRetryable
		if errors.As(err, &p) {
			return p.err
		}
		if !retryable(err) {
			return err
		}

		if attempt == attempts {
			break
		}

		timer := time.NewTimer(config.Backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}

	return lastErr
}
