package retry

import (
	"context"
	"fmt"
	"time"

	"igcrawler/pkg/logger"
)

// Operation is a function that performs an operation that might need retrying
type Operation func() error

// Class partitions errors into retry behaviors
type Class int

const (
	// ClassFatal errors are returned immediately
	ClassFatal Class = iota
	// ClassTransient errors consume the attempt budget with backoff
	ClassTransient
	// ClassRateLimit errors wait a fixed cooldown; whether they consume
	// the attempt budget is configurable
	ClassRateLimit
)

// Classifier determines the retry class of an error
type Classifier func(error) Class

// Policy holds retry configuration for one kind of operation
type Policy struct {
	// MaxAttempts is the transient-failure attempt budget
	MaxAttempts int
	// Backoff schedule for transient failures
	Backoff BackoffStrategy
	// RateLimitWait is the fixed cooldown after a rate-limited attempt
	RateLimitWait time.Duration
	// RateLimitCounts makes rate-limited attempts consume the budget
	RateLimitCounts bool
	// Classify partitions errors; nil treats every error as transient
	Classify Classifier
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultPolicy returns a retry policy with the standard page-request
// budget: 3 attempts with a 1s, 2s backoff between them and a 60s
// rate-limit cooldown that does not consume the budget.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:   3,
		Backoff:       DefaultExponentialBackoff(),
		RateLimitWait: 60 * time.Second,
		Logger:        logger.GetLogger(),
	}
}

// Do executes op under the policy. It returns nil on the first success,
// the last error once the budget is exhausted, and the classification
// error unchanged for fatal errors or context cancellation.
func (p Policy) Do(ctx context.Context, name string, op Operation) error {
	classify := p.Classify
	if classify == nil {
		classify = func(error) Class { return ClassTransient }
	}
	log := p.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	attempt := 0
	for {
		err := op()
		if err == nil {
			if attempt > 0 {
				log.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"operation": name,
					"attempts":  attempt + 1,
				})
			}
			return nil
		}

		switch classify(err) {
		case ClassFatal:
			return err

		case ClassRateLimit:
			if p.RateLimitCounts {
				attempt++
				if attempt >= p.MaxAttempts {
					return err
				}
			}
			log.WarnWithFields("rate limited, cooling down", map[string]interface{}{
				"operation": name,
				"wait_s":    p.RateLimitWait.Seconds(),
			})
			if werr := Wait(ctx, p.RateLimitWait); werr != nil {
				return fmt.Errorf("retry cancelled: %w", werr)
			}

		case ClassTransient:
			attempt++
			if attempt >= p.MaxAttempts {
				return err
			}
			delay := p.Backoff.NextDelay(attempt)
			log.WarnWithFields("retrying operation", map[string]interface{}{
				"operation":    name,
				"attempt":      attempt,
				"max_attempts": p.MaxAttempts,
				"delay_ms":     delay.Milliseconds(),
				"error":        err.Error(),
			})
			if werr := Wait(ctx, delay); werr != nil {
				return fmt.Errorf("retry cancelled: %w", werr)
			}
		}
	}
}
