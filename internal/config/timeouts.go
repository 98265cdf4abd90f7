package config

import (
	"fmt"
	"time"
)

// Timeouts holds request timeout and retry settings of the inventory client.
type Timeouts struct {
	Request           time.Duration `mapstructure:"request"`             // Timeout of a single API request
	RetryMaxAttempts  int           `mapstructure:"retry_max_attempts"`  // Retries after the first attempt, 0 disables
	RetryInitialDelay time.Duration `mapstructure:"retry_initial_delay"` // Initial delay between retries
	RetryMaxDelay     time.Duration `mapstructure:"retry_max_delay"`     // Upper bound of the backoff delay
}

// DefaultTimeouts returns the timeouts used when none are configured.
//
// Environment Variables:
//   - SITEPROV_TIMEOUTS_REQUEST (default: 30s)
//   - SITEPROV_TIMEOUTS_RETRY_MAX_ATTEMPTS (default: 0)
//   - SITEPROV_TIMEOUTS_RETRY_INITIAL_DELAY (default: 500ms)
//   - SITEPROV_TIMEOUTS_RETRY_MAX_DELAY (default: 10s)
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Request:           30 * time.Second,
		RetryMaxAttempts:  0,
		RetryInitialDelay: 500 * time.Millisecond,
		RetryMaxDelay:     10 * time.Second,
	}
}

func (t Timeouts) validate() error {
	if t.Request <= 0 {
		return fmt.Errorf("timeouts.request must be positive, got %s", t.Request)
	}
	if t.RetryMaxAttempts < 0 {
		return fmt.Errorf("timeouts.retry_max_attempts must not be negative, got %d", t.RetryMaxAttempts)
	}
	return nil
}
