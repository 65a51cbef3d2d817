package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Dependency        time.Duration // Overall timeout for one dependency check
	CheckInterval     time.Duration // Polling interval between probe attempts
	Step              time.Duration // Timeout for a single step's action
	RetryMaxAttempts  int           // Maximum probe attempts per dependency check
	RetryExponential  bool          // Back off exponentially instead of fixed-interval polling
	RetryInitialDelay time.Duration // Starting delay when backing off exponentially
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - PROVFLOW_TIMEOUT_DEPENDENCY (default: 2m)
//   - PROVFLOW_CHECK_INTERVAL (default: 5s)
//   - PROVFLOW_TIMEOUT_STEP (default: 10m)
//   - PROVFLOW_RETRY_MAX_ATTEMPTS (default: 24)
//   - PROVFLOW_RETRY_EXPONENTIAL (default: false)
//   - PROVFLOW_RETRY_INITIAL_DELAY (default: 1s; used when exponential)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Dependency:        parseDuration("PROVFLOW_TIMEOUT_DEPENDENCY", 2*time.Minute),
		CheckInterval:     parseDuration("PROVFLOW_CHECK_INTERVAL", 5*time.Second),
		Step:              parseDuration("PROVFLOW_TIMEOUT_STEP", 10*time.Minute),
		RetryMaxAttempts:  parseInt("PROVFLOW_RETRY_MAX_ATTEMPTS", 24),
		RetryExponential:  parseBool("PROVFLOW_RETRY_EXPONENTIAL", false),
		RetryInitialDelay: parseDuration("PROVFLOW_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseBool parses a boolean from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseBool(envVar string, defaultVal bool) bool {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}

	return b
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
