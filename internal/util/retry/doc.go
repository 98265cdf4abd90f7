// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max retries,
// initial delay and maximum delay. It wraps inventory API calls so that
// connection resets and 429/5xx responses can be retried when enabled.
package retry
