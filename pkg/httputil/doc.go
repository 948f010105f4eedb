// Package httputil provides retry helpers for repository clients.
//
// [Retry] re-runs an operation only when it fails with an error wrapped by
// [Retryable]. Clients wrap transient failures (connection errors, 5xx
// responses) and leave permanent ones (404, malformed POMs) unwrapped, so a
// missing BOM fails fast while a flaky mirror gets a few more chances.
//
// Defaults used by [RetryWithBackoff]:
//
//   - Attempts: 3
//   - Initial delay: 1 second, doubling after each failure
package httputil
