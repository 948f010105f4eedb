// Package integrations provides the shared HTTP client used to talk to
// artifact repositories.
//
// The only repository protocol implemented is the Maven repository layout,
// in the [maven] subpackage. [Client] holds the infrastructure it relies on:
//
//   - Response caching through a [cache.Cache] (file, Redis or null)
//   - Retry of transient failures via [httputil.Retry]
//   - Offline mode, where only cached responses are served
//   - HTTP and cache events reported to [observability] hooks
//
// # Errors
//
// Transport failures are reported with two sentinels:
//
//   - [ErrNotFound]: the repository answered 404
//   - [ErrNetwork]: connection failures, timeouts and unexpected status codes
//
// 5xx responses and connection failures are wrapped as retryable; everything
// else fails on the first attempt.
package integrations
