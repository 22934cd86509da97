// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Dispatcher call counts by category, call and outcome
//   - Dispatcher call latency
//   - Poll cycles and per-market poll failures
//   - Summary rows written, skipped on conflict, and failed
package metrics
