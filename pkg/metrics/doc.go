// Package metrics defines Prometheus metrics for the file gateway,
// covering logins, token verifications, rate limiting, downloads,
// uploads, and blob-store calls.
package metrics
