// Package api implements the HTTP API server (Gin-based) for the file
// gateway: login, the rate-limited artifact download redirect, blob-store
// backed upload/list endpoints, and the bearer-token access gate applied
// to every protected route.
package api
