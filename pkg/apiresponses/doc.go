// Package apiresponses provides standardized HTTP API response helpers
// (validation, authentication, rate-limit, internal-error) shared between
// the api and ratelimit packages without import cycles.
package apiresponses
