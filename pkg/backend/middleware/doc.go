// Package middleware provides HTTP middleware components for the gateway
// server. It includes middleware for authentication, CORS, rate limiting,
// request logging, request ID tracking, and panic recovery.
package middleware
