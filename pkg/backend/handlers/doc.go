// Package handlers provides the gateway's HTTP request handlers: chat
// completion streaming and its non-streaming fallback, health and ping
// endpoints, and the shared SSE writer and response helpers they use.
package handlers
