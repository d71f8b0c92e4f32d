// Package backendtypes defines types for gateway server configuration and API
// communication.
//
// This package provides shared type definitions used by the backend package
// and its handlers. It separates type definitions from implementation to
// allow clean imports without circular dependencies.
//
// # Configuration Types
//
// BackendConfig and related types define how the gateway server is
// configured:
//
//   - ServerConfig: HTTP server settings (host, port, timeouts)
//   - AuthConfig: Authentication configuration
//   - LoggingConfig: Logging settings
//   - CORSConfig: Cross-origin resource sharing settings
//   - DevUpstreamConfig: Dev upstream base URL and timeouts
//   - RateLimitConfig: Per-client rate limiting
//
// # Response Types
//
// Response types define the structure of API responses:
//
//   - APIResponse: standard success/error envelope
//   - HealthResponse: health check response
//
// # Usage
//
// Import this package to use gateway types without importing the full
// backend implementation:
//
//	import "github.com/kestrelhq/devchat-gateway/pkg/backendtypes"
//
//	config := backendtypes.BackendConfig{
//	    Server: backendtypes.ServerConfig{Port: 3000},
//	}
package backendtypes
