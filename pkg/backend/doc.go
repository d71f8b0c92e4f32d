// Package backend provides the HTTP gateway that translates OpenAI-shaped
// streaming chat completion requests into calls against the Dev upstream
// chat service, and translates its SSE vocabulary back.
//
// # Architecture
//
// The backend package is organized into several sub-packages:
//
//   - handlers: chat completion, health, and ping handlers
//   - middleware: reusable HTTP middleware (auth, CORS, rate limiting, etc.)
//
// # Usage
//
//	config := backendtypes.Default()
//	dev := devapi.NewClient(config.DevUpstream.BaseURL, config.DevUpstream.ResponseHeaderTimeout, nil)
//	server := backend.NewServer(config, dev, nil)
//	server.Start()
package backend
