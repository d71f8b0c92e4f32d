package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelhq/devchat-gateway/internal/devapi"
	"github.com/kestrelhq/devchat-gateway/internal/devstream"
	"github.com/kestrelhq/devchat-gateway/pkg/openai"
)

// keepAliveInterval matches original_source/rust_proxy/src/main.rs's
// KeepAlive::new().interval(Duration::from_secs(15)).
const keepAliveInterval = 15 * time.Second

// bufferPool reduces allocations when collecting a non-streaming response,
// mirroring pkg/backend/handlers/generate.go's collectStreamResponse.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// DevStreamer opens a streamed chat completion against the Dev upstream.
// ChatHandler depends on this interface, not *devapi.Client, so tests can
// substitute a stub reader.
type DevStreamer interface {
	StreamChatCompletion(ctx context.Context, content string, opts devapi.DevRequestOptions) (*http.Response, error)
}

// ChatHandler implements POST /v1/chat/completions: translate the incoming
// OpenAI-shaped request into a Dev upstream call, then translate the Dev
// SSE vocabulary back into an OpenAI-conformant chunk stream.
type ChatHandler struct {
	dev      DevStreamer
	logger   *log.Logger
	language string
}

func NewChatHandler(dev DevStreamer, logger *log.Logger, language string) *ChatHandler {
	if language == "" {
		language = "All"
	}
	return &ChatHandler{dev: dev, logger: logger, language: language}
}

// Complete handles POST /v1/chat/completions.
func (h *ChatHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req openai.ChatCompletionRequest
	if err := ParseJSON(r, &req); err != nil {
		SendError(w, r, "INVALID_REQUEST", "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	content := req.LastContent()
	if content == "" {
		SendError(w, r, "INVALID_REQUEST", "At least one message with content is required", http.StatusBadRequest)
		return
	}

	model := req.Model
	if model == "" {
		model = "unknown-dev-model"
	}

	opts := devapi.DevRequestOptions{Language: &h.language}
	if req.Model != "" {
		opts.Model = &req.Model
	}

	resp, err := h.dev.StreamChatCompletion(r.Context(), content, opts)
	if err != nil {
		SendError(w, r, "UPSTREAM_ERROR", "Failed to reach Dev upstream: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	streamID := "chatcmpl-" + uuid.NewString()
	driver := devstream.NewDriver(resp.Body, h.logger, streamID, model)

	if !req.Stream {
		h.completeBuffered(w, r, driver, model)
		return
	}

	h.completeStreamed(w, r, driver)
}

// completeStreamed drives the translator incrementally, writing each chunk
// as an SSE frame and interleaving a keep-alive comment whenever 15 seconds
// pass without one (spec.md §5: the core itself imposes no timeout, so the
// handler owns the keep-alive ticker, not the driver).
func (h *ChatHandler) completeStreamed(w http.ResponseWriter, r *http.Request, driver *devstream.Driver) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		SendError(w, r, "STREAMING_UNSUPPORTED", err.Error(), http.StatusInternalServerError)
		return
	}

	type result struct {
		chunk devstream.Chunk
		ok    bool
		err   error
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	next := make(chan result, 1)
	pull := func() {
		chunk, ok, err := driver.Next()
		next <- result{chunk: chunk, ok: ok, err: err}
	}

	go pull()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-ticker.C:
			sse.WriteComment("keep-alive")

		case res := <-next:
			ticker.Reset(keepAliveInterval)

			if res.err != nil {
				sse.WriteError("UPSTREAM_TRANSPORT_ERROR", res.err.Error())
				return
			}
			if !res.ok {
				sse.WriteDone()
				return
			}
			if err := sse.WriteChunk(res.chunk); err != nil {
				h.logger.Printf("chat: dropping downstream connection after serialization error: %v", err)
				return
			}
			go pull()
		}
	}
}

// completeBuffered drives the translator to completion without ever writing
// SSE, collecting the final text into a single JSON response (SPEC_FULL.md
// §6a).
func (h *ChatHandler) completeBuffered(w http.ResponseWriter, r *http.Request, driver *devstream.Driver, model string) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	for {
		chunk, ok, err := driver.Next()
		if err != nil {
			SendError(w, r, "UPSTREAM_TRANSPORT_ERROR", err.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			break
		}
		for _, choice := range chunk.Choices {
			buf.WriteString(choice.Delta.Content)
		}
	}

	SendSuccess(w, r, openai.GenerateResponse{
		Content: buf.String(),
		Model:   model,
	})
}

// Ping implements GET /api/ping, matching
// original_source/rust_proxy/src/main.rs's ping_handler.
func Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "pong")
}
