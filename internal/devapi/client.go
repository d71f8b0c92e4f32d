// Package devapi talks to the proprietary upstream "Dev" chat service: it
// builds the signed request, issues it, and hands the unconsumed response
// body back to the devstream translator. Grounded on
// pkg/backend/transport.go's SharedTransport/SharedClient pattern.
package devapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DevRequestOptions mirrors the original Dev request options record
// (original_source/rust_proxy/src/main.rs's DevRequestOptions): at least a
// model name and a language hint, both optional. The chat handler always
// sets Language (defaulting to "All") and sets Model only when the incoming
// request names one; a nil field is omitted from the request body.
type DevRequestOptions struct {
	Model    *string `json:"model,omitempty"`
	Language *string `json:"language,omitempty"`
}

// Signer produces whatever opaque signature the Dev upstream requires on
// each request. Request signing is explicitly out of scope for the
// translator core (spec.md §1); this interface exists only so the client
// can attach it without depending on a concrete implementation.
type Signer interface {
	Sign(req *http.Request, body []byte) error
}

// NoopSigner attaches no signature. Useful for local development against an
// upstream that does not require one, and as the default when no signer is
// configured.
type NoopSigner struct{}

func (NoopSigner) Sign(*http.Request, []byte) error { return nil }

// Client issues chat-completion requests against the Dev upstream.
type Client struct {
	baseURL    string
	httpClient *http.Client
	signer     Signer
}

// newTransport mirrors pkg/backend.SharedTransport's pooling settings, with
// ResponseHeaderTimeout bounding only the wait for the response header — not
// the lifetime of the streamed body, which the SSE translator must be free
// to read for as long as the upstream keeps sending (spec.md §5: "the
// translator itself imposes no timeout").
func newTransport(responseHeaderTimeout time.Duration) *http.Transport {
	return &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: responseHeaderTimeout,
	}
}

// NewClient builds a Client against baseURL. responseHeaderTimeout bounds
// only the initial round trip (headers); it never cuts off an in-progress
// SSE body read.
func NewClient(baseURL string, responseHeaderTimeout time.Duration, signer Signer) *Client {
	if signer == nil {
		signer = NoopSigner{}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Transport: newTransport(responseHeaderTimeout)},
		signer:     signer,
	}
}

// devChatRequest is the JSON body sent to the Dev upstream.
type devChatRequest struct {
	Content  string  `json:"content"`
	Model    *string `json:"model,omitempty"`
	Language *string `json:"language,omitempty"`
}

// StreamChatCompletion sends content and opts to the Dev upstream and
// returns the response's unconsumed body so the caller's devstream.Driver
// can read it incrementally. The caller must Close the returned response
// body. A non-2xx status is surfaced as an error carrying the status code;
// the HTTP layer turns that into the HTTP 500 described in spec.md §6.
func (c *Client) StreamChatCompletion(ctx context.Context, content string, opts DevRequestOptions) (*http.Response, error) {
	body, err := json.Marshal(devChatRequest{Content: content, Model: opts.Model, Language: opts.Language})
	if err != nil {
		return nil, fmt.Errorf("devapi: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("devapi: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	if err := c.signer.Sign(req, body); err != nil {
		return nil, fmt.Errorf("devapi: signing request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("devapi: request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// Ping probes the Dev upstream's reachability with a lightweight GET against
// its base URL, for use by the health endpoint. It does not drive a chat
// completion.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return fmt.Errorf("devapi: building ping request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("devapi: ping failed: %w", err)
	}
	defer resp.Body.Close()
	return nil
}

// StatusError reports a non-2xx status from the Dev upstream.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("devapi: upstream returned status %d", e.StatusCode)
}
