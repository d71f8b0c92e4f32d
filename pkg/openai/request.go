// Package openai defines the wire shapes exchanged with the gateway's
// downstream clients: the incoming OpenAI-style chat-completion request and
// the non-streaming GenerateResponse body. The streaming chunk type lives in
// the devstream package.
package openai

import "encoding/json"

// Message is a single chat message in the OpenAI request shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// knownChatRequestFields lists the JSON keys ChatCompletionRequest decodes
// explicitly; anything else is preserved in Extra so a future passthrough
// feature does not require a wire-format migration (SPEC_FULL.md §3).
var knownChatRequestFields = map[string]struct{}{
	"model":    {},
	"messages": {},
	"stream":   {},
}

// ChatCompletionRequest is the incoming POST /v1/chat/completions body.
// Unrecognized OpenAI fields (temperature, tools, tool_choice, ...) are kept
// verbatim in Extra rather than discarded during decode.
type ChatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
	Extra    map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and collects everything else into
// Extra.
func (r *ChatCompletionRequest) UnmarshalJSON(data []byte) error {
	type known struct {
		Model    string    `json:"model"`
		Messages []Message `json:"messages"`
		Stream   bool      `json:"stream"`
	}
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	r.Model, r.Messages, r.Stream = k.Model, k.Messages, k.Stream

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Extra = make(map[string]json.RawMessage, len(raw))
	for key, val := range raw {
		if _, known := knownChatRequestFields[key]; !known {
			r.Extra[key] = val
		}
	}
	return nil
}

// LastContent returns the content of the last message, or "" if there are
// no messages — the prompt the translator forwards to the Dev upstream
// (spec.md §6).
func (r *ChatCompletionRequest) LastContent() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1].Content
}
