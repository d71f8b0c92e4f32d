package devstream

import (
	"encoding/json"
	"strings"
)

// Action mirrors a single Dev action event. UnmarshalJSON keeps the full raw
// payload in Extra, so fields the translator does not model are not lost on
// decode. Extra is not written back by json.Marshal: encoding an Action
// yields only its "type" field.
type Action struct {
	Type  int             `json:"type"`
	Extra json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known "type" field and stashes the full payload
// in Extra so callers can recover fields the translator doesn't model.
func (a *Action) UnmarshalJSON(data []byte) error {
	type known struct {
		Type int `json:"type"`
	}
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	a.Type = k.Type
	a.Extra = append(json.RawMessage(nil), data...)
	return nil
}

// Source mirrors a single Dev sources-event entry.
type Source struct {
	Title *string         `json:"title,omitempty"`
	URL   *string         `json:"url,omitempty"`
	Extra json.RawMessage `json:"-"`
}

func (s *Source) UnmarshalJSON(data []byte) error {
	type known struct {
		Title *string `json:"title"`
		URL   *string `json:"url"`
	}
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	s.Title, s.URL = k.Title, k.URL
	s.Extra = append(json.RawMessage(nil), data...)
	return nil
}

// GithubSource mirrors a single Dev repoSources-event entry.
type GithubSource struct {
	Repo     *string         `json:"repo,omitempty"`
	FilePath *string         `json:"filePath,omitempty"`
	Extra    json.RawMessage `json:"-"`
}

func (g *GithubSource) UnmarshalJSON(data []byte) error {
	type known struct {
		Repo     *string `json:"repo"`
		FilePath *string `json:"filePath"`
	}
	var k known
	if err := json.Unmarshal(data, &k); err != nil {
		return err
	}
	g.Repo, g.FilePath = k.Repo, k.FilePath
	g.Extra = append(json.RawMessage(nil), data...)
	return nil
}

// Accumulator is the per-request state the dispatcher mutates. Exactly one
// instance exists per stream, owned exclusively by the Driver that created
// it.
type Accumulator struct {
	Text            string
	Actions         []Action
	Sources         []Source
	GithubSources   []GithubSource
	RelatedQuestions []string

	relatedQuestionsRaw string

	ThreadID         *string
	QueryMessageID   *string
	AnswerMessageID  *string
	ThreadTitle      *string
	Reasoning        *string

	IsFinished bool
	Error      *string
}

// appendRelatedQuestion records one rlq/q payload onto the raw buffer, only
// when non-empty. The derived RelatedQuestions slice is computed lazily by
// ResolveRelatedQuestions, once, at stream termination.
func (a *Accumulator) appendRelatedQuestion(data string) {
	if data == "" {
		return
	}
	a.relatedQuestionsRaw += "\n" + strings.TrimSpace(data)
}

// ResolveRelatedQuestions derives RelatedQuestions from the raw buffer:
// split on newline, trim each entry, drop empties. Idempotent — safe to call
// more than once, though the termination protocol calls it exactly once.
func (a *Accumulator) ResolveRelatedQuestions() {
	parts := strings.Split(a.relatedQuestionsRaw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	a.RelatedQuestions = out
}

func (a *Accumulator) appendReasoning(data string) {
	if a.Reasoning == nil {
		a.Reasoning = new(string)
	}
	*a.Reasoning += data
}
