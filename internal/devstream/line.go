// Package devstream implements the incremental translator that turns the Dev
// upstream's Server-Sent-Events vocabulary into an OpenAI-conformant stream
// of chat-completion chunks.
package devstream

import "strings"

// LineKind tags the classification of a single already-newline-stripped SSE
// line.
type LineKind int

const (
	LineEvent LineKind = iota
	LineData
	LineID
	LineRetry
	LineComment
	LineEmpty
)

// Line is the result of parsing one SSE line: a kind plus its value (empty
// for Comment and Empty).
type Line struct {
	Kind  LineKind
	Value string
}

// ParseLine classifies a single line per the SSE field grammar: empty input
// is LineEmpty, a leading ':' is LineComment (including a bare ":"),
// otherwise the line is split on the first ':' with an absent colon treated
// as the whole line being the field name and the value being "". Recognized
// fields are event/data/id/retry; anything else collapses to LineComment.
// The value has at most one leading space stripped; everything else,
// including further colons, is preserved verbatim.
func ParseLine(line string) Line {
	if line == "" {
		return Line{Kind: LineEmpty}
	}
	if strings.HasPrefix(line, ":") {
		return Line{Kind: LineComment}
	}

	field, value, found := strings.Cut(line, ":")
	if !found {
		field, value = line, ""
	}
	value = strings.TrimPrefix(value, " ")

	switch field {
	case "event":
		return Line{Kind: LineEvent, Value: value}
	case "data":
		return Line{Kind: LineData, Value: value}
	case "id":
		return Line{Kind: LineID, Value: value}
	case "retry":
		return Line{Kind: LineRetry, Value: value}
	default:
		return Line{Kind: LineComment}
	}
}
