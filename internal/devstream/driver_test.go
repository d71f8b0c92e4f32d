package devstream

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drainAll pulls every chunk from d until end-of-stream, asserting no
// transport error occurs.
func drainAll(t *testing.T, d *Driver) []Chunk {
	t.Helper()
	var out []Chunk
	for {
		c, ok, err := d.Next()
		require.NoError(t, err)
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

func newTestDriver(body string) *Driver {
	return NewDriver(strings.NewReader(body), testLogger(), "req-1", "model-1")
}

// S1 — simple content then EOF, including the leading-space-stripped case.
func TestDriver_S1_SimpleContentThenEOF(t *testing.T) {
	d := newTestDriver("event: content\ndata: Hello\n\nevent: content\ndata:  World\n\n")
	chunks := drainAll(t, d)

	require.Len(t, chunks, 3)
	assert.Equal(t, "Hello", chunks[0].Choices[0].Delta.Content)
	assert.Nil(t, chunks[0].Choices[0].FinishReason)
	assert.Equal(t, " World", chunks[1].Choices[0].Delta.Content)
	assert.Nil(t, chunks[1].Choices[0].FinishReason)
	assert.Equal(t, "", chunks[2].Choices[0].Delta.Content)
	require.NotNil(t, chunks[2].Choices[0].FinishReason)
	assert.Equal(t, "stop", *chunks[2].Choices[0].FinishReason)
}

// S2 — error mid-stream: no chunk follows the error chunk.
func TestDriver_S2_ErrorMidStream(t *testing.T) {
	d := newTestDriver("event: c\ndata: partial\n\nevent: error\ndata: boom\n\nevent: c\ndata: ignored\n\n")
	chunks := drainAll(t, d)

	require.Len(t, chunks, 2)
	assert.Equal(t, "partial", chunks[0].Choices[0].Delta.Content)
	assert.Nil(t, chunks[0].Choices[0].FinishReason)

	assert.Contains(t, chunks[1].Choices[0].Delta.Content, "STREAM_ERROR")
	assert.Contains(t, chunks[1].Choices[0].Delta.Content, "boom")
	require.NotNil(t, chunks[1].Choices[0].FinishReason)
	assert.Equal(t, "stop", *chunks[1].Choices[0].FinishReason)

	assert.True(t, d.Accumulator().IsFinished)
}

// S3 — an event split across two reads is reassembled into one content chunk.
func TestDriver_S3_SplitByteBoundaries(t *testing.T) {
	r, w := io.Pipe()
	go func() {
		_, _ = w.Write([]byte("event: content\nda"))
		_, _ = w.Write([]byte("ta: Hi\n\n"))
		w.Close()
	}()

	d := NewDriver(r, testLogger(), "req-1", "model-1")
	chunks := drainAll(t, d)

	require.Len(t, chunks, 2)
	assert.Equal(t, "Hi", chunks[0].Choices[0].Delta.Content)
	require.NotNil(t, chunks[1].Choices[0].FinishReason)
	assert.Equal(t, "stop", *chunks[1].Choices[0].FinishReason)
}

// S4 — residual buffer without a trailing blank line still emits its
// content chunk (the §9 open question resolved in favor of S4).
func TestDriver_S4_ResidualBufferFlushed(t *testing.T) {
	d := newTestDriver("event: content\ndata: tail")
	chunks := drainAll(t, d)

	require.Len(t, chunks, 2)
	assert.Equal(t, "tail", chunks[0].Choices[0].Delta.Content)
	require.NotNil(t, chunks[1].Choices[0].FinishReason)
	assert.Equal(t, "stop", *chunks[1].Choices[0].FinishReason)
	assert.Equal(t, "tail", d.Accumulator().Text)
}

// S5 — side-channel-only events produce no content chunks.
func TestDriver_S5_SideChannelsOnly(t *testing.T) {
	d := newTestDriver(`event: threadId
data: th_1

event: sources
data: [{"title":"T","url":"u"}]

event: rlq
data: A

event: rlq
data: B

`)
	chunks := drainAll(t, d)

	require.Len(t, chunks, 1)
	require.NotNil(t, chunks[0].Choices[0].FinishReason)
	assert.Equal(t, "stop", *chunks[0].Choices[0].FinishReason)

	acc := d.Accumulator()
	require.NotNil(t, acc.ThreadID)
	assert.Equal(t, "th_1", *acc.ThreadID)
	require.Len(t, acc.Sources, 1)
	assert.Equal(t, "T", *acc.Sources[0].Title)
	assert.Equal(t, "u", *acc.Sources[0].URL)
	assert.Equal(t, []string{"A", "B"}, acc.RelatedQuestions)
}

// S6 — a malformed action is dropped; the stream continues normally.
func TestDriver_S6_MalformedAction(t *testing.T) {
	d := newTestDriver("event: action\ndata: {not json}\n\nevent: c\ndata: ok\n\n")
	chunks := drainAll(t, d)

	require.Len(t, chunks, 2)
	assert.Equal(t, "ok", chunks[0].Choices[0].Delta.Content)
	require.NotNil(t, chunks[1].Choices[0].FinishReason)
	assert.Empty(t, d.Accumulator().Actions)
}

// Invariant 1: at most one chunk has a non-null finish_reason, and it is last.
func TestDriver_Invariant_SingleTerminalFinishReasonIsLast(t *testing.T) {
	d := newTestDriver("event: content\ndata: a\n\nevent: content\ndata: b\n\n")
	chunks := drainAll(t, d)

	terminal := 0
	for i, c := range chunks {
		if c.Choices[0].FinishReason != nil {
			terminal++
			assert.Equal(t, len(chunks)-1, i, "finish_reason chunk must be last")
		}
	}
	assert.Equal(t, 1, terminal)
}

// Invariant 2: concatenated content chunks equal acc.text at stream end.
func TestDriver_Invariant_ContentConcatenationMatchesAccText(t *testing.T) {
	d := newTestDriver("event: content\ndata: Hello\n\nevent: content\ndata:  World\n\n")
	chunks := drainAll(t, d)

	var got strings.Builder
	for _, c := range chunks {
		if c.Choices[0].FinishReason == nil {
			got.WriteString(c.Choices[0].Delta.Content)
		}
	}
	assert.Equal(t, d.Accumulator().Text, got.String())
}

// Sticky terminal flag: Next never returns a value after
// signaling end-of-stream, even when called repeatedly.
func TestDriver_TerminalSentIsSticky(t *testing.T) {
	d := newTestDriver("event: content\ndata: x\n\n")
	_ = drainAll(t, d)

	c, ok, err := d.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Chunk{}, c)
}

// Invariant 6: framer is chunk-boundary-agnostic.
func TestDriver_FramerIsChunkBoundaryAgnostic(t *testing.T) {
	full := "event: content\ndata: Hello\n\nevent: content\ndata: World\n\n"

	whole := drainAll(t, newTestDriver(full))

	r, w := io.Pipe()
	go func() {
		for _, b := range []byte(full) {
			_, _ = w.Write([]byte{b})
		}
		w.Close()
	}()
	split := drainAll(t, NewDriver(r, testLogger(), "req-1", "model-1"))

	require.Equal(t, len(whole), len(split))
	for i := range whole {
		assert.Equal(t, whole[i].Choices[0].Delta.Content, split[i].Choices[0].Delta.Content)
		assert.Equal(t, whole[i].Choices[0].FinishReason, split[i].Choices[0].FinishReason)
	}
}

// Upstream transport error surfaces as an error from Next, not a chunk.
func TestDriver_UpstreamTransportError(t *testing.T) {
	r, w := io.Pipe()
	go func() {
		_, _ = w.Write([]byte("event: content\ndata: partial\n\n"))
		w.CloseWithError(assert.AnError)
	}()

	d := NewDriver(r, testLogger(), "req-1", "model-1")

	c1, ok1, err1 := d.Next()
	require.NoError(t, err1)
	require.True(t, ok1)
	assert.Equal(t, "partial", c1.Choices[0].Delta.Content)

	_, ok2, err2 := d.Next()
	assert.False(t, ok2)
	assert.Error(t, err2)
}
