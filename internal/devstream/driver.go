package devstream

import (
	"errors"
	"io"
	"log"
)

// Driver is the lazy producer described in spec.md §4.6: each call to Next
// either yields the next chunk or reports end-of-stream. It owns the
// accumulator, the framer's decode buffer, the assembler's in-progress data
// buffer, and the current event name exclusively; none of that state
// escapes the Driver.
type Driver struct {
	upstream io.Reader
	logger   *log.Logger

	id    string
	model string

	framer    framer
	assembler *assembler
	acc       Accumulator

	pendingChunks []Chunk
	eofReached    bool
	terminalSent  bool // sticky flag: checked first on every Next call

	readBuf [4096]byte
}

// NewDriver constructs a Driver reading from upstream. id is the stable
// stream id echoed on every chunk; model is the model name to echo, already
// defaulted to "unknown-dev-model" by the caller if the request omitted one.
func NewDriver(upstream io.Reader, logger *log.Logger, id, model string) *Driver {
	return &Driver{
		upstream:  upstream,
		logger:    logger,
		id:        id,
		model:     model,
		assembler: newAssembler(),
	}
}

// Accumulator returns the driver's accumulator. Safe to read once Next has
// returned (_, false, nil) — i.e. after the stream has ended.
func (d *Driver) Accumulator() *Accumulator {
	return &d.acc
}

// Next pulls the next chunk. It returns (chunk, true, nil) when a chunk is
// available, (zero, false, nil) on clean end-of-stream, and (zero, false,
// err) on an upstream transport error.
func (d *Driver) Next() (Chunk, bool, error) {
	if c, ok := d.popPending(); ok {
		return c, true, nil
	}
	if d.terminalSent {
		return Chunk{}, false, nil
	}

	for {
		// 1. Process all complete lines already buffered.
		for {
			line, ok := d.framer.nextLine()
			if !ok {
				break
			}
			if ev, dispatched := d.assembler.feed(ParseLine(line)); dispatched {
				if c := dispatch(d.logger, &d.acc, d.id, d.model, ev); c != nil {
					return *c, true, nil
				}
			}
		}

		// 2. Pull the next byte batch from upstream.
		n, err := d.upstream.Read(d.readBuf[:])
		if n > 0 {
			d.framer.feed(d.readBuf[:n])
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) {
			d.terminalSent = true
			return Chunk{}, false, err
		}

		// Upstream EOF: run the termination protocol (spec.md §4.6).
		d.runTermination()
		if c, ok := d.popPending(); ok {
			return c, true, nil
		}
		d.terminalSent = true
		return Chunk{}, false, nil
	}
}

// popPending returns the next queued chunk, if any, marking the driver
// terminal once the queue drains past an EOF that produced no more output.
func (d *Driver) popPending() (Chunk, bool) {
	if len(d.pendingChunks) == 0 {
		return Chunk{}, false
	}
	c := d.pendingChunks[0]
	d.pendingChunks = d.pendingChunks[1:]
	if len(d.pendingChunks) == 0 && d.eofReached {
		d.terminalSent = true
	}
	return c, true
}

// runTermination implements spec.md §4.6's termination protocol. The
// residual flush's own chunk is queued (resolving the §9 open question in
// favor of scenario S4) rather than discarded, ahead of the final "stop"
// chunk that follows it when one is due.
func (d *Driver) runTermination() {
	d.eofReached = true

	for _, line := range d.framer.drainResidual() {
		if ev, dispatched := d.assembler.feed(ParseLine(line)); dispatched {
			if c := dispatch(d.logger, &d.acc, d.id, d.model, ev); c != nil {
				d.pendingChunks = append(d.pendingChunks, *c)
			}
		}
	}
	if ev, ok := d.assembler.flushResidual(); ok {
		if c := dispatch(d.logger, &d.acc, d.id, d.model, ev); c != nil {
			d.pendingChunks = append(d.pendingChunks, *c)
		}
	}

	if d.acc.IsFinished {
		// The error chunk (finish_reason "stop") was already emitted by the
		// dispatcher when the "error" event arrived; nothing further to send.
		return
	}

	d.acc.IsFinished = true
	d.acc.ResolveRelatedQuestions()
	d.pendingChunks = append(d.pendingChunks, finalChunk(d.id, d.model))
}
