package devstream

import (
	"strings"
)

// framer owns the growable decode buffer described in spec.md §4.2. Bytes
// are appended as they arrive (with lossy UTF-8 substitution on decode
// failure) and complete newline-terminated lines are peeled off as they
// become available; anything after the last '\n' stays buffered for the
// next chunk.
type framer struct {
	buf strings.Builder
}

// feed decodes b (lossily, on invalid UTF-8) and appends it to the buffer.
// Invalid sequences are substituted with the UTF-8 replacement character
// rather than aborting the stream, per spec.md §4.2 and §7's InvalidUTF8
// handling.
func (f *framer) feed(b []byte) {
	f.buf.WriteString(strings.ToValidUTF8(string(b), "�"))
}

// nextLine extracts the next complete line from the buffer, stripping a
// trailing "\r\n" or "\n". Returns false if no complete line is buffered.
func (f *framer) nextLine() (string, bool) {
	s := f.buf.String()
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return "", false
	}
	line := s[:idx]
	line = strings.TrimSuffix(line, "\r")

	rest := s[idx+1:]
	f.buf.Reset()
	f.buf.WriteString(rest)
	return line, true
}

// drainResidual splits whatever remains in the buffer (no trailing
// newline) into lines, per spec.md §4.2's EOF handling: split on '\n', strip
// a trailing '\r' from each piece, and drop an empty trailing piece produced
// by a terminal '\n' that this function's caller didn't already consume via
// nextLine.
func (f *framer) drainResidual() []string {
	s := f.buf.String()
	f.buf.Reset()
	if s == "" {
		return nil
	}
	pieces := strings.Split(s, "\n")
	if len(pieces) > 0 && pieces[len(pieces)-1] == "" {
		pieces = pieces[:len(pieces)-1]
	}
	for i, p := range pieces {
		pieces[i] = strings.TrimSuffix(p, "\r")
	}
	return pieces
}
