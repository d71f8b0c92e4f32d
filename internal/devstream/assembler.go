package devstream

// assembler holds the two-variable state described in spec.md §4.3 and §9:
// the currently declared event name and the data lines collected under it.
// No explicit state enum is introduced — these two fields are the state.
type assembler struct {
	currentEventName string
	dataLines        []string
}

func newAssembler() *assembler {
	return &assembler{currentEventName: "message"}
}

// assembledEvent is dispatched when an Empty line closes out a non-empty
// data buffer, or when the framer hits EOF with residual data still held.
type assembledEvent struct {
	name string
	data string
}

// feed processes one parsed line against the assembler state. It returns the
// assembled event and true when an Empty line closes a non-empty buffer;
// otherwise it returns the zero value and false.
func (s *assembler) feed(line Line) (assembledEvent, bool) {
	switch line.Kind {
	case LineEvent:
		s.currentEventName = line.Value
	case LineData:
		s.dataLines = append(s.dataLines, line.Value)
	case LineID, LineRetry, LineComment:
		// no-op
	case LineEmpty:
		if len(s.dataLines) > 0 {
			ev := assembledEvent{name: s.currentEventName, data: joinLines(s.dataLines)}
			s.dataLines = nil
			s.currentEventName = "message"
			return ev, true
		}
		s.currentEventName = "message"
	}
	return assembledEvent{}, false
}

// flushResidual builds the pending event held at EOF, if any, using the
// currently held event name rather than resetting to "message". The caller
// is responsible for deciding what to do with the returned event (spec.md
// §4.3 EOF note, and §9's residual-flush resolution).
func (s *assembler) flushResidual() (assembledEvent, bool) {
	if len(s.dataLines) == 0 {
		return assembledEvent{}, false
	}
	ev := assembledEvent{name: s.currentEventName, data: joinLines(s.dataLines)}
	s.dataLines = nil
	return ev, true
}

func joinLines(lines []string) string {
	out := lines[0]
	for _, l := range lines[1:] {
		out += "\n" + l
	}
	return out
}
