package devstream

import (
	"encoding/json"
	"log"
)

// dispatch implements the event dispatcher table in spec.md §4.4: given an
// assembled (event_name, data) pair it mutates acc and returns the chunk to
// emit, if any. Only "message"/"content"/"c" (non-empty data) and "error"
// ever produce a chunk.
func dispatch(logger *log.Logger, acc *Accumulator, id, model string, ev assembledEvent) *Chunk {
	// Once an error event has finished the accumulator, every later event is
	// discarded outright: no further mutation and no further chunk, so that
	// nothing can ever be emitted after the error chunk (spec.md §8 invariant 3).
	if acc.IsFinished {
		return nil
	}

	switch ev.name {
	case "message", "content", "c":
		if ev.data == "" {
			return nil
		}
		acc.Text += ev.data
		c := contentChunk(id, model, ev.data)
		return &c

	case "action":
		var a Action
		if err := json.Unmarshal([]byte(ev.data), &a); err != nil {
			logger.Printf("devstream: dropping malformed action event: %v", err)
			return nil
		}
		acc.Actions = append(acc.Actions, a)
		return nil

	case "sources":
		var sources []Source
		if err := json.Unmarshal([]byte(ev.data), &sources); err != nil {
			logger.Printf("devstream: dropping malformed sources event: %v", err)
			return nil
		}
		acc.Sources = sources
		return nil

	case "repoSources":
		var ghSources []GithubSource
		if err := json.Unmarshal([]byte(ev.data), &ghSources); err != nil {
			logger.Printf("devstream: dropping malformed repoSources event: %v", err)
			return nil
		}
		acc.GithubSources = ghSources
		return nil

	case "rlq", "q":
		acc.appendRelatedQuestion(ev.data)
		return nil

	case "r":
		acc.appendReasoning(ev.data)
		return nil

	case "threadId":
		acc.ThreadID = &ev.data
		return nil
	case "queryMessageId":
		acc.QueryMessageID = &ev.data
		return nil
	case "answerMessageId":
		acc.AnswerMessageID = &ev.data
		return nil
	case "threadTitle":
		acc.ThreadTitle = &ev.data
		return nil

	case "error":
		acc.Error = &ev.data
		acc.IsFinished = true
		c := errorChunk(id, model, ev.data)
		return &c

	case "finish":
		logger.Printf("devstream: received finish event, no accumulator change")
		return nil

	default:
		return nil
	}
}
