// Package render turns an analysis result into presentation output: a
// progressively paced narrative answer, a highlighted HTML table, and
// echarts bar/line charts. Sections render independently, in a fixed
// order: answer, table, bar, line.
package render

import (
	"strings"
	"time"
)

// Cursor is the marker appended while the answer is still being typed out.
const Cursor = "▌"

// DefaultDelay is the per-token pacing for the answer typing effect.
const DefaultDelay = 50 * time.Millisecond

// AnswerStates returns the successive display states of the typing effect:
// tokens (whitespace-split) are appended one at a time with the cursor
// marker, and the final state carries the full text without the cursor.
// The full text is available immediately; pacing is purely presentational.
func AnswerStates(text string) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return []string{text}
	}
	states := make([]string, 0, len(tokens)+1)
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok)
		b.WriteString(" ")
		states = append(states, b.String()+Cursor)
	}
	states = append(states, b.String())
	return states
}

// StreamAnswer emits each display state through emit, sleeping delay
// between increments. No delay follows the final state. Must not overlap
// with any other rendering of the same result.
func StreamAnswer(text string, delay time.Duration, emit func(state string)) {
	states := AnswerStates(text)
	for i, s := range states {
		emit(s)
		if delay > 0 && i < len(states)-1 {
			time.Sleep(delay)
		}
	}
}
