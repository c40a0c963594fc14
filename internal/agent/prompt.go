package agent

import (
	"encoding/json"
	"fmt"

	"github.com/datalens-ai/datalens/internal/frame"
)

// systemPrompt pins the agent to the structured result mapping. Every key
// is optional and independent; chart specs must keep columns and data
// parallel.
const systemPrompt = `You are a data analysis agent. You receive a table as JSON and a question about it. Answer with one valid JSON object only (no markdown, no code fences) using any subset of these keys:

{
  "answer": "<narrative answer as a string>",
  "table": {"columns": ["<name>", ...], "data": [[<row values>], ...]},
  "bar": {"columns": ["<category>", ...], "data": [<number>, ...], "title": "<optional>", "x_label": "<optional>", "y_label": "<optional>"},
  "line": {"columns": ["<category>", ...], "data": [<number>, ...], "title": "<optional>", "x_label": "<optional>", "y_label": "<optional>"}
}

Rules:
- Include a key only when it adds value; "answer" alone is fine for narrative questions.
- For "bar" and "line", columns and data must have the same length.
- Compute from the given table only; never invent rows or columns.
- Answer in the language of the question.`

// userPrompt serializes the frame and attaches the question.
func userPrompt(f *frame.Frame, query string) (string, error) {
	table, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("serialize frame: %w", err)
	}
	return fmt.Sprintf("Table (%d rows):\n%s\n\nQuestion: %s", f.NumRows(), table, query), nil
}
