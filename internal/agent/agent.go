// Package agent wraps the external language-model collaborator that
// interprets a natural-language query against a tabular frame and returns
// the structured analysis mapping.
package agent

import (
	"context"
	"fmt"

	"github.com/datalens-ai/datalens/internal/frame"
	"github.com/datalens-ai/datalens/internal/result"
)

// Client is the dataframe-agent boundary. Implementations own
// interpretation, computation, and the choice of which result sections to
// populate.
type Client interface {
	Analyze(ctx context.Context, f *frame.Frame, query string) (*result.Result, error)
}

// Error wraps any failure raised by the external agent so the UI boundary
// can surface a single user-visible message.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("agent: %v", e.Err) }

func (e *Error) Unwrap() error { return e.Err }
