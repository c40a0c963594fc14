// Package dispatch routes normalized content plus a query to the right
// analysis path: tabular frames go to the external agent, text blobs get a
// bounded echo.
package dispatch

import (
	"context"
	"io"
	"log/slog"

	"github.com/datalens-ai/datalens/internal/agent"
	"github.com/datalens-ai/datalens/internal/cache"
	"github.com/datalens-ai/datalens/internal/frame"
	"github.com/datalens-ai/datalens/internal/result"
	"github.com/datalens-ai/datalens/internal/utils"
)

// textEchoLimit bounds the echoed prefix for text-only content. The text
// path performs no semantic analysis on purpose.
const textEchoLimit = 3000

// Service is the analysis dispatcher. Cache is optional; Agent is required
// only for tabular content.
type Service struct {
	Agent  agent.Client
	Cache  *cache.Cache
	Logger *slog.Logger
}

// New builds a dispatcher.
func New(a agent.Client, c *cache.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{Agent: a, Cache: c, Logger: logger}
}

// AnalyzeFrame delegates the frame and query verbatim to the agent,
// short-circuiting through the response cache when an identical request
// was answered before. Chart specs are validated once here; agent failures
// propagate to the caller untouched.
func (s *Service) AnalyzeFrame(ctx context.Context, f *frame.Frame, query string) (*result.Result, error) {
	key := cache.Key(f.Fingerprint(), query)
	if s.Cache != nil {
		if r, ok := s.Cache.Get(key); ok {
			s.Logger.Info("analysis served from cache", "query_len", len(query))
			return r, nil
		}
	}

	s.Logger.Info("delegating to agent", "rows", f.NumRows(), "cols", f.NumCols(), "query_len", len(query))
	r, err := s.Agent.Analyze(ctx, f, query)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	// Valid but empty charts are dropped so the rest of the result still
	// renders.
	if r.Bar.IsEmpty() {
		r.Bar = nil
	}
	if r.Line.IsEmpty() {
		r.Line = nil
	}
	if s.Cache != nil {
		s.Cache.Put(key, r)
	}
	return r, nil
}

// AnalyzeText produces the trivial text result: a fixed-size prefix of the
// source text, unmodified. No agent call happens on this path.
func (s *Service) AnalyzeText(_ context.Context, text, query string) (*result.Result, error) {
	s.Logger.Info("text content analyzed as echo", "text_len", len(text), "query_len", len(query))
	return &result.Result{Answer: utils.Prefix(text, textEchoLimit)}, nil
}
