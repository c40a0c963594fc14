package dispatch_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/datalens-ai/datalens/internal/cache"
	"github.com/datalens-ai/datalens/internal/dispatch"
	"github.com/datalens-ai/datalens/internal/frame"
	"github.com/datalens-ai/datalens/internal/result"
)

type fakeAgent struct {
	calls int
	res   *result.Result
	err   error
}

func (f *fakeAgent) Analyze(_ context.Context, _ *frame.Frame, _ string) (*result.Result, error) {
	f.calls++
	return f.res, f.err
}

func testFrame(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New([]string{"a", "b"}, [][]any{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	return f
}

func TestAnalyzeFrameUsesCache(t *testing.T) {
	ag := &fakeAgent{res: &result.Result{Answer: "ok"}}
	svc := dispatch.New(ag, cache.New(), nil)
	f := testFrame(t)

	for i := 0; i < 3; i++ {
		r, err := svc.AnalyzeFrame(context.Background(), f, "same query")
		if err != nil {
			t.Fatalf("analyze %d: %v", i, err)
		}
		if r.Answer != "ok" {
			t.Fatalf("answer = %q", r.Answer)
		}
	}
	if ag.calls != 1 {
		t.Fatalf("agent called %d times, want 1", ag.calls)
	}

	// A different query is a different cache key.
	if _, err := svc.AnalyzeFrame(context.Background(), f, "other query"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if ag.calls != 2 {
		t.Fatalf("agent called %d times, want 2", ag.calls)
	}
}

func TestAnalyzeFramePropagatesAgentError(t *testing.T) {
	boom := errors.New("provider down")
	svc := dispatch.New(&fakeAgent{err: boom}, nil, nil)
	_, err := svc.AnalyzeFrame(context.Background(), testFrame(t), "q")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped provider error", err)
	}
}

func TestAnalyzeFrameRejectsMismatchedChart(t *testing.T) {
	bad := &result.Result{Bar: &result.ChartSpec{Columns: []string{"a", "b"}, Data: []float64{1}}}
	svc := dispatch.New(&fakeAgent{res: bad}, cache.New(), nil)
	_, err := svc.AnalyzeFrame(context.Background(), testFrame(t), "q")
	var verr *result.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAnalyzeFrameDropsEmptyCharts(t *testing.T) {
	res := &result.Result{
		Answer: "nothing to plot",
		Bar:    &result.ChartSpec{},
		Line:   &result.ChartSpec{Columns: []string{"a"}, Data: []float64{1}},
	}
	svc := dispatch.New(&fakeAgent{res: res}, cache.New(), nil)
	r, err := svc.AnalyzeFrame(context.Background(), testFrame(t), "q")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Answer != "nothing to plot" {
		t.Fatalf("answer = %q, must survive the empty chart", r.Answer)
	}
	if r.Bar != nil {
		t.Error("empty bar section should be dropped")
	}
	if r.Line == nil {
		t.Error("populated line section should remain")
	}
}

func TestAnalyzeTextEchoesBoundedPrefix(t *testing.T) {
	svc := dispatch.New(nil, nil, nil)

	long := strings.Repeat("x", 5000)
	r, err := svc.AnalyzeText(context.Background(), long, "summarize")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Answer != long[:3000] {
		t.Fatalf("answer is not the unmodified 3000-char prefix (len=%d)", len(r.Answer))
	}

	short := "short document"
	r, err = svc.AnalyzeText(context.Background(), short, "summarize")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Answer != short {
		t.Fatalf("answer = %q, want the full short text", r.Answer)
	}
}
