package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/datalens-ai/datalens/internal/agent"
	"github.com/datalens-ai/datalens/internal/config"
	"github.com/datalens-ai/datalens/internal/frame"
	"github.com/datalens-ai/datalens/internal/result"
)

type stubAgent struct {
	res   *result.Result
	err   error
	calls int
}

func (a *stubAgent) Analyze(_ context.Context, _ *frame.Frame, _ string) (*result.Result, error) {
	a.calls++
	return a.res, a.err
}

func testConfig() *config.Global {
	return &config.Global{
		ServerPort:     0,
		SessionIdleMin: 60,
		HTTPTimeoutSec: 5,
		AnswerDelayMs:  0,
		PreviewRows:    2000,
		PreviewChars:   2000,
	}
}

func newTestServer(t *testing.T, ag agent.Client) (*Server, *httptest.Server, *http.Client) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(testConfig(), logger)
	if ag != nil {
		s.newAgent = func(_, _, _ string) (agent.Client, error) { return ag, nil }
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("jar: %v", err)
	}
	return s, ts, &http.Client{Jar: jar}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.PostForm(target, form)
	if err != nil {
		t.Fatalf("post %s: %v", target, err)
	}
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func uploadCSV(t *testing.T, client *http.Client, base, csv string) *http.Response {
	t.Helper()
	var buf strings.Builder
	const boundary = "testboundary"
	fmt.Fprintf(&buf, "--%s\r\nContent-Disposition: form-data; name=\"file_type\"\r\n\r\ncsv\r\n", boundary)
	fmt.Fprintf(&buf, "--%s\r\nContent-Disposition: form-data; name=\"file\"; filename=\"data.csv\"\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/csv\r\n\r\n%s\r\n--%s--\r\n", csv, boundary)

	req, err := http.NewRequest(http.MethodPost, base+"/upload", strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	_, ts, client := newTestServer(t, nil)
	resp, err := client.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body(t, resp), "ok") {
		t.Fatal("unexpected health body")
	}
}

func TestAnalyzeValidation(t *testing.T) {
	_, ts, client := newTestServer(t, nil)

	// No content source at all.
	resp := postForm(t, client, ts.URL+"/analyze", url.Values{"query": {"anything"}})
	if !strings.Contains(body(t, resp), "请先提供数据源") {
		t.Fatal("missing-source warning not shown")
	}

	// Content present but query empty.
	body(t, uploadCSV(t, client, ts.URL, "a,b\n1,2\n"))
	resp = postForm(t, client, ts.URL+"/analyze", url.Values{"query": {"   "}})
	if !strings.Contains(body(t, resp), "请输入分析需求") {
		t.Fatal("empty-query warning not shown")
	}
}

func TestUploadPreviewAndAnalyze(t *testing.T) {
	ag := &stubAgent{res: &result.Result{
		Answer: "the answer",
		Table:  mustFrame(t, []string{"k", "v"}, [][]any{{"x", 1.0}}),
		Bar:    &result.ChartSpec{Columns: []string{"a"}, Data: []float64{1}},
		Line:   &result.ChartSpec{Columns: []string{"a"}, Data: []float64{1}},
	}}
	_, ts, client := newTestServer(t, ag)

	page := body(t, uploadCSV(t, client, ts.URL, "region,amount\nnorth,10\nsouth,20\n"))
	if !strings.Contains(page, "region") || !strings.Contains(page, "north") {
		t.Fatalf("preview table missing: %s", page)
	}

	page = body(t, postForm(t, client, ts.URL+"/analyze", url.Values{
		"query":    {"which region leads?"},
		"provider": {"openai"},
	}))
	for _, want := range []string{"分析结果", "the answer", "数据表格", "/charts/bar", "/charts/line"} {
		if !strings.Contains(page, want) {
			t.Errorf("results page missing %q", want)
		}
	}
	if ag.calls != 1 {
		t.Fatalf("agent calls = %d", ag.calls)
	}

	// Charts of the last analysis are served standalone.
	resp, err := client.Get(ts.URL + "/charts/bar")
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chart status = %d", resp.StatusCode)
	}
	body(t, resp)
}

func TestAnalyzeRendersOnlyPresentSections(t *testing.T) {
	ag := &stubAgent{res: &result.Result{
		Bar: &result.ChartSpec{Columns: []string{"a", "b"}, Data: []float64{1, 2}},
	}}
	_, ts, client := newTestServer(t, ag)

	body(t, uploadCSV(t, client, ts.URL, "a,b\n1,2\n"))
	page := body(t, postForm(t, client, ts.URL+"/analyze", url.Values{"query": {"q"}}))

	if !strings.Contains(page, "/charts/bar") {
		t.Error("bar section missing")
	}
	for _, absent := range []string{"分析结果", "数据表格", "/charts/line"} {
		if strings.Contains(page, absent) {
			t.Errorf("unexpected section %q in bar-only result", absent)
		}
	}
}

func TestAnalyzeSurfacesAgentError(t *testing.T) {
	ag := &stubAgent{err: fmt.Errorf("quota exhausted")}
	_, ts, client := newTestServer(t, ag)

	body(t, uploadCSV(t, client, ts.URL, "a\n1\n"))
	page := body(t, postForm(t, client, ts.URL+"/analyze", url.Values{"query": {"q"}}))
	if !strings.Contains(page, "分析过程中发生错误") {
		t.Fatal("agent error not surfaced")
	}

	// Session content survives for a retry.
	home := body(t, mustGet(t, client, ts.URL+"/"))
	if !strings.Contains(home, "数据预览") {
		t.Fatal("session content lost after agent error")
	}
}

func TestTextContentAnalyzeEchoes(t *testing.T) {
	_, ts, client := newTestServer(t, nil)

	// HTML upload becomes a text blob; its analysis needs no agent.
	var buf strings.Builder
	const boundary = "tb2"
	fmt.Fprintf(&buf, "--%s\r\nContent-Disposition: form-data; name=\"file_type\"\r\n\r\nhtml\r\n", boundary)
	fmt.Fprintf(&buf, "--%s\r\nContent-Disposition: form-data; name=\"file\"; filename=\"page.html\"\r\n\r\n", boundary)
	fmt.Fprintf(&buf, "<html><body><p>plain words only</p></body></html>\r\n--%s--\r\n", boundary)
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/upload", strings.NewReader(buf.String()))
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	body(t, resp)

	page := body(t, postForm(t, client, ts.URL+"/analyze", url.Values{"query": {"summarize"}}))
	if !strings.Contains(page, "plain words only") {
		t.Fatalf("echoed text missing: %s", page)
	}
}

func TestFetchInstallsFirstTable(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><body><table><tr><th>c</th></tr><tr><td>7</td></tr></table></body></html>`)
	}))
	defer remote.Close()

	_, ts, client := newTestServer(t, nil)
	page := body(t, postForm(t, client, ts.URL+"/fetch", url.Values{"url": {remote.URL}}))
	if !strings.Contains(page, "1 个表格") {
		t.Fatalf("table count notice missing: %s", page)
	}
	if !strings.Contains(page, "<th>c</th>") {
		t.Fatal("frame preview missing")
	}
}

func mustGet(t *testing.T, client *http.Client, target string) *http.Response {
	t.Helper()
	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("get %s: %v", target, err)
	}
	return resp
}

func mustFrame(t *testing.T, cols []string, rows [][]any) *frame.Frame {
	t.Helper()
	f, err := frame.New(cols, rows)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	return f
}
