package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/datalens-ai/datalens/internal/frame"
)

func TestLookupProvider(t *testing.T) {
	p, err := LookupProvider("deepseek")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !p.ValidModel("deepseek-chat") {
		t.Error("deepseek-chat should be valid")
	}
	if p.ValidModel("gpt-4o") {
		t.Error("gpt-4o does not belong to deepseek")
	}
	if _, err := LookupProvider("acme"); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewOpenAIClientValidation(t *testing.T) {
	p, _ := LookupProvider("openai")
	if _, err := NewOpenAIClient(p, "gpt-4o", ""); err == nil {
		t.Fatal("expected error for missing key")
	}
	if _, err := NewOpenAIClient(p, "made-up-model", "k"); err == nil {
		t.Fatal("expected error for model outside the option set")
	}
	c, err := NewOpenAIClient(p, "", "k")
	if err != nil {
		t.Fatalf("default model: %v", err)
	}
	if c.model != p.DefaultModel() {
		t.Fatalf("model = %q, want %q", c.model, p.DefaultModel())
	}
}

func TestAnalyzeDecodesMapping(t *testing.T) {
	var gotUser string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		gotUser = req.Messages[len(req.Messages)-1].Content

		payload := `{"answer":"north leads","bar":{"columns":["north","south"],"data":[10,20]}}`
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": payload}},
			},
		})
	}))
	defer srv.Close()

	f, err := frame.New([]string{"region", "amount"}, [][]any{{"north", 10}, {"south", 20}})
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	c := NewOpenAIClientForBaseURL(srv.URL, "gpt-4o-mini", "test-key")
	r, err := c.Analyze(context.Background(), f, "which region leads?")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Answer != "north leads" {
		t.Errorf("answer = %q", r.Answer)
	}
	if r.Bar == nil || len(r.Bar.Columns) != 2 {
		t.Errorf("bar = %+v", r.Bar)
	}
	if !strings.Contains(gotUser, "which region leads?") {
		t.Errorf("query missing from user prompt: %q", gotUser)
	}
	if !strings.Contains(gotUser, `"region"`) {
		t.Errorf("frame missing from user prompt: %q", gotUser)
	}
}

func TestAnalyzeWrapsProviderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	f, _ := frame.New([]string{"a"}, [][]any{{1}})
	c := NewOpenAIClientForBaseURL(srv.URL, "m", "k")
	_, err := c.Analyze(context.Background(), f, "q")
	if err == nil {
		t.Fatal("expected error")
	}
	var aerr *Error
	if !errors.As(err, &aerr) {
		t.Fatalf("expected agent.Error, got %T: %v", err, err)
	}
}
