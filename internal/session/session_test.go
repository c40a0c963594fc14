package session

import (
	"testing"
	"time"

	"github.com/datalens-ai/datalens/internal/frame"
)

func TestContentExclusivity(t *testing.T) {
	f, err := frame.New([]string{"a"}, [][]any{{1}})
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	s := &Session{}
	if s.HasContent() {
		t.Fatal("fresh session has no content")
	}

	s.SetFrame(f, "data.csv")
	if s.Frame == nil || s.Text != "" {
		t.Fatal("frame ingestion must clear text")
	}

	s.SetText("hello", "memo.docx")
	if s.Frame != nil || s.Text != "hello" {
		t.Fatal("text ingestion must clear frame")
	}
	if s.Source != "memo.docx" {
		t.Fatalf("source = %q", s.Source)
	}
	if !s.HasContent() {
		t.Fatal("session with text has content")
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(time.Hour)
	s := m.Create()

	got, ok := m.Get(s.ID)
	if !ok || got.ID != s.ID {
		t.Fatal("created session not retrievable")
	}

	m.End(s.ID)
	if _, ok := m.Get(s.ID); ok {
		t.Fatal("ended session still retrievable")
	}
}

func TestManagerSweepsIdleSessions(t *testing.T) {
	now := time.Now()
	m := NewManager(time.Minute)
	m.now = func() time.Time { return now }

	s := m.Create()
	now = now.Add(2 * time.Minute)

	if _, ok := m.Get(s.ID); ok {
		t.Fatal("idle session should have been torn down")
	}
	if m.Len() != 0 {
		t.Fatalf("sessions = %d, want 0", m.Len())
	}
}
