package cache

import (
	"testing"

	"github.com/datalens-ai/datalens/internal/result"
)

func TestGetPut(t *testing.T) {
	c := New()
	key := Key("fp-1", "top categories")

	if _, ok := c.Get(key); ok {
		t.Fatal("expected miss on empty cache")
	}

	want := &result.Result{Answer: "category A leads"}
	c.Put(key, want)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got != want {
		t.Error("Get returned a different result than stored")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	// Replacement, not accumulation.
	c.Put(key, &result.Result{Answer: "revised"})
	if c.Len() != 1 {
		t.Errorf("Len() after replace = %d, want 1", c.Len())
	}
	got, _ = c.Get(key)
	if got.Answer != "revised" {
		t.Errorf("Answer = %q, want replaced value", got.Answer)
	}
}

func TestKeySeparatesQueryFromFingerprint(t *testing.T) {
	// The separator keeps ("ab", "c") and ("a", "bc") from colliding.
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("keys for different fingerprint/query splits collide")
	}
	if Key("fp", "q1") == Key("fp", "q2") {
		t.Error("keys for different queries collide")
	}
}
