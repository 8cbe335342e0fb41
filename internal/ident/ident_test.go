package ident

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	id := New()
	if len(id) != Length {
		t.Errorf("id length = %d, want %d", len(id), Length)
	}
	for _, c := range id {
		if !strings.ContainsRune(hexDigits, c) {
			t.Errorf("id %q contains non-hex character %q", id, c)
		}
	}
}

func TestNewUniqueness(t *testing.T) {
	const n = 10000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id after %d generations: %s", i, id)
		}
		seen[id] = true
	}
}

func TestPseudoRandomFallback(t *testing.T) {
	id := pseudoRandomID()
	if len(id) != Length {
		t.Errorf("fallback id length = %d, want %d", len(id), Length)
	}
	if id == pseudoRandomID() {
		t.Error("fallback generated identical consecutive ids")
	}
}
