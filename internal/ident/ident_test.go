package ident

import (
	"strings"
	"testing"
)

func TestQuoteNumber(t *testing.T) {
	g, err := NewGenerator(1)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	id := g.QuoteNumber()
	if !strings.HasPrefix(id, "Q-") {
		t.Errorf("QuoteNumber() = %q, want Q- prefix", id)
	}
	if id != strings.ToUpper(id) {
		t.Errorf("QuoteNumber() = %q, want upper case", id)
	}
}

func TestQuoteNumberUnique(t *testing.T) {
	g, err := NewGenerator(1)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.QuoteNumber()
		if seen[id] {
			t.Fatalf("duplicate quote number %q", id)
		}
		seen[id] = true
	}
}

func TestNewGeneratorRejectsBadNode(t *testing.T) {
	if _, err := NewGenerator(-1); err == nil {
		t.Error("NewGenerator(-1) = nil error, want failure")
	}
}
