package cas

import "testing"

func TestHashOf_StableAcrossKeyOrder(t *testing.T) {
	a := map[string]any{"b": 2, "a": 1}
	b := map[string]any{"a": 1, "b": 2}

	ha, err := HashOf(a)
	if err != nil {
		t.Fatalf("HashOf(a): %v", err)
	}
	hb, err := HashOf(b)
	if err != nil {
		t.Fatalf("HashOf(b): %v", err)
	}
	if ha != hb {
		t.Fatalf("want identical hashes for maps differing only in key order, got %s vs %s", ha, hb)
	}
}

func TestHashOf_DiffersOnContent(t *testing.T) {
	ha, _ := HashOf(map[string]any{"a": 1})
	hb, _ := HashOf(map[string]any{"a": 2})
	if ha == hb {
		t.Fatalf("want different hashes for different content")
	}
}
