package refs

import (
	"slices"
	"testing"
)

func TestSet(t *testing.T) {
	s := NewSet("serde", "tokio", "")
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2 (empty names are ignored)", len(s))
	}
	if !s.Has("serde") || s.Has("anyhow") {
		t.Errorf("Has() mismatch: %v", s.Sorted())
	}

	s.Merge(NewSet("anyhow", "serde"))
	want := []string{"anyhow", "serde", "tokio"}
	if got := s.Sorted(); !slices.Equal(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}
