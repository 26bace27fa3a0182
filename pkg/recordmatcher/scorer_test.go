package recordmatcher

import "testing"

func TestExactMatchScorer(t *testing.T) {
	if got := ExactMatchScorer("ada", "ada"); got != 100 {
		t.Fatalf("ExactMatchScorer(equal) = %v, want 100", got)
	}
	if got := ExactMatchScorer("ada", "bob"); got != 0 {
		t.Fatalf("ExactMatchScorer(unequal) = %v, want 0", got)
	}
	if got := ExactMatchScorer("", ""); got != 100 {
		t.Fatalf("ExactMatchScorer(empty, empty) = %v, want 100", got)
	}
}

func TestNewRegistryHasExactMatch(t *testing.T) {
	r := NewRegistry()
	if !r.Has(DefaultScorerName) {
		t.Fatalf("new registry missing %q", DefaultScorerName)
	}
	scorer, ok := r.Lookup(DefaultScorerName)
	if !ok {
		t.Fatalf("Lookup(%q) failed", DefaultScorerName)
	}
	if scorer("x", "x") != 100 {
		t.Fatalf("resolved scorer behaved unexpectedly")
	}
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("always_zero", func(x, y string) float64 { return 0 })

	if !r.Has("always_zero") {
		t.Fatalf("Has(always_zero) = false after Register")
	}
	scorer, ok := r.Lookup("always_zero")
	if !ok || scorer("a", "b") != 0 {
		t.Fatalf("Lookup(always_zero) did not resolve the registered scorer")
	}

	if _, ok := r.Lookup("does_not_exist"); ok {
		t.Fatalf("Lookup of unregistered name reported ok")
	}
}

func TestRegistryNamesIncludesRegistered(t *testing.T) {
	r := NewRegistry()
	r.Register("custom", func(x, y string) float64 { return 0 })

	names := r.Names()
	found := false
	for _, n := range names {
		if n == "custom" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Names() = %v, missing custom", names)
	}
}
