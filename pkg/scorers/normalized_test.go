package scorers

import "testing"

func TestNormalizedExactMatchCaseFolds(t *testing.T) {
	if got := NormalizedExactMatch("MULLER", "muller"); got != 100 {
		t.Fatalf("NormalizedExactMatch(case difference) = %v, want 100", got)
	}
}

func TestNormalizedExactMatchUnicodeNormalizes(t *testing.T) {
	// "e" + combining acute accent U+0301 (NFD) vs the precomposed
	// "é" (NFC) are distinct byte sequences that NFKC folds to
	// the same form.
	decomposed := "café"
	precomposed := "café"
	if decomposed == precomposed {
		t.Fatalf("test fixture is broken: the two forms must differ byte-for-byte")
	}
	if got := NormalizedExactMatch(decomposed, precomposed); got != 100 {
		t.Fatalf("NormalizedExactMatch(NFD vs NFC) = %v, want 100", got)
	}
}

func TestNormalizedExactMatchRejectsRealDifferences(t *testing.T) {
	if got := NormalizedExactMatch("Alice", "Bob"); got != 0 {
		t.Fatalf("NormalizedExactMatch(different names) = %v, want 0", got)
	}
}
