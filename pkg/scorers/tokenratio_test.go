package scorers

import "testing"

func TestTokenSortRatioIgnoresWordOrder(t *testing.T) {
	got := TokenSortRatio("Jane Doe", "Doe Jane")
	if got != 100 {
		t.Fatalf("TokenSortRatio(reordered tokens) = %v, want 100", got)
	}
}

func TestTokenSortRatioPenalizesRealDifferences(t *testing.T) {
	got := TokenSortRatio("Jane Doe", "John Doe")
	if got == 100 || got <= 0 {
		t.Fatalf("TokenSortRatio(different first name) = %v, want strictly between 0 and 100", got)
	}
}

func TestTokenSetRatioIgnoresExtraTokens(t *testing.T) {
	got := TokenSetRatio("John Smith", "John Smith Jr")
	if got != 100 {
		t.Fatalf("TokenSetRatio(superset) = %v, want 100 (shared tokens dominate)", got)
	}
}

func TestTokenSetRatioNoSharedTokens(t *testing.T) {
	got := TokenSetRatio("Alice Brown", "Bob Carter")
	if got == 100 {
		t.Fatalf("TokenSetRatio(disjoint) = %v, want less than 100", got)
	}
}
