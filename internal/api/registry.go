package api

import (
	"github.com/jtai-dev/record-matcher/pkg/recordmatcher"
	"github.com/jtai-dev/record-matcher/pkg/scorers"
)

// NewScorerRegistry returns a registry with exact_match plus every
// scorer pkg/scorers contributes, for servers and CLI commands that
// want the full stock set available by name.
func NewScorerRegistry() *recordmatcher.Registry {
	r := recordmatcher.NewRegistry()
	r.Register("levenshtein", scorers.LevenshteinRatio)
	r.Register("token_sort", scorers.TokenSortRatio)
	r.Register("token_set", scorers.TokenSetRatio)
	r.Register("normalized_exact", scorers.NormalizedExactMatch)
	return r
}
