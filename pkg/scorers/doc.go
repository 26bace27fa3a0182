// Package scorers provides similarity functions beyond exact_match for
// registration with a recordmatcher.Registry. None of them are part
// of the core matching contract; they exist so an embedder wiring a
// Config does not have to write a Levenshtein ratio or a Unicode
// normalizer from scratch.
package scorers
