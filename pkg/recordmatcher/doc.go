// Package recordmatcher implements fuzzy record linkage between two
// in-memory tables.
//
// A caller supplies a left table (X, the side being annotated) and a
// right table (Y, the side providing candidate matches), wires a
// Config describing which columns compare against which, and calls
// Matcher.Match. The result is a copy of X with three columns added:
// a match status (MATCHED, REVIEW, AMBIGUOUS, UNMATCHED, DUPLICATE),
// the id(s) of the Y row(s) it matched, and the composite score.
//
// The package has no knowledge of where tables come from (CSV,
// spreadsheets, databases) and ships exactly one scorer, exact_match;
// everything else is supplied by the embedder through Register.
package recordmatcher
