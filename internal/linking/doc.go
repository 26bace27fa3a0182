// Package linking builds graph views over a run's links: which X rows
// converged on the same Y row (duplicate clusters), and the full
// bipartite X-Y graph for a run, for callers that want to visualize or
// traverse match results rather than read them row by row.
package linking
