// Package store provides SQLite-backed persistence for match runs.
//
// Every invocation of the matching engine is recorded as a run: the
// configuration it used, summary counts by status, and one link row
// per X record describing what it matched to (if anything). This lets
// the REST API and CLI list past runs and inspect individual links
// without re-running the engine.
package store
