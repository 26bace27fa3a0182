// Package cli provides small helpers shared across the recordmatcher
// command-line subcommands, built on Cobra.
package cli
