// Package cli holds the user-facing pieces of a deploy run: step outputs,
// the summary table, the cluster wait spinner and error diagnostics.
package cli
