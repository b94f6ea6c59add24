// Package cmd implements the speclab CLI commands using Cobra.
//
// Available commands:
//   - examples: Run the bundled example suites
//   - report: Re-render an exported JSON report, optionally on every change
//   - validate: Check report files against the JSON schema
//   - list: Print the suite and spec tree of a report
//   - diff: Compare two reports
//   - query: Extract values from a report with gjson paths
//   - history: Browse runs recorded in the SQLite history
//   - serve: Serve a report as HTML, JSON and Prometheus metrics
//   - init: Write a default .speclab.yml
//   - version: Show speclab version information
//
// Flags fall back to SPECLAB_* environment variables, then to the config
// file, then to built-in defaults.
package cmd
