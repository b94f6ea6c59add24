// Package output renders finished suite runs.
//
// Supported formats:
//   - spec: indented tree with colored durations (default)
//   - min: summary plus failure details only
//   - dot: one character per spec
//   - list: one line per spec with its full name
//   - rust: cargo test style listing
//   - tap: Test Anything Protocol
//   - json, json-pretty: machine readable report, loadable with LoadReport
//   - junit: JUnit XML for CI integration
//   - html: standalone HTML page
//   - table: go-pretty summary table
//
// Every reporter implements suite.Reporter and is created with New.
package output
