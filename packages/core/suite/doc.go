// Package suite declares and executes nested test suites.
//
// Building and running are two separate phases. Describe and the
// SuiteContext methods run suite builders immediately and produce a tree of
// Suites and Specs; nothing in that tree executes until Run is called on the
// root. Run then walks the tree in a fixed sequence of passes:
//   - depth and order assignment
//   - only/skip resolution
//   - hook, state, precision and override propagation
//   - execution, aggregation and speed classification
//
// The finished tree is copied into an immutable Report and handed to the
// configured Reporter. Run returns nil when nothing failed and a *RunError
// otherwise; individual spec failures are recorded as data on the results.
//
// Execution is single-threaded. Hooks and spec bodies run one at a time in
// declaration order, and a panic in either aborts the run.
package suite
