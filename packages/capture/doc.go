// Package capture extracts values from exported JSON reports.
//
// It supports capturing values from:
//   - Any gjson path over the report document (stats.failing, tests.#.fullTitle)
//   - A single spec, addressed by its full title (spec[Calculator adds].durationNs)
//
// A capture may be named with a name=expr prefix; the expression is the name
// otherwise.
package capture
