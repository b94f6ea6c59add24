// Package examples bundles small suites that exercise each engine feature.
// The CLI's examples command runs them; they double as living documentation.
package examples

import (
	"fmt"
	"sort"

	"github.com/abdul-hamid-achik/speclab/packages/core/suite"
)

// Example is a named, freshly buildable suite. Suites run once, so Build
// returns a new tree on every call.
type Example struct {
	Name        string
	Description string
	Build       func() *suite.Suite
}

var registry = map[string]Example{}

func register(name, description string, build func() *suite.Suite) {
	registry[name] = Example{Name: name, Description: description, Build: build}
}

// Names returns every example name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every example, sorted by name.
func All() []Example {
	out := make([]Example, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name])
	}
	return out
}

// Get looks up an example by name.
func Get(name string) (Example, error) {
	ex, ok := registry[name]
	if !ok {
		return Example{}, fmt.Errorf("unknown example %q (available: %v)", name, Names())
	}
	return ex, nil
}

// Combined grafts the named examples under one root suite so they run and
// report as a single tree. No names means every example.
func Combined(root string, names ...string) (*suite.Suite, error) {
	if len(names) == 0 {
		names = Names()
	}
	children := make([]*suite.Suite, 0, len(names))
	for _, name := range names {
		ex, err := Get(name)
		if err != nil {
			return nil, err
		}
		children = append(children, ex.Build())
	}
	return suite.Describe(root, func(c *suite.SuiteContext) {
		for _, child := range children {
			c.DescribeImport(child)
		}
	}), nil
}
