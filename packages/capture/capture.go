package capture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Source selects where a capture reads from.
type Source int

const (
	// SourcePath reads a gjson path from the document root.
	SourcePath Source = iota
	// SourceSpec reads a field of the spec with a given full title.
	SourceSpec
)

// ErrInvalidJSON is returned for data that is not a JSON document.
var ErrInvalidJSON = errors.New("capture: invalid JSON")

// Capture is one parsed extraction expression.
type Capture struct {
	Name   string
	Source Source
	Spec   string
	Path   string
}

// Parse parses "[name=]path" or "[name=]spec[Full Title].field".
func Parse(expr string) (*Capture, error) {
	expr = strings.TrimSpace(expr)
	c := &Capture{Name: expr}

	if name, rest, ok := strings.Cut(expr, "="); ok && !strings.ContainsAny(name, "[(#") {
		c.Name = strings.TrimSpace(name)
		expr = strings.TrimSpace(rest)
	}
	if expr == "" || c.Name == "" {
		return nil, fmt.Errorf("capture: empty expression %q", c.Name)
	}

	if strings.HasPrefix(expr, "spec[") {
		end := strings.LastIndex(expr, "]")
		if end < len("spec[") {
			return nil, fmt.Errorf("capture: unterminated spec selector in %q", expr)
		}
		c.Source = SourceSpec
		c.Spec = expr[len("spec["):end]
		c.Path = strings.TrimPrefix(expr[end+1:], ".")
		return c, nil
	}

	c.Source = SourcePath
	c.Path = expr
	return c, nil
}

// SpecPath builds the gjson path to field of the spec titled fullTitle. An
// empty field selects the whole spec entry.
func SpecPath(fullTitle, field string) string {
	quoted := strings.ReplaceAll(fullTitle, `\`, `\\`)
	quoted = strings.ReplaceAll(quoted, `"`, `\"`)
	path := `tests.#(fullTitle=="` + quoted + `")`
	if field != "" {
		path += "." + field
	}
	return path
}

// Extractor reads captures from one report document.
type Extractor struct {
	doc gjson.Result
}

// NewExtractor parses data once for repeated extraction.
func NewExtractor(data []byte) (*Extractor, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return &Extractor{doc: gjson.ParseBytes(data)}, nil
}

// Extract returns the captured value and whether it was present.
func (e *Extractor) Extract(c *Capture) (any, bool) {
	switch c.Source {
	case SourcePath:
		return e.extractPath(c.Path)
	case SourceSpec:
		return e.extractPath(SpecPath(c.Spec, c.Path))
	default:
		return nil, false
	}
}

// Raw returns the JSON text at a capture, for callers that print it verbatim.
func (e *Extractor) Raw(c *Capture) (string, bool) {
	path := c.Path
	if c.Source == SourceSpec {
		path = SpecPath(c.Spec, c.Path)
	}
	if path == "" {
		return e.doc.Raw, true
	}
	r := e.doc.Get(path)
	if !r.Exists() {
		return "", false
	}
	return r.Raw, true
}

func (e *Extractor) extractPath(path string) (any, bool) {
	if path == "" {
		return e.doc.Value(), true
	}
	result := e.doc.Get(path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

// ExtractAll runs every capture against data, keyed by capture name.
// Missing values are left out.
func ExtractAll(data []byte, captures []*Capture) (map[string]any, error) {
	extractor, err := NewExtractor(data)
	if err != nil {
		return nil, err
	}
	results := make(map[string]any)
	for _, c := range captures {
		if value, ok := extractor.Extract(c); ok {
			results[c.Name] = value
		}
	}
	return results, nil
}
