// Package issues provides the issue record reported by schema validation.
package issues

import (
	"fmt"

	"github.com/erraggy/json2ts/internal/severity"
)

// Issue is one rule violation found at one schema node.
type Issue struct {
	// Path is the JSON pointer to the node, e.g. "#/properties/tags"
	Path string `json:"path" yaml:"path"`
	// Key is the name the node was reached under ("" for the root)
	Key string `json:"key" yaml:"key"`
	// File is the schema file or name being validated
	File string `json:"file" yaml:"file"`
	// Rule is the text of the violated rule
	Rule string `json:"rule" yaml:"rule"`
	// Severity indicates how serious the issue is
	Severity severity.Severity `json:"severity" yaml:"severity"`
}

// Message returns the issue in the compiler's one-line error format.
func (i Issue) Message() string {
	return fmt.Sprintf("Error at key %q in file %q: %s", i.Key, i.File, i.Rule)
}

// String returns a terminal-friendly representation.
func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Severity.Symbol(), i.Path, i.Rule)
}

// Count returns how many issues have the given severity.
func Count(list []Issue, s severity.Severity) int {
	n := 0
	for _, i := range list {
		if i.Severity == s {
			n++
		}
	}
	return n
}
