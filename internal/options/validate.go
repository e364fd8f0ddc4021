// Package options provides shared utilities for option validation across packages.
package options

import (
	"fmt"
	"strings"

	"github.com/erraggy/json2ts/tserrors"
)

// Source is one way an input can be supplied.
type Source struct {
	Name string
	Set  bool
}

// ExactlyOne returns a *tserrors.ConfigError unless exactly one of the
// sources is set. The message names every source, and the ones set when
// there are several.
func ExactlyOne(sources ...Source) error {
	names := make([]string, 0, len(sources))
	var set []string
	for _, s := range sources {
		names = append(names, s.Name)
		if s.Set {
			set = append(set, s.Name)
		}
	}
	if len(set) == 1 {
		return nil
	}

	got := "none"
	if len(set) > 1 {
		got = strings.Join(set, " and ")
	}
	return &tserrors.ConfigError{
		Option:  "input",
		Message: fmt.Sprintf("exactly one of %s must be provided (got %s)", joinOr(names), got),
	}
}

// joinOr renders ["a", "b", "c"] as "a, b, or c".
func joinOr(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}
