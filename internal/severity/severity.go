// Package severity provides the severity levels attached to schema issues.
//
// The levels are ordered from least to most severe: Info < Warning < Error.
// Only Error blocks compilation.
package severity

// Severity indicates how serious an issue is.
type Severity int

const (
	// SeverityInfo is a notice about a choice the compiler made.
	SeverityInfo Severity = iota

	// SeverityWarning is a questionable construct that still compiles.
	SeverityWarning

	// SeverityError is a rule violation that stops compilation.
	SeverityError
)

// String returns the lowercase name of the level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Symbol returns the glyph used when printing issues.
func (s Severity) Symbol() string {
	switch s {
	case SeverityError:
		return "✗"
	case SeverityWarning:
		return "⚠"
	case SeverityInfo:
		return "ℹ"
	default:
		return "?"
	}
}

// MarshalText encodes the level as its name, so JSON and YAML output show
// "error" rather than a number.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
