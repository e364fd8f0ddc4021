// Package tserrors defines the error types returned by json2ts.
//
// Every failure surfaced by the compiler is one of the types below, and each
// type matches a package sentinel through errors.Is:
//
//	_, err := compiler.CompileFile(ctx, "pet.json")
//	if errors.Is(err, tserrors.ErrValidation) {
//	    var vErr *tserrors.ValidationError
//	    errors.As(err, &vErr)
//	    for _, v := range vErr.Violations {
//	        fmt.Println(v)
//	    }
//	}
package tserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates the input document could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a $ref could not be resolved, or two
	// spellings of the same keyword (id/$id, definitions/$defs) disagree.
	ErrReference = errors.New("reference error")

	// ErrPathTraversal indicates a file $ref escaped the working directory.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrValidation indicates the schema violates one or more
	// compiler-specific rules.
	ErrValidation = errors.New("validation error")

	// ErrResourceLimit indicates a configured limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates invalid options.
	ErrConfig = errors.New("configuration error")

	// ErrInternal indicates a bug: a state the pipeline should never reach.
	ErrInternal = errors.New("internal error")
)

// ParseError reports a document that is not well-formed JSON or YAML.
type ParseError struct {
	// Source is the file path, URL or name of the document
	Source string
	// Line is the 1-based line of the failure (0 if unknown)
	Line int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ReferenceError reports a $ref that failed to resolve, or a keyword
// conflict detected while normalizing.
type ReferenceError struct {
	// Ref is the reference string (or keyword) involved
	Ref string
	// RefType is "local", "file", "http" or "keyword"
	RefType string
	// IsPathTraversal is true when a file ref left the working directory
	IsPathTraversal bool
	// Message provides additional context
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.IsPathTraversal {
		msg = "path traversal detected"
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ReferenceError) Unwrap() error { return e.Cause }

// Is matches ErrReference, and ErrPathTraversal when the flag is set.
func (e *ReferenceError) Is(target error) bool {
	if target == ErrReference {
		return true
	}
	return target == ErrPathTraversal && e.IsPathTraversal
}

// ValidationError aggregates every rule violation found in a schema.
type ValidationError struct {
	// Violations holds one formatted message per offending node and rule
	Violations []string
}

// Error returns all violations, one per line.
func (e *ValidationError) Error() string {
	switch len(e.Violations) {
	case 0:
		return "validation error"
	case 1:
		return "validation error: " + e.Violations[0]
	}
	return fmt.Sprintf("validation error: %d violations:\n  %s",
		len(e.Violations), strings.Join(e.Violations, "\n  "))
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ResourceLimitError reports that a configured limit was exceeded.
type ResourceLimitError struct {
	// ResourceType is one of "ref_depth", "cached_documents", "file_size"
	ResourceType string
	// Limit is the configured maximum
	Limit int64
	// Actual is the observed value (0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target is ErrResourceLimit.
func (e *ResourceLimitError) Is(target error) bool { return target == ErrResourceLimit }

// ConfigError reports an invalid option value.
type ConfigError struct {
	// Option is the offending option name
	Option string
	// Value is the rejected value (may be nil)
	Value any
	// Message describes the problem
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// InternalError reports an unreachable pipeline state, such as a $ref
// surviving resolution or an AST variant the generator does not know.
type InternalError struct {
	// Stage names the pipeline stage ("parser", "generator", ...)
	Stage string
	// Message describes the state
	Message string
}

// Error returns a human-readable error message.
func (e *InternalError) Error() string {
	msg := "internal error"
	if e.Stage != "" {
		msg += " in " + e.Stage
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target is ErrInternal.
func (e *InternalError) Is(target error) bool { return target == ErrInternal }
