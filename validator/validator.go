// Package validator checks a resolved, linked schema for the structural
// mistakes the compiler cannot recover from.
//
// Every rule runs over every node and all violations are collected, so a
// caller sees the complete list at once instead of fixing one at a time.
package validator

import (
	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/internal/issues"
	"github.com/erraggy/json2ts/internal/severity"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/tserrors"
	"github.com/erraggy/json2ts/walker"
)

// Validate applies Rules to root. fileName is only used in messages. The
// returned error is a *tserrors.ValidationError when any rule failed.
func Validate(root *schema.Schema, fileName string, logger json2ts.Logger) ([]issues.Issue, error) {
	var found []issues.Issue
	for _, rule := range Rules {
		err := walker.Walk(root, func(wc *walker.WalkContext, s *schema.Schema) walker.Action {
			if !rule.Check(s) {
				found = append(found, issues.Issue{
					Path:     wc.JSONPath,
					Key:      wc.Key,
					File:     fileName,
					Rule:     rule.Message,
					Severity: severity.SeverityError,
				})
			}
			return walker.Continue
		})
		if err != nil {
			return nil, err
		}
	}

	json2ts.OrNop(logger).Debug("validated schema",
		"rules", len(Rules),
		"violations", len(found))
	if len(found) == 0 {
		return nil, nil
	}
	return found, ToError(found)
}

// ToError folds error-severity issues into one ValidationError, or
// returns nil if there are none.
func ToError(list []issues.Issue) error {
	var violations []string
	for _, i := range list {
		if i.Severity == severity.SeverityError {
			violations = append(violations, i.Message())
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return &tserrors.ValidationError{Violations: violations}
}
