// Package normalizer rewrites a linked schema into the canonical shape the
// parser expects.
//
// Normalization is an ordered table of small rules. The tree is walked
// once and every rule runs on each node, in table order, before that
// node's children are visited. Rules mutate nodes in place.
package normalizer

import (
	"github.com/erraggy/json2ts"
	"github.com/erraggy/json2ts/schema"
	"github.com/erraggy/json2ts/walker"
)

// Options holds the compiler options the rules consult.
type Options struct {
	// AdditionalProperties is the default for object schemas that do not
	// say.
	AdditionalProperties bool

	// IgnoreMinAndMaxItems drops array bounds instead of expanding tuples.
	IgnoreMinAndMaxItems bool

	// MaxItems caps maxItems - minItems; larger spans lose maxItems.
	// -1 disables the cap.
	MaxItems int

	// InferStringEnumKeysFromValues names string enums after their values.
	InferStringEnumKeysFromValues bool

	Logger json2ts.Logger
}

// ruleContext is the state shared by every rule invocation.
type ruleContext struct {
	fileName string
	opts     *Options
	derefs   map[*schema.Schema]string
}

// Rule is one normalization step.
type Rule struct {
	Name  string
	Apply func(s *schema.Schema, c *ruleContext) error
}

// Normalize applies the rule table to every node under root. fileName is
// the compile name used for the root's $id and in error messages. derefs
// is the resolver's record of nodes reached by $ref; entries are consumed
// as they are used.
func Normalize(root *schema.Schema, fileName string, derefs map[*schema.Schema]string, opts Options) error {
	if derefs == nil {
		derefs = make(map[*schema.Schema]string)
	}
	c := &ruleContext{fileName: fileName, opts: &opts, derefs: derefs}

	var (
		nodes    int
		ruleErr  error
		failedAt string
	)
	err := walker.Walk(root, func(wc *walker.WalkContext, s *schema.Schema) walker.Action {
		nodes++
		for _, rule := range rules {
			if err := rule.Apply(s, c); err != nil {
				ruleErr = err
				failedAt = wc.JSONPath
				return walker.Stop
			}
		}
		return walker.Continue
	})
	if err != nil {
		return err
	}

	log := json2ts.OrNop(opts.Logger)
	if ruleErr != nil {
		log.Debug("normalization failed", "path", failedAt, "error", ruleErr)
		return ruleErr
	}
	log.Debug("normalized schema", "nodes", nodes, "rules", len(rules))
	return nil
}

// RuleNames lists the rules in the order they are applied.
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}
