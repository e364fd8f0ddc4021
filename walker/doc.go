// Package walker traverses JSON Schema documents.
//
// The walker visits every sub-schema reachable through the standard
// applicator keywords (properties, items, allOf, $defs, ...) and also
// looks inside unknown keywords, since a schema may park definitions
// anywhere. Each node is visited once even when the document is cyclic.
//
// # Quick Start
//
//	err := walker.Walk(root, func(wc *walker.WalkContext, s *schema.Schema) walker.Action {
//	    if s.Has("$id") {
//	        fmt.Println(wc.JSONPath)
//	    }
//	    return walker.Continue
//	})
//
// # Flow Control
//
// Handlers return an [Action]:
//
//   - [Continue]: visit children and siblings normally
//   - [SkipChildren]: skip the children of the current node
//   - [Stop]: stop the entire walk immediately
//
// A handler is always called on a node before its children are read, so it
// may rewrite the node's keywords and the walk will follow the new shape.
package walker
