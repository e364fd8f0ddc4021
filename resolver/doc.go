// Package resolver inlines every $ref in a schema document.
//
// Resolution is by identity: a $ref node is replaced with the node it
// points at, so two references to the same definition share one
// *schema.Schema and a recursive definition becomes a pointer cycle. A
// $ref with sibling keywords is replaced by a new node holding the
// siblings followed by the target's remaining keywords.
//
// Local (#/...), file (relative to the working directory or to the
// referring document) and HTTP(S) references are supported. HTTP is off
// unless [Options.ResolveHTTPRefs] is set.
//
// For every node reached through a reference the resolver records the
// $ref string in [Result.DereferencedPaths]; the normalizer names
// otherwise anonymous definitions from it.
package resolver
