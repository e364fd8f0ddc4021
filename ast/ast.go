// Package ast defines the intermediate representation produced by the
// parser and consumed by the optimizer and generator.
//
// A Node is a tagged union: Kind selects which of the variant fields are
// meaningful. Nodes are handled by pointer and compared by identity; the
// parser hands out the same *Node for every reference to one schema, so
// a cyclic schema becomes a cyclic graph of Nodes.
package ast

import "fmt"

// Kind identifies the variant of a Node.
type Kind int

const (
	Any Kind = iota
	Array
	Boolean
	CustomType
	Enum
	Interface
	Intersection
	Literal
	Never
	Null
	Number
	Object
	Reference
	String
	Tuple
	Union
	Unknown
)

var kindNames = [...]string{
	Any:          "ANY",
	Array:        "ARRAY",
	Boolean:      "BOOLEAN",
	CustomType:   "CUSTOM_TYPE",
	Enum:         "ENUM",
	Interface:    "INTERFACE",
	Intersection: "INTERSECTION",
	Literal:      "LITERAL",
	Never:        "NEVER",
	Null:         "NULL",
	Number:       "NUMBER",
	Object:       "OBJECT",
	Reference:    "REFERENCE",
	String:       "STRING",
	Tuple:        "TUPLE",
	Union:        "UNION",
	Unknown:      "UNKNOWN",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IndexSignature is the key name given to additionalProperties and to a
// lone pattern property.
const IndexSignature = "[k: string]"

// Node is one AST node.
type Node struct {
	Kind Kind

	// Comment is rendered as a JSDoc block above the declaration or
	// property.
	Comment    string
	Deprecated bool

	// KeyName is the property name when the node is the value of an object
	// member.
	KeyName string

	// StandaloneName is set when the node is emitted as its own top-level
	// declaration.
	StandaloneName string

	// Params holds the members of Union, Intersection and Tuple nodes.
	Params []*Node

	// Elem is the element type of an Array.
	Elem *Node

	// Value is the JSON value of a Literal.
	Value any

	// Raw is the verbatim type of a CustomType, or the target name of a
	// Reference.
	Raw string

	// Members are the Enum members.
	Members []EnumMember

	// Fields and SuperTypes describe an Interface.
	Fields     []InterfaceParam
	SuperTypes []*Node

	// Spread, MinItems and MaxItems describe a Tuple. MaxItems is -1 when
	// unbounded.
	Spread   *Node
	MinItems int
	MaxItems int
}

// EnumMember is one named member of an Enum.
type EnumMember struct {
	Name string
	// Value is always a Literal.
	Value *Node
}

// InterfaceParam is one member of an Interface.
type InterfaceParam struct {
	Node                    *Node
	KeyName                 string
	IsRequired              bool
	IsPatternProperty       bool
	IsUnreachableDefinition bool
}

// HasStandaloneName reports whether n is emitted as its own declaration.
func (n *Node) HasStandaloneName() bool {
	return n != nil && n.StandaloneName != ""
}

// HasComment reports whether n carries anything for a JSDoc block.
func (n *Node) HasComment() bool {
	return n != nil && (n.Comment != "" || n.Deprecated)
}

// IsNamedInterface reports whether n is an Interface with a standalone
// name.
func (n *Node) IsNamedInterface() bool {
	return n != nil && n.Kind == Interface && n.StandaloneName != ""
}

// Fill copies every field of src into n, keeping n's identity. The parser
// uses it to complete a placeholder that other nodes may already point to.
func (n *Node) Fill(src *Node) {
	*n = *src
}

// Children returns the nodes n refers to directly: params, element,
// spread, enum values, interface fields and super types.
func (n *Node) Children() []*Node {
	var out []*Node
	switch n.Kind {
	case Array:
		if n.Elem != nil {
			out = append(out, n.Elem)
		}
	case Union, Intersection:
		out = append(out, n.Params...)
	case Tuple:
		out = append(out, n.Params...)
		if n.Spread != nil {
			out = append(out, n.Spread)
		}
	case Enum:
		for _, m := range n.Members {
			out = append(out, m.Value)
		}
	case Interface:
		for _, f := range n.Fields {
			out = append(out, f.Node)
		}
		out = append(out, n.SuperTypes...)
	}
	return out
}

// Count returns the number of distinct nodes reachable from root,
// including root.
func Count(root *Node) int {
	seen := make(map[*Node]struct{})
	var visit func(*Node)
	visit = func(n *Node) {
		if n == nil {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		for _, c := range n.Children() {
			visit(c)
		}
	}
	visit(root)
	return len(seen)
}

// NewAny returns a fresh Any node.
func NewAny() *Node { return &Node{Kind: Any} }

// NewUnknown returns a fresh Unknown node.
func NewUnknown() *Node { return &Node{Kind: Unknown} }

// NewLiteral returns a Literal for a JSON value.
func NewLiteral(v any, keyName string) *Node {
	return &Node{Kind: Literal, Value: v, KeyName: keyName}
}

// Untyped returns Unknown when unknownAny is set and Any otherwise.
func Untyped(unknownAny bool) *Node {
	if unknownAny {
		return NewUnknown()
	}
	return NewAny()
}
