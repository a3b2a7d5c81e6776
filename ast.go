// ast.go — expression AST node model.
//
// The AST is a sealed sum type: one struct per node kind, all implementing
// the Node marker interface. Nodes are immutable trees; a parent exclusively
// owns its children. Nodes deliberately carry no source positions, so two
// parses of equivalent source compare equal with reflect.DeepEqual; start
// offsets live in the sidecar NodeMap (see nodemap.go).
package exprlang

// Node is the interface implemented by every AST node kind.
// The unexported marker method keeps the set of kinds closed.
type Node interface {
	node()
}

// LiteralKind discriminates Literal payloads.
type LiteralKind int

const (
	NumberLiteral LiteralKind = iota
	StringLiteral
)

// UnaryPosition tells whether a Unary operator was written before or after
// its operand.
type UnaryPosition int

const (
	PrefixUnary UnaryPosition = iota
	PostfixUnary
)

// Identifier is a bare name, resolved against the host model at evaluation.
type Identifier struct {
	Text string
}

// Literal is a numeric or string constant. For numbers Text holds the raw
// lexeme; for strings it holds the decoded content.
type Literal struct {
	Kind LiteralKind
	Text string
}

// Unary applies a prefix or postfix operator to one operand.
// Operator holds the canonical (alias-normalized) operator text.
type Unary struct {
	Position UnaryPosition
	Operator string
	Operand  Node
}

// Binary applies an infix operator to two operands.
// Operator holds the canonical (alias-normalized) operator text.
type Binary struct {
	Operator string
	Left     Node
	Right    Node
}

// Conditional is the ternary `cond ? whenTrue : whenFalse`.
type Conditional struct {
	Condition Node
	WhenTrue  Node
	WhenFalse Node
}

// Call invokes Callee with ordered Args.
type Call struct {
	Callee Node
	Args   []Node
}

// ElementAccess is `object[index]`.
type ElementAccess struct {
	Object Node
	Index  Node
}

// PropertyAccess is `object.property` (or `object::property`).
type PropertyAccess struct {
	Object   Node
	Property string
}

// Parenthesized wraps an inner expression; evaluation passes through.
type Parenthesized struct {
	Inner Node
}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	Items []Node
}

// MapEntry is one `key: value` pair of a MapLiteral.
type MapEntry struct {
	Key   string
	Value Node
}

// MapLiteral is `{k1: v1, k2: v2, ...}` with entry order preserved.
type MapLiteral struct {
	Entries []MapEntry
}

func (*Identifier) node()     {}
func (*Literal) node()        {}
func (*Unary) node()          {}
func (*Binary) node()         {}
func (*Conditional) node()    {}
func (*Call) node()           {}
func (*ElementAccess) node()  {}
func (*PropertyAccess) node() {}
func (*Parenthesized) node()  {}
func (*ArrayLiteral) node()   {}
func (*MapLiteral) node()     {}
