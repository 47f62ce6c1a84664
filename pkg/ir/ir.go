// Package ir defines the Intermediate Representation shared by every stage of
// the rewriter. The IR sits between the external parser and the external
// emitter, providing:
// - An arena of expression/statement nodes with owned children and
//   non-owning parent references (see Tree)
// - A typed annotation store for derived facts (resolved types, scope tables,
//   identifier bindings)
// - Type references with a three-state nullability lattice
// - Code definitions and function identifiers used by scope lookup
package ir

// NodeID identifies a node within a single Tree. Zero is the sentinel.
type NodeID uint32

// NoNode is the invalid node id.
const NoNode NodeID = 0

// IsValid returns true if the ID is valid (non-zero).
func (id NodeID) IsValid() bool { return id != NoNode }

// Kind identifies the shape of a node.
type Kind uint8

const (
	KindInvalid Kind = iota

	// === Statements ===
	KindCompound // scope-bearing statement list
	KindExprStmt
	KindVarDecl
	KindReturn
	KindIf
	KindWhile
	KindBreak
	KindContinue

	// === Expressions ===
	KindIdentifier
	KindConstant
	KindMember    // base.Name
	KindCall      // callee(args...), children[0] is the callee
	KindSubscript // base[index]
	KindBinary
	KindUnary
	KindAssignment
	KindParens
	KindCast
	KindTernary
	KindBlockLiteral // scope-bearing closure
)

func (k Kind) String() string {
	switch k {
	case KindCompound:
		return "compound"
	case KindExprStmt:
		return "expr"
	case KindVarDecl:
		return "var"
	case KindReturn:
		return "return"
	case KindIf:
		return "if"
	case KindWhile:
		return "while"
	case KindBreak:
		return "break"
	case KindContinue:
		return "continue"
	case KindIdentifier:
		return "ident"
	case KindConstant:
		return "const"
	case KindMember:
		return "member"
	case KindCall:
		return "call"
	case KindSubscript:
		return "subscript"
	case KindBinary:
		return "binary"
	case KindUnary:
		return "unary"
	case KindAssignment:
		return "assign"
	case KindParens:
		return "parens"
	case KindCast:
		return "cast"
	case KindTernary:
		return "ternary"
	case KindBlockLiteral:
		return "block"
	default:
		return "invalid"
	}
}

// IsStatement reports whether nodes of this kind appear in statement position.
func (k Kind) IsStatement() bool {
	return k >= KindCompound && k <= KindContinue
}

// IsExpression reports whether nodes of this kind are expressions.
func (k Kind) IsExpression() bool {
	return k >= KindIdentifier && k <= KindBlockLiteral
}

// IsScope reports whether nodes of this kind own a definition table.
func (k Kind) IsScope() bool {
	return k == KindCompound || k == KindBlockLiteral
}

// Node is the payload of one IR node. Topology (parent and children) is kept
// private and can only change through Tree methods, which keep both sides of
// every edge consistent.
type Node struct {
	Kind Kind

	Name      string      // identifier, member or variable name
	Op        string      // operator for binary, unary and assignment nodes
	Labels    []string    // call argument labels, parallel to children[1:]
	Value     interface{} // constant payload: int64, float64, string, bool or nil
	Type      TypeRef     // declared type of a VarDecl, target type of a Cast
	Constant  bool        // VarDecl declared with let semantics
	Ownership Ownership   // VarDecl storage ownership
	Params    []ParameterSignature
	Return    TypeRef // BlockLiteral return type

	id       NodeID
	parent   NodeID
	children []NodeID
}

// ID returns the node's identity within its tree.
func (n *Node) ID() NodeID { return n.id }

// Arg is a labeled call argument.
type Arg struct {
	Label string // empty for unlabeled arguments
	Expr  NodeID
}

// Ownership defines the ownership of a variable storage.
type Ownership uint8

const (
	OwnershipStrong Ownership = iota
	OwnershipWeak
	OwnershipUnownedSafe
	OwnershipUnownedUnsafe
)

func (o Ownership) String() string {
	switch o {
	case OwnershipWeak:
		return "weak"
	case OwnershipUnownedSafe:
		return "unowned(safe)"
	case OwnershipUnownedUnsafe:
		return "unowned(unsafe)"
	default:
		return "strong"
	}
}

// ParseOwnership converts an ownership keyword. Unknown keywords map to strong.
func ParseOwnership(s string) Ownership {
	switch s {
	case "weak":
		return OwnershipWeak
	case "unowned", "unowned(safe)":
		return OwnershipUnownedSafe
	case "unowned(unsafe)":
		return OwnershipUnownedUnsafe
	default:
		return OwnershipStrong
	}
}

// ValueStorage describes how a variable is stored.
type ValueStorage struct {
	Type      TypeRef
	Ownership Ownership
	Constant  bool
}
