// Package unitjson defines the JSON form of translation units exchanged
// with the external parser and emitter. The parser writes one Unit per
// source file; the rewriter reads them, lowers them to intentions and IR,
// and writes the final collection back in the same shape.
package unitjson

// Bundle is a list of units, the top-level document of a multi-unit file.
type Bundle struct {
	Units []Unit `json:"units"`
}

// Unit is one translation unit.
type Unit struct {
	Type        string       `json:"type"` // always "unit"
	Path        string       `json:"path"`
	Target      string       `json:"target,omitempty"`
	Directives  []string     `json:"directives,omitempty"`
	Imports     []string     `json:"imports,omitempty"`
	Types       []Type       `json:"types,omitempty"`
	Typealiases []Typealias  `json:"typealiases,omitempty"`
	Functions   []Function   `json:"functions,omitempty"`
	Variables   []Variable   `json:"variables,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	History     []string     `json:"history,omitempty"`
}

// Location represents a position in the source file.
type Location struct {
	Line int `json:"line"`
	Col  int `json:"col"`
}

// Diagnostic is a problem the parser reports about the unit.
type Diagnostic struct {
	Severity string   `json:"severity"` // "error" or "warning"
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

// Type is a class, extension, protocol, enum or struct.
type Type struct {
	Kind       string     `json:"kind"`
	Name       string     `json:"name"`
	Superclass string     `json:"superclass,omitempty"`
	Category   string     `json:"category,omitempty"`
	RawType    string     `json:"rawType,omitempty"`
	Protocols  []string   `json:"protocols,omitempty"`
	Access     string     `json:"access,omitempty"`
	Interface  bool       `json:"interface,omitempty"`
	Methods    []Method   `json:"methods,omitempty"`
	Properties []Property `json:"properties,omitempty"`
	Fields     []Field    `json:"fields,omitempty"`
	Inits      []Init     `json:"inits,omitempty"`
	Cases      []Case     `json:"cases,omitempty"`
	Location   Location   `json:"location"`
	History    []string   `json:"history,omitempty"`
}

// Param is a function or block parameter. An empty label is unlabeled.
type Param struct {
	Label string `json:"label,omitempty"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// Method is a method of a type. Selector, when set and Name is empty,
// supplies the name and parameter labels: "initWithFrame:style:" names
// initWithFrame with labels "" and style.
type Method struct {
	Name      string   `json:"name,omitempty"`
	Selector  string   `json:"selector,omitempty"`
	Static    bool     `json:"static,omitempty"`
	Optional  bool     `json:"optional,omitempty"`
	Params    []Param  `json:"params,omitempty"`
	Returns   string   `json:"returns,omitempty"`
	Body      *Node    `json:"body,omitempty"`
	Access    string   `json:"access,omitempty"`
	Interface bool     `json:"interface,omitempty"`
	Location  Location `json:"location"`
	History   []string `json:"history,omitempty"`
}

// Property is a declared property.
type Property struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Ownership  string   `json:"ownership,omitempty"`
	Static     bool     `json:"static,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
	Mode       string   `json:"mode,omitempty"` // stored (default), computed, getset
	Getter     *Node    `json:"getter,omitempty"`
	Setter     *Setter  `json:"setter,omitempty"`
	Access     string   `json:"access,omitempty"`
	Interface  bool     `json:"interface,omitempty"`
	Location   Location `json:"location"`
	History    []string `json:"history,omitempty"`
}

// Setter is a property setter body and the name of its value parameter.
type Setter struct {
	ValueName string `json:"valueName"`
	Body      *Node  `json:"body"`
}

// Field is an instance variable.
type Field struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Ownership string   `json:"ownership,omitempty"`
	Static    bool     `json:"static,omitempty"`
	Access    string   `json:"access,omitempty"`
	Interface bool     `json:"interface,omitempty"`
	Location  Location `json:"location"`
}

// Init is an initializer.
type Init struct {
	Params      []Param  `json:"params,omitempty"`
	Failable    bool     `json:"failable,omitempty"`
	Convenience bool     `json:"convenience,omitempty"`
	Body        *Node    `json:"body,omitempty"`
	Access      string   `json:"access,omitempty"`
	Interface   bool     `json:"interface,omitempty"`
	Location    Location `json:"location"`
	History     []string `json:"history,omitempty"`
}

// Case is an enum case with an optional raw value expression.
type Case struct {
	Name  string `json:"name"`
	Value *Node  `json:"value,omitempty"`
}

// Typealias is a file-level type alias.
type Typealias struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Function is a global function.
type Function struct {
	Name      string   `json:"name"`
	Static    bool     `json:"static,omitempty"`
	Params    []Param  `json:"params,omitempty"`
	Returns   string   `json:"returns,omitempty"`
	Body      *Node    `json:"body,omitempty"`
	Interface bool     `json:"interface,omitempty"`
	Location  Location `json:"location"`
	History   []string `json:"history,omitempty"`
}

// Variable is a global variable.
type Variable struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Ownership string   `json:"ownership,omitempty"`
	Const     bool     `json:"const,omitempty"`
	Init      *Node    `json:"init,omitempty"`
	Interface bool     `json:"interface,omitempty"`
	Location  Location `json:"location"`
}

// Node is a statement or expression. Kind selects the shape:
//
//	compound  children are statements
//	expr      children[0] is the expression
//	var       Name, Type, Ownership, Const; children[0] is the optional initializer
//	return    children[0] is the optional value
//	if        condition, then, optional else
//	while     condition, body
//	break, continue
//	ident     Name
//	const     Value
//	member    children[0].Name
//	call      children[0] is the callee, the rest are arguments labeled by Labels
//	send      message send: children[0] is the receiver, the rest are arguments
//	          matching the pieces of Selector
//	subscript base, index
//	binary    Op; lhs, rhs
//	unary     Op; operand
//	assign    Op; lhs, rhs
//	parens    inner
//	cast      Type; operand
//	ternary   condition, then, else
//	block     Params, Returns; children[0] is the body
type Node struct {
	Kind         string      `json:"kind"`
	Name         string      `json:"name,omitempty"`
	Op           string      `json:"op,omitempty"`
	Selector     string      `json:"selector,omitempty"`
	Value        interface{} `json:"value,omitempty"`
	Type         string      `json:"type,omitempty"`
	Ownership    string      `json:"ownership,omitempty"`
	Const        bool        `json:"const,omitempty"`
	Labels       []string    `json:"labels,omitempty"`
	Params       []Param     `json:"params,omitempty"`
	Returns      string      `json:"returns,omitempty"`
	ResolvedType string      `json:"resolvedType,omitempty"`
	Children     []*Node     `json:"children,omitempty"`
	Location     *Location   `json:"location,omitempty"`
}

// Node kinds.
const (
	KindCompound  = "compound"
	KindExpr      = "expr"
	KindVar       = "var"
	KindReturn    = "return"
	KindIf        = "if"
	KindWhile     = "while"
	KindBreak     = "break"
	KindContinue  = "continue"
	KindIdent     = "ident"
	KindConst     = "const"
	KindMember    = "member"
	KindCall      = "call"
	KindSend      = "send"
	KindSubscript = "subscript"
	KindBinary    = "binary"
	KindUnary     = "unary"
	KindAssign    = "assign"
	KindParens    = "parens"
	KindCast      = "cast"
	KindTernary   = "ternary"
	KindBlock     = "block"
)
