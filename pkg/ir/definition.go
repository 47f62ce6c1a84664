package ir

import "strings"

// ParameterSignature is one parameter of a function or closure.
type ParameterSignature struct {
	Label string // external label; empty for unlabeled (_)
	Name  string
	Type  TypeRef
}

// Param returns a parameter whose label equals its name.
func Param(name string, t TypeRef) ParameterSignature {
	return ParameterSignature{Label: name, Name: name, Type: t}
}

// Unlabeled returns a parameter without an external label.
func Unlabeled(name string, t TypeRef) ParameterSignature {
	return ParameterSignature{Name: name, Type: t}
}

// FunctionSignature describes a method or global function.
type FunctionSignature struct {
	Name       string
	Parameters []ParameterSignature
	ReturnType TypeRef
	IsStatic   bool
	IsMutating bool
}

// FunctionIdentifier is the key under which overloads are grouped: name,
// parameter labels and static-ness. Types are not part of the identity.
type FunctionIdentifier struct {
	Name     string
	Labels   string // labels joined with ':', "_" for unlabeled parameters
	IsStatic bool
}

func (f FunctionIdentifier) String() string {
	s := f.Name + "(" + f.Labels + ")"
	if f.IsStatic {
		s = "static " + s
	}
	return s
}

// Identifier returns the grouping key of the signature.
func (s FunctionSignature) Identifier() FunctionIdentifier {
	labels := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		labels[i] = p.Label
		if labels[i] == "" {
			labels[i] = "_"
		}
	}
	id := FunctionIdentifier{Name: s.Name, IsStatic: s.IsStatic}
	if len(labels) > 0 {
		id.Labels = strings.Join(labels, ":") + ":"
	}
	return id
}

// ClosureType returns the block type equivalent of the signature.
func (s FunctionSignature) ClosureType() TypeRef {
	params := make([]TypeRef, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = p.Type
	}
	ret := s.ReturnType
	if ret.IsZero() {
		ret = Void
	}
	return Block(ret, params...)
}

// Clone returns a copy that shares no parameter storage with s.
func (s FunctionSignature) Clone() FunctionSignature {
	s.Parameters = append([]ParameterSignature(nil), s.Parameters...)
	return s
}

// DefinitionKind distinguishes variables from functions.
type DefinitionKind uint8

const (
	DefinitionVariable DefinitionKind = iota
	DefinitionFunction
)

// CodeDefinition is something an identifier can resolve to.
type CodeDefinition struct {
	Kind      DefinitionKind
	Name      string
	Storage   ValueStorage      // DefinitionVariable
	Signature FunctionSignature // DefinitionFunction
}

// NewVariable returns a variable definition.
func NewVariable(name string, storage ValueStorage) *CodeDefinition {
	return &CodeDefinition{Kind: DefinitionVariable, Name: name, Storage: storage}
}

// NewFunction returns a function definition named after its signature.
func NewFunction(sig FunctionSignature) *CodeDefinition {
	return &CodeDefinition{Kind: DefinitionFunction, Name: sig.Name, Signature: sig}
}

// Type returns the value type of the definition. Functions report their
// closure type.
func (d *CodeDefinition) Type() TypeRef {
	if d.Kind == DefinitionFunction {
		return d.Signature.ClosureType()
	}
	return d.Storage.Type
}

// DefinitionTable is the set of definitions recorded in one scope. Lookups by
// name return the most recently recorded definition; every definition is kept
// in insertion order, and function definitions are also grouped by
// identifier.
type DefinitionTable struct {
	all       []*CodeDefinition
	byName    map[string]*CodeDefinition
	functions map[FunctionIdentifier][]*CodeDefinition
}

// NewDefinitionTable returns an empty table.
func NewDefinitionTable() *DefinitionTable {
	return &DefinitionTable{
		byName:    make(map[string]*CodeDefinition),
		functions: make(map[FunctionIdentifier][]*CodeDefinition),
	}
}

// Record adds a definition.
func (t *DefinitionTable) Record(d *CodeDefinition) {
	t.all = append(t.all, d)
	t.byName[d.Name] = d
	if d.Kind == DefinitionFunction {
		id := d.Signature.Identifier()
		t.functions[id] = append(t.functions[id], d)
	}
}

// RecordAll adds definitions in order.
func (t *DefinitionTable) RecordAll(defs []*CodeDefinition) {
	for _, d := range defs {
		t.Record(d)
	}
}

// First returns the definition recorded last under name, or nil.
func (t *DefinitionTable) First(name string) *CodeDefinition {
	return t.byName[name]
}

// Functions returns the function definitions grouped under id.
func (t *DefinitionTable) Functions(id FunctionIdentifier) []*CodeDefinition {
	return append([]*CodeDefinition(nil), t.functions[id]...)
}

// All returns every definition in recording order.
func (t *DefinitionTable) All() []*CodeDefinition {
	return append([]*CodeDefinition(nil), t.all...)
}

// Len returns the number of recorded definitions.
func (t *DefinitionTable) Len() int { return len(t.all) }

// RemoveAll clears the table.
func (t *DefinitionTable) RemoveAll() {
	t.all = nil
	t.byName = make(map[string]*CodeDefinition)
	t.functions = make(map[FunctionIdentifier][]*CodeDefinition)
}

// BindingKind classifies what an identifier was resolved to.
type BindingKind uint8

const (
	BindingNone BindingKind = iota
	BindingGlobal
	BindingLocal
	BindingMember
	BindingType
)

func (k BindingKind) String() string {
	switch k {
	case BindingGlobal:
		return "global"
	case BindingLocal:
		return "local"
	case BindingMember:
		return "member"
	case BindingType:
		return "type"
	default:
		return "none"
	}
}

// Binding records what an identifier or member access refers to.
type Binding struct {
	Kind       BindingKind
	Definition *CodeDefinition // BindingGlobal, BindingLocal
	TypeName   string          // owning type for BindingMember, the type for BindingType
	Member     string
}
