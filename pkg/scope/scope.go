// Package scope implements definition tracking and chained identifier lookup
// over the IR. A scope is attached to a scope-bearing node (a compound
// statement or a block literal); lookups walk outward through enclosing
// scopes, with inner definitions shadowing outer ones.
package scope

import (
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// DefinitionsSource answers definition queries. Not-found is a normal
// outcome: lookups return nil or an empty slice, never an error.
type DefinitionsSource interface {
	FirstDefinition(name string) *ir.CodeDefinition
	FunctionDefinitions(id ir.FunctionIdentifier) []*ir.CodeDefinition
	AllDefinitions() []*ir.CodeDefinition
}

// CodeScope is a DefinitionsSource that also accepts new definitions.
type CodeScope interface {
	DefinitionsSource
	RecordDefinition(d *ir.CodeDefinition)
	RecordDefinitions(defs []*ir.CodeDefinition)
	RemoveAllDefinitions()
}

// Node is the scope attached to a scope-bearing node of a tree. It is a thin
// view: the definition table itself lives in the tree's annotation store.
type Node struct {
	tree *ir.Tree
	id   ir.NodeID
	// outer is consulted after the chain of enclosing nodes is exhausted,
	// typically the program's global definitions.
	outer DefinitionsSource
}

// Of returns the scope of a scope-bearing node, or nil for other nodes.
func Of(t *ir.Tree, id ir.NodeID, outer DefinitionsSource) *Node {
	if !t.Kind(id).IsScope() {
		return nil
	}
	return &Node{tree: t, id: id, outer: outer}
}

// Nearest returns the innermost scope containing id, including id itself when
// it bears a scope. Nodes outside any scope get nil.
func Nearest(t *ir.Tree, id ir.NodeID, outer DefinitionsSource) *Node {
	for cur := id; cur != ir.NoNode; cur = t.Parent(cur) {
		if t.Kind(cur).IsScope() {
			return &Node{tree: t, id: cur, outer: outer}
		}
	}
	return nil
}

// ID returns the node the scope is attached to.
func (s *Node) ID() ir.NodeID { return s.id }

// Enclosing returns the nearest scope strictly outside s, or nil.
func (s *Node) Enclosing() *Node {
	p := s.tree.Parent(s.id)
	if p == ir.NoNode {
		return nil
	}
	return Nearest(s.tree, p, s.outer)
}

func (s *Node) table() *ir.DefinitionTable { return s.tree.Definitions(s.id) }

// RecordDefinition records d in this scope.
func (s *Node) RecordDefinition(d *ir.CodeDefinition) { s.table().Record(d) }

// RecordDefinitions records defs in order.
func (s *Node) RecordDefinitions(defs []*ir.CodeDefinition) { s.table().RecordAll(defs) }

// RemoveAllDefinitions clears this scope only.
func (s *Node) RemoveAllDefinitions() { s.table().RemoveAll() }

// FirstDefinition checks the local table first, then the enclosing scopes,
// then the outer source.
func (s *Node) FirstDefinition(name string) *ir.CodeDefinition {
	if d := s.table().First(name); d != nil {
		return d
	}
	if enc := s.Enclosing(); enc != nil {
		return enc.FirstDefinition(name)
	}
	if s.outer != nil {
		return s.outer.FirstDefinition(name)
	}
	return nil
}

// FunctionDefinitions concatenates local matches with every enclosing match,
// innermost first, so overload resolution sees every visible candidate.
func (s *Node) FunctionDefinitions(id ir.FunctionIdentifier) []*ir.CodeDefinition {
	out := s.table().Functions(id)
	if enc := s.Enclosing(); enc != nil {
		return append(out, enc.FunctionDefinitions(id)...)
	}
	if s.outer != nil {
		out = append(out, s.outer.FunctionDefinitions(id)...)
	}
	return out
}

// AllDefinitions returns only the definitions recorded in this scope.
func (s *Node) AllDefinitions() []*ir.CodeDefinition { return s.table().All() }

// Table is a standalone CodeScope not attached to any tree.
type Table struct {
	defs *ir.DefinitionTable
}

// NewTable returns an empty standalone scope.
func NewTable() *Table { return &Table{defs: ir.NewDefinitionTable()} }

func (s *Table) RecordDefinition(d *ir.CodeDefinition)           { s.defs.Record(d) }
func (s *Table) RecordDefinitions(defs []*ir.CodeDefinition)     { s.defs.RecordAll(defs) }
func (s *Table) RemoveAllDefinitions()                           { s.defs.RemoveAll() }
func (s *Table) FirstDefinition(name string) *ir.CodeDefinition { return s.defs.First(name) }
func (s *Table) AllDefinitions() []*ir.CodeDefinition            { return s.defs.All() }

func (s *Table) FunctionDefinitions(id ir.FunctionIdentifier) []*ir.CodeDefinition {
	return s.defs.Functions(id)
}

// Empty is a source with no definitions.
type Empty struct{}

func (Empty) FirstDefinition(string) *ir.CodeDefinition                    { return nil }
func (Empty) FunctionDefinitions(ir.FunctionIdentifier) []*ir.CodeDefinition { return nil }
func (Empty) AllDefinitions() []*ir.CodeDefinition                          { return nil }
