package scope

import "github.com/mehulgecg/SwiftRewriter/pkg/ir"

// ArraySource serves a fixed list of definitions. Name lookups return the
// first definition in list order.
type ArraySource struct {
	defs []*ir.CodeDefinition
}

// NewArraySource returns a source over defs.
func NewArraySource(defs []*ir.CodeDefinition) *ArraySource {
	return &ArraySource{defs: append([]*ir.CodeDefinition(nil), defs...)}
}

func (s *ArraySource) FirstDefinition(name string) *ir.CodeDefinition {
	for _, d := range s.defs {
		if d.Name == name {
			return d
		}
	}
	return nil
}

func (s *ArraySource) FunctionDefinitions(id ir.FunctionIdentifier) []*ir.CodeDefinition {
	var out []*ir.CodeDefinition
	for _, d := range s.defs {
		if d.Kind == ir.DefinitionFunction && d.Signature.Identifier() == id {
			out = append(out, d)
		}
	}
	return out
}

func (s *ArraySource) AllDefinitions() []*ir.CodeDefinition {
	return append([]*ir.CodeDefinition(nil), s.defs...)
}

// CompoundSource queries its sources in registration order. Single-result
// queries return the first hit; multi-result queries concatenate every hit.
type CompoundSource struct {
	sources []DefinitionsSource
}

// NewCompoundSource returns a compound over sources.
func NewCompoundSource(sources ...DefinitionsSource) *CompoundSource {
	c := &CompoundSource{}
	for _, s := range sources {
		c.AddSource(s)
	}
	return c
}

// AddSource registers s after the existing sources. Nil sources are ignored.
func (c *CompoundSource) AddSource(s DefinitionsSource) {
	if s != nil {
		c.sources = append(c.sources, s)
	}
}

func (c *CompoundSource) FirstDefinition(name string) *ir.CodeDefinition {
	for _, s := range c.sources {
		if d := s.FirstDefinition(name); d != nil {
			return d
		}
	}
	return nil
}

func (c *CompoundSource) FunctionDefinitions(id ir.FunctionIdentifier) []*ir.CodeDefinition {
	var out []*ir.CodeDefinition
	for _, s := range c.sources {
		out = append(out, s.FunctionDefinitions(id)...)
	}
	return out
}

func (c *CompoundSource) AllDefinitions() []*ir.CodeDefinition {
	var out []*ir.CodeDefinition
	for _, s := range c.sources {
		out = append(out, s.AllDefinitions()...)
	}
	return out
}

// Rebuild clears and recomputes every scope table in t from its variable
// declarations and block parameters. Declarations are recorded into the
// nearest enclosing scope; block parameters into the block literal's own
// scope.
func Rebuild(t *ir.Tree) {
	if t.Root() == ir.NoNode {
		return
	}
	t.Walk(t.Root(), func(id ir.NodeID) bool {
		if tbl := t.Definitions(id); tbl != nil {
			tbl.RemoveAll()
		}
		return true
	})
	t.Walk(t.Root(), func(id ir.NodeID) bool {
		n := t.Node(id)
		switch n.Kind {
		case ir.KindVarDecl:
			if p := t.Parent(id); p != ir.NoNode {
				if s := Nearest(t, p, nil); s != nil {
					s.RecordDefinition(ir.NewVariable(n.Name, t.Storage(id)))
				}
			}
		case ir.KindBlockLiteral:
			s := Of(t, id, nil)
			for _, p := range n.Params {
				s.RecordDefinition(ir.NewVariable(p.Name, ir.ValueStorage{Type: p.Type, Constant: true}))
			}
		}
		return true
	})
}

// RecordParameters records function parameters as constants in the scope of
// t's root. Call it after Rebuild, which clears the root table too.
func RecordParameters(t *ir.Tree, params []ir.ParameterSignature) {
	if t.Root() == ir.NoNode {
		return
	}
	s := Of(t, t.Root(), nil)
	if s == nil {
		return
	}
	for _, p := range params {
		s.RecordDefinition(ir.NewVariable(p.Name, ir.ValueStorage{Type: p.Type, Constant: true}))
	}
}
