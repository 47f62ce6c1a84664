package ir

// annotations holds derived facts keyed by node id. Each fact kind has its own
// typed table. Nothing in here is needed for structural correctness: clearing
// every table and recomputing must give the same program.
type annotations struct {
	types    map[NodeID]TypeRef
	scopes   map[NodeID]*DefinitionTable
	bindings map[NodeID]Binding
}

func newAnnotations() annotations {
	return annotations{
		types:    make(map[NodeID]TypeRef),
		scopes:   make(map[NodeID]*DefinitionTable),
		bindings: make(map[NodeID]Binding),
	}
}

func (a *annotations) lazyInit() {
	if a.types == nil {
		*a = newAnnotations()
	}
}

func (a annotations) clone() annotations {
	out := newAnnotations()
	for k, v := range a.types {
		out.types[k] = v
	}
	for k, v := range a.scopes {
		tbl := NewDefinitionTable()
		tbl.RecordAll(v.All())
		out.scopes[k] = tbl
	}
	for k, v := range a.bindings {
		out.bindings[k] = v
	}
	return out
}

func (a *annotations) copyNode(from, to NodeID) {
	a.lazyInit()
	if t, ok := a.types[from]; ok {
		a.types[to] = t
	}
	if b, ok := a.bindings[from]; ok {
		a.bindings[to] = b
	}
	if s, ok := a.scopes[from]; ok {
		tbl := NewDefinitionTable()
		tbl.RecordAll(s.All())
		a.scopes[to] = tbl
	}
}

// ResolvedType returns the type a resolver attached to id.
func (t *Tree) ResolvedType(id NodeID) (TypeRef, bool) {
	ty, ok := t.ann.types[id]
	return ty, ok
}

// SetResolvedType records the resolved type of id.
func (t *Tree) SetResolvedType(id NodeID, ty TypeRef) {
	t.Node(id)
	t.ann.lazyInit()
	t.ann.types[id] = ty
}

// IsErrorTyped reports whether id resolved to the error type. Nodes without a
// resolved type are not error typed.
func (t *Tree) IsErrorTyped(id NodeID) bool {
	ty, ok := t.ann.types[id]
	return ok && ty.IsError()
}

// Definitions returns the definition table of a scope-bearing node, creating
// it on first use. Nodes that do not bear a scope return nil.
func (t *Tree) Definitions(id NodeID) *DefinitionTable {
	if !t.Kind(id).IsScope() {
		return nil
	}
	t.ann.lazyInit()
	tbl, ok := t.ann.scopes[id]
	if !ok {
		tbl = NewDefinitionTable()
		t.ann.scopes[id] = tbl
	}
	return tbl
}

// Binding returns what the identifier or member access id resolved to.
func (t *Tree) Binding(id NodeID) (Binding, bool) {
	b, ok := t.ann.bindings[id]
	return b, ok
}

// SetBinding caches the resolution of id.
func (t *Tree) SetBinding(id NodeID, b Binding) {
	t.Node(id)
	t.ann.lazyInit()
	t.ann.bindings[id] = b
}

// ClearAnnotations drops every derived fact in the tree.
func (t *Tree) ClearAnnotations() {
	t.ann = newAnnotations()
}
