package intention

import "github.com/mehulgecg/SwiftRewriter/pkg/ir"

// Snapshot is a detached deep copy of a collection's files. Type references
// are shared; bodies, histories and member lists are not.
type Snapshot struct {
	files []*File
}

// Snapshot copies the collection so a later Restore can undo every change
// made to it in between.
func (c *Collection) Snapshot() *Snapshot {
	s := &Snapshot{files: make([]*File, len(c.files))}
	for i, f := range c.files {
		s.files[i] = f.clone()
	}
	return s
}

// Restore replaces the collection's contents with a fresh copy of s. Files
// and intentions held from before the restore are no longer owned by c.
func (c *Collection) Restore(s *Snapshot) {
	for _, f := range c.files {
		f.collection = nil
	}
	c.files = c.files[:0]
	for _, f := range s.files {
		c.AddFile(f.clone())
	}
}

func (m Meta) clone() Meta {
	m.history.events = append([]Event(nil), m.history.events...)
	return m
}

func copyTree(t *ir.Tree) *ir.Tree {
	if t == nil {
		return nil
	}
	return t.Copy()
}

func (f *File) clone() *File {
	cp := &File{
		SourcePath: f.SourcePath,
		TargetPath: f.TargetPath,
		Index:      f.Index,
		Directives: append([]string(nil), f.Directives...),
		Imports:    append([]string(nil), f.Imports...),
	}
	cp.history.events = append([]Event(nil), f.history.events...)
	for _, t := range f.types {
		cp.AddType(t.clone())
	}
	for _, a := range f.typealiases {
		cp.AddTypealias(&Typealias{Meta: a.Meta.clone(), Name: a.Name, Type: a.Type})
	}
	for _, g := range f.functions {
		cp.AddFunction(&GlobalFunction{Meta: g.Meta.clone(), Signature: g.Signature.Clone(), Body: copyTree(g.Body)})
	}
	for _, v := range f.variables {
		cp.AddVariable(&GlobalVariable{Meta: v.Meta.clone(), Name: v.Name, Storage: v.Storage, Initializer: copyTree(v.Initializer)})
	}
	return cp
}

func (t *Type) clone() *Type {
	cp := &Type{
		Meta:       t.Meta.clone(),
		Kind:       t.Kind,
		Name:       t.Name,
		Superclass: t.Superclass,
		Category:   t.Category,
		RawType:    t.RawType,
		Protocols:  append([]string(nil), t.Protocols...),
	}
	for _, m := range t.methods {
		cp.AddMethod(&Method{Meta: m.Meta.clone(), Signature: m.Signature.Clone(), Body: copyTree(m.Body), IsOptional: m.IsOptional})
	}
	for _, p := range t.properties {
		np := *p
		np.owner = nil
		np.Meta = p.Meta.clone()
		np.Getter = copyTree(p.Getter)
		if p.Setter != nil {
			np.Setter = &Setter{ValueName: p.Setter.ValueName, Body: copyTree(p.Setter.Body)}
		}
		np.Attributes = append([]string(nil), p.Attributes...)
		cp.AddProperty(&np)
	}
	for _, f := range t.fields {
		cp.AddField(&Field{Meta: f.Meta.clone(), Name: f.Name, Storage: f.Storage, IsStatic: f.IsStatic})
	}
	for _, in := range t.inits {
		cp.AddInit(&Init{
			Meta:        in.Meta.clone(),
			Parameters:  append([]ir.ParameterSignature(nil), in.Parameters...),
			Failable:    in.Failable,
			Convenience: in.Convenience,
			Body:        copyTree(in.Body),
		})
	}
	for _, c := range t.cases {
		cp.AddCase(&EnumCase{Meta: c.Meta.clone(), Name: c.Name, Value: copyTree(c.Value)})
	}
	return cp
}
