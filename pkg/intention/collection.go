package intention

import (
	"fmt"
	"sort"

	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// Collection is the whole program: every file intention of one run.
type Collection struct {
	files []*File
}

// NewCollection returns a collection owning files, in order.
func NewCollection(files ...*File) *Collection {
	c := &Collection{}
	for _, f := range files {
		c.AddFile(f)
	}
	return c
}

// Files returns the files in collection order.
func (c *Collection) Files() []*File { return append([]*File(nil), c.files...) }

// AddFile appends f, moving it out of its previous collection.
func (c *Collection) AddFile(f *File) {
	if f.collection != nil {
		f.collection.RemoveFiles(func(x *File) bool { return x == f })
	}
	f.collection = c
	c.files = append(c.files, f)
}

// RemoveFiles detaches every file matching pred.
func (c *Collection) RemoveFiles(pred func(*File) bool) {
	kept := c.files[:0]
	for _, f := range c.files {
		if pred(f) {
			f.collection = nil
			continue
		}
		kept = append(kept, f)
	}
	c.files = clearTail(c.files, kept)
}

// SortByIndex orders files by their submission index. The sort is stable so
// files sharing an index keep their relative order.
func (c *Collection) SortByIndex() {
	sort.SliceStable(c.files, func(i, j int) bool { return c.files[i].Index < c.files[j].Index })
}

// FileNamed returns the first file with the given source path.
func (c *Collection) FileNamed(source string) *File {
	for _, f := range c.files {
		if f.SourcePath == source {
			return f
		}
	}
	return nil
}

// Types returns every type in file order.
func (c *Collection) Types() []*Type {
	var out []*Type
	for _, f := range c.files {
		out = append(out, f.types...)
	}
	return out
}

// TypesNamed returns every type intention named name, extensions included.
func (c *Collection) TypesNamed(name string) []*Type {
	var out []*Type
	for _, f := range c.files {
		for _, t := range f.types {
			if t.Name == name {
				out = append(out, t)
			}
		}
	}
	return out
}

// Functions returns every global function in file order.
func (c *Collection) Functions() []*GlobalFunction {
	var out []*GlobalFunction
	for _, f := range c.files {
		out = append(out, f.functions...)
	}
	return out
}

// Variables returns every global variable in file order.
func (c *Collection) Variables() []*GlobalVariable {
	var out []*GlobalVariable
	for _, f := range c.files {
		out = append(out, f.variables...)
	}
	return out
}

// Aliases returns the program's typealiases as an alias resolver. When a name
// is declared twice the first declaration wins.
func (c *Collection) Aliases() ir.Aliases {
	out := ir.Aliases{}
	for _, f := range c.files {
		for _, a := range f.typealiases {
			if _, dup := out[a.Name]; !dup {
				out[a.Name] = a.Type
			}
		}
	}
	return out
}

// GlobalDefinitions returns the program's global functions and variables as
// code definitions, in file order.
func (c *Collection) GlobalDefinitions() []*ir.CodeDefinition {
	var out []*ir.CodeDefinition
	for _, f := range c.files {
		for _, v := range f.variables {
			out = append(out, ir.NewVariable(v.Name, v.Storage))
		}
		for _, g := range f.functions {
			out = append(out, ir.NewFunction(g.Signature))
		}
	}
	return out
}

// Validate checks every back-reference in the collection and the structure of
// every body tree.
func (c *Collection) Validate() error {
	for _, f := range c.files {
		if f.collection != c {
			return fmt.Errorf("intention: file %s: not owned by this collection", f.SourcePath)
		}
		for _, t := range f.types {
			if t.file != f {
				return fmt.Errorf("intention: %s: type %s: owner mismatch", f.SourcePath, t.Name)
			}
			if err := t.validate(); err != nil {
				return fmt.Errorf("intention: %s: %w", f.SourcePath, err)
			}
		}
		for _, a := range f.typealiases {
			if a.file != f {
				return fmt.Errorf("intention: %s: typealias %s: owner mismatch", f.SourcePath, a.Name)
			}
		}
		for _, g := range f.functions {
			if g.file != f {
				return fmt.Errorf("intention: %s: function %s: owner mismatch", f.SourcePath, g.Name())
			}
			if err := validateBody(g.Body); err != nil {
				return fmt.Errorf("intention: %s: function %s: %w", f.SourcePath, g.Name(), err)
			}
		}
		for _, v := range f.variables {
			if v.file != f {
				return fmt.Errorf("intention: %s: variable %s: owner mismatch", f.SourcePath, v.Name)
			}
			if err := validateBody(v.Initializer); err != nil {
				return fmt.Errorf("intention: %s: variable %s: %w", f.SourcePath, v.Name, err)
			}
		}
	}
	return nil
}

func (t *Type) validate() error {
	for _, m := range t.methods {
		if m.owner != t {
			return fmt.Errorf("method %s.%s: owner mismatch", t.Name, m.Name())
		}
		if err := validateBody(m.Body); err != nil {
			return fmt.Errorf("method %s.%s: %w", t.Name, m.Name(), err)
		}
	}
	for _, p := range t.properties {
		if p.owner != t {
			return fmt.Errorf("property %s.%s: owner mismatch", t.Name, p.Name)
		}
		if err := validateBody(p.Getter); err != nil {
			return fmt.Errorf("property %s.%s getter: %w", t.Name, p.Name, err)
		}
		if p.Setter != nil {
			if err := validateBody(p.Setter.Body); err != nil {
				return fmt.Errorf("property %s.%s setter: %w", t.Name, p.Name, err)
			}
		}
	}
	for _, f := range t.fields {
		if f.owner != t {
			return fmt.Errorf("field %s.%s: owner mismatch", t.Name, f.Name)
		}
	}
	for _, in := range t.inits {
		if in.owner != t {
			return fmt.Errorf("init of %s: owner mismatch", t.Name)
		}
		if err := validateBody(in.Body); err != nil {
			return fmt.Errorf("init of %s: %w", t.Name, err)
		}
	}
	for _, ec := range t.cases {
		if ec.owner != t {
			return fmt.Errorf("case %s.%s: owner mismatch", t.Name, ec.Name)
		}
	}
	return nil
}

func validateBody(t *ir.Tree) error {
	if t == nil {
		return nil
	}
	return t.Validate()
}

// Bodies calls fn for every body tree in the file: method, initializer,
// accessor and global bodies plus global initializers, in declaration order.
// The label names the owner for diagnostics.
func (f *File) Bodies(fn func(label string, body *ir.Tree)) {
	for _, t := range f.types {
		for _, m := range t.methods {
			if m.Body != nil {
				fn(t.Name+"."+m.Name(), m.Body)
			}
		}
		for _, in := range t.inits {
			if in.Body != nil {
				fn(t.Name+".init", in.Body)
			}
		}
		for _, p := range t.properties {
			if p.Getter != nil {
				fn(t.Name+"."+p.Name+".get", p.Getter)
			}
			if p.Setter != nil && p.Setter.Body != nil {
				fn(t.Name+"."+p.Name+".set", p.Setter.Body)
			}
		}
	}
	for _, g := range f.functions {
		if g.Body != nil {
			fn(g.Name(), g.Body)
		}
	}
	for _, v := range f.variables {
		if v.Initializer != nil {
			fn(v.Name, v.Initializer)
		}
	}
}
