// Package merge unifies declaration-only translation units with the
// definition units describing the same types and globals. Ambiguity is
// resolved conservatively: entries that cannot be proven equivalent are kept
// apart rather than merged by guess.
package merge

import (
	"path"
	"strings"

	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// Tag marks history events recorded by the merge engine.
const Tag = "TypeMerge"

// Options configures a merge.
type Options struct {
	// DeclarationExts lists the file extensions of declaration-only units.
	// Defaults to ".h".
	DeclarationExts []string
	// Aliases expands typealiases when comparing types. Defaults to the
	// collection's own typealiases.
	Aliases ir.AliasResolver
}

// Report counts what a merge did.
type Report struct {
	MergedTypes       int
	MergedMembers     int
	MovedIntentions   int
	MergedFiles       int
	RemovedFiles      int
	RemovedExtensions int
	KeptDistinct      int
}

// Changed reports whether the merge modified the collection.
func (r Report) Changed() bool { return r != Report{} }

type merger struct {
	c       *intention.Collection
	opts    Options
	aliases ir.AliasResolver
	report  Report
	paired  map[*intention.File]bool
}

// Merge runs every merge step over c in place:
//
//  1. types declared in declaration units merge into the matching type of a
//     definition unit, preferring the unit with the same base name
//  2. the remaining content of each declaration unit moves into its paired
//     definition unit, merging globals by key
//  3. declaration and definition content for one type in a single unit merges
//  4. declaration units emptied by the steps above are removed
//  5. semantically empty class extensions are removed
func Merge(c *intention.Collection, opts Options) Report {
	if len(opts.DeclarationExts) == 0 {
		opts.DeclarationExts = []string{".h"}
	}
	m := &merger{c: c, opts: opts, aliases: opts.Aliases, paired: map[*intention.File]bool{}}
	if m.aliases == nil {
		m.aliases = c.Aliases()
	}

	nonEmpty := map[*intention.File]bool{}
	for _, f := range c.Files() {
		nonEmpty[f] = !f.IsEmpty()
	}

	m.mergeAcrossFiles()
	m.mergePairedFiles()
	for _, f := range c.Files() {
		m.mergeWithinFile(f)
	}

	c.RemoveFiles(func(f *intention.File) bool {
		if m.isDeclaration(f) && (nonEmpty[f] || m.paired[f]) && f.IsEmpty() {
			m.report.RemovedFiles++
			return true
		}
		return false
	})

	for _, f := range c.Files() {
		m.pruneExtensions(f)
	}
	return m.report
}

func (m *merger) isDeclaration(f *intention.File) bool {
	ext := path.Ext(f.SourcePath)
	for _, e := range m.opts.DeclarationExts {
		if ext == e {
			return true
		}
	}
	return false
}

func baseName(p string) string {
	return strings.TrimSuffix(p, path.Ext(p))
}

// pairedDefinition returns the definition unit sharing decl's base name.
func (m *merger) pairedDefinition(decl *intention.File) *intention.File {
	base := baseName(decl.SourcePath)
	for _, f := range m.c.Files() {
		if f != decl && !m.isDeclaration(f) && baseName(f.SourcePath) == base {
			return f
		}
	}
	return nil
}

func mergeable(k intention.TypeKind) bool {
	switch k {
	case intention.KindClass, intention.KindStruct, intention.KindExtension,
		intention.KindEnum, intention.KindProtocol:
		return true
	}
	return false
}

func sameType(a, b *intention.Type) bool {
	if a.Kind != b.Kind || a.Name != b.Name {
		return false
	}
	return a.Kind != intention.KindExtension || a.Category == b.Category
}

// findTarget looks for the type decl should merge into: first in the paired
// definition unit, then in every other definition unit in collection order.
func (m *merger) findTarget(decl *intention.Type, paired *intention.File) *intention.Type {
	if paired != nil {
		for _, t := range paired.Types() {
			if sameType(t, decl) {
				return t
			}
		}
	}
	for _, f := range m.c.Files() {
		if f == paired || m.isDeclaration(f) {
			continue
		}
		for _, t := range f.Types() {
			if sameType(t, decl) {
				return t
			}
		}
	}
	return nil
}

func (m *merger) mergeAcrossFiles() {
	for _, f := range m.c.Files() {
		if !m.isDeclaration(f) {
			continue
		}
		paired := m.pairedDefinition(f)
		for _, decl := range f.Types() {
			if !mergeable(decl.Kind) {
				continue
			}
			target := m.findTarget(decl, paired)
			if target == nil {
				continue
			}
			m.mergeTypes(decl, target)
			f.RemoveTypes(func(t *intention.Type) bool { return t == decl })
		}
	}
}

// mergeWithinFile merges interface-marked types into the definition-marked
// type of the same name declared in the same unit.
func (m *merger) mergeWithinFile(f *intention.File) {
	for _, target := range f.Types() {
		if target.IsInterfaceSource || !mergeable(target.Kind) || target.File() != f {
			continue
		}
		for _, decl := range f.Types() {
			if decl == target || !decl.IsInterfaceSource || !sameType(decl, target) {
				continue
			}
			m.mergeTypes(decl, target)
			f.RemoveTypes(func(t *intention.Type) bool { return t == decl })
		}
	}
}

func (m *merger) mergePairedFiles() {
	for _, decl := range m.c.Files() {
		if !m.isDeclaration(decl) {
			continue
		}
		def := m.pairedDefinition(decl)
		if def == nil {
			continue
		}
		m.report.MergedFiles++
		m.paired[decl] = true

		def.Directives = append(append([]string(nil), decl.Directives...), def.Directives...)
		decl.Directives = nil
		imports := def.Imports
		def.Imports = nil
		for _, imp := range append(append([]string(nil), decl.Imports...), imports...) {
			def.AddImport(imp)
		}
		decl.Imports = nil

		for _, a := range decl.Typealiases() {
			m.mergeTypealias(a, decl, def)
		}
		for _, t := range decl.Types() {
			def.AddType(t)
			m.moved(def, t.Kind.String(), t.Name, decl)
		}
		for _, v := range decl.Variables() {
			m.mergeVariable(v, def)
		}
		for _, g := range decl.Functions() {
			m.mergeFunction(g, def)
		}
		def.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventMerged, Entity: "file", Subject: decl.SourcePath,
		})
	}
}

// mergeTypealias moves a into def unless def already declares the name. An
// equivalent redeclaration is dropped; a conflicting one stays behind in its
// declaration unit.
func (m *merger) mergeTypealias(a *intention.Typealias, decl, def *intention.File) {
	var existing *intention.Typealias
	for _, da := range def.Typealiases() {
		if da.Name == a.Name {
			existing = da
			break
		}
	}
	switch {
	case existing == nil:
		def.AddTypealias(a)
		m.moved(def, "typealias", a.Name, decl)
	case ir.Equivalent(a.Type, existing.Type, m.aliases):
		decl.RemoveTypealiases(func(x *intention.Typealias) bool { return x == a })
		m.report.MergedMembers++
		def.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventMerged, Entity: "typealias", Subject: a.Name, From: decl.SourcePath,
		})
	default:
		m.report.KeptDistinct++
		decl.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventKeptDistinct, Entity: "typealias", Subject: a.Name,
			Detail: existing.Name + " = " + existing.Type.String() + " in " + def.SourcePath,
		})
	}
}

func (m *merger) moved(into *intention.File, entity, name string, from *intention.File) {
	m.report.MovedIntentions++
	into.History().Record(intention.Event{
		Tag: Tag, Kind: intention.EventMoved, Entity: entity, Subject: name,
		From: from.SourcePath, To: into.SourcePath,
	})
}

func (m *merger) pruneExtensions(f *intention.File) {
	f.RemoveTypes(func(t *intention.Type) bool {
		if !t.IsEmptyExtension() {
			return false
		}
		m.report.RemovedExtensions++
		f.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventRemoved, Entity: "extension", Subject: t.Name,
			Detail: "no category, members or conformances",
		})
		return true
	})
}
