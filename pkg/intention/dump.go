package intention

import (
	"fmt"
	"strings"

	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
	"github.com/zeebo/xxh3"
)

// Dump renders the collection as indented text: files, their declarations
// and every body as an S-expression. Histories are not included.
func Dump(c *Collection) string {
	var b strings.Builder
	for _, f := range c.files {
		DumpFile(&b, f)
	}
	return b.String()
}

// DumpFile writes one file in Dump format.
func DumpFile(b *strings.Builder, f *File) {
	fmt.Fprintf(b, "file %s -> %s\n", f.SourcePath, f.TargetPath)
	for _, d := range f.Directives {
		fmt.Fprintf(b, "  directive %s\n", d)
	}
	for _, m := range f.Imports {
		fmt.Fprintf(b, "  import %s\n", m)
	}
	for _, a := range f.typealiases {
		fmt.Fprintf(b, "  typealias %s = %s\n", a.Name, a.Type)
	}
	for _, t := range f.types {
		fmt.Fprintf(b, "  %s%s\n", interfaceMark(t.IsInterfaceSource), FormatType(t))
		for _, fl := range t.fields {
			fmt.Fprintf(b, "    field %s\n", FormatField(t.Name, fl))
		}
		for _, p := range t.properties {
			fmt.Fprintf(b, "    property %s [%s]\n", FormatProperty(t.Name, p, PropertyFormat{VarKeyword: true, Accessors: true}), p.Mode)
			writeBody(b, "get", p.Getter)
			if p.Setter != nil {
				writeBody(b, "set("+p.Setter.ValueName+")", p.Setter.Body)
			}
		}
		for _, in := range t.inits {
			fmt.Fprintf(b, "    %s\n", FormatInit(in))
			writeBody(b, "body", in.Body)
		}
		for _, ec := range t.cases {
			fmt.Fprintf(b, "    case %s\n", ec.Name)
			writeBody(b, "value", ec.Value)
		}
		for _, m := range t.methods {
			fmt.Fprintf(b, "    %sfunc %s\n", interfaceMark(m.IsInterfaceSource), FormatSignature(m.Signature, true))
			writeBody(b, "body", m.Body)
		}
	}
	for _, v := range f.variables {
		kw := "var"
		if v.Storage.Constant {
			kw = "let"
		}
		fmt.Fprintf(b, "  %s %s: %s\n", kw, v.Name, v.Storage.Type)
		writeBody(b, "init", v.Initializer)
	}
	for _, g := range f.functions {
		fmt.Fprintf(b, "  func %s\n", FormatFunction(g))
		writeBody(b, "body", g.Body)
	}
}

func interfaceMark(b bool) string {
	if b {
		return "@interface "
	}
	return ""
}

func writeBody(b *strings.Builder, label string, t *ir.Tree) {
	if t == nil {
		return
	}
	fmt.Fprintf(b, "      %s %s\n", label, t.String())
}

// Fingerprint returns a structural hash of the collection, used to compare
// runs for determinism and to detect whether a pass changed anything.
func Fingerprint(c *Collection) uint64 {
	return xxh3.HashString(Dump(c))
}
