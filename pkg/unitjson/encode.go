package unitjson

import (
	"encoding/json"
	"strings"

	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// Encode writes the collection as an indented bundle, one unit per file in
// collection order. Histories are included so the emitter can annotate the
// generated declarations.
func Encode(c *intention.Collection) ([]byte, error) {
	b := Bundle{Units: make([]Unit, 0, len(c.Files()))}
	for _, f := range c.Files() {
		b.Units = append(b.Units, EncodeFile(f))
	}
	return json.MarshalIndent(b, "", "  ")
}

// EncodeFile converts one file intention to its unit form.
func EncodeFile(f *intention.File) Unit {
	u := Unit{
		Type:       "unit",
		Path:       f.SourcePath,
		Target:     f.TargetPath,
		Directives: f.Directives,
		Imports:    f.Imports,
		History:    historyLines(f.History()),
	}
	for _, a := range f.Typealiases() {
		u.Typealiases = append(u.Typealiases, Typealias{Name: a.Name, Type: typeString(a.Type)})
	}
	for _, t := range f.Types() {
		u.Types = append(u.Types, encodeType(t))
	}
	for _, g := range f.Functions() {
		u.Functions = append(u.Functions, Function{
			Name:      g.Name(),
			Static:    g.Signature.IsStatic,
			Params:    encodeParams(g.Signature.Parameters),
			Returns:   typeString(g.Signature.ReturnType),
			Body:      EncodeTree(g.Body),
			Interface: g.IsInterfaceSource,
			History:   historyLines(g.History()),
		})
	}
	for _, v := range f.Variables() {
		u.Variables = append(u.Variables, Variable{
			Name:      v.Name,
			Type:      typeString(v.Storage.Type),
			Ownership: ownershipString(v.Storage.Ownership),
			Const:     v.Storage.Constant,
			Init:      EncodeTree(v.Initializer),
			Interface: v.IsInterfaceSource,
		})
	}
	return u
}

func encodeType(t *intention.Type) Type {
	out := Type{
		Kind:       t.Kind.String(),
		Name:       t.Name,
		Superclass: t.Superclass,
		Category:   t.Category,
		RawType:    typeString(t.RawType),
		Protocols:  t.Protocols,
		Access:     accessString(t.Access),
		Interface:  t.IsInterfaceSource,
		History:    historyLines(t.History()),
	}
	for _, f := range t.Fields() {
		out.Fields = append(out.Fields, Field{
			Name:      f.Name,
			Type:      typeString(f.Storage.Type),
			Ownership: ownershipString(f.Storage.Ownership),
			Static:    f.IsStatic,
			Access:    accessString(f.Access),
			Interface: f.IsInterfaceSource,
		})
	}
	for _, p := range t.Properties() {
		jp := Property{
			Name:       p.Name,
			Type:       typeString(p.Storage.Type),
			Ownership:  ownershipString(p.Storage.Ownership),
			Static:     p.IsStatic,
			Attributes: p.Attributes,
			Access:     accessString(p.Access),
			Interface:  p.IsInterfaceSource,
			History:    historyLines(p.History()),
		}
		if p.Mode != intention.PropertyStored {
			jp.Mode = p.Mode.String()
			jp.Getter = EncodeTree(p.Getter)
		}
		if p.Setter != nil {
			jp.Setter = &Setter{ValueName: p.Setter.ValueName, Body: EncodeTree(p.Setter.Body)}
		}
		out.Properties = append(out.Properties, jp)
	}
	for _, in := range t.Inits() {
		out.Inits = append(out.Inits, Init{
			Params:      encodeParams(in.Parameters),
			Failable:    in.Failable,
			Convenience: in.Convenience,
			Body:        EncodeTree(in.Body),
			Access:      accessString(in.Access),
			Interface:   in.IsInterfaceSource,
			History:     historyLines(in.History()),
		})
	}
	for _, c := range t.Cases() {
		out.Cases = append(out.Cases, Case{Name: c.Name, Value: EncodeTree(c.Value)})
	}
	for _, m := range t.Methods() {
		out.Methods = append(out.Methods, Method{
			Name:      m.Name(),
			Static:    m.Signature.IsStatic,
			Optional:  m.IsOptional,
			Params:    encodeParams(m.Signature.Parameters),
			Returns:   typeString(m.Signature.ReturnType),
			Body:      EncodeTree(m.Body),
			Access:    accessString(m.Access),
			Interface: m.IsInterfaceSource,
			History:   historyLines(m.History()),
		})
	}
	return out
}

// EncodeTree converts a body tree to nodes. Resolved types are kept.
func EncodeTree(t *ir.Tree) *Node {
	if t == nil || t.Root() == ir.NoNode {
		return nil
	}
	return encodeNode(t, t.Root())
}

func encodeNode(t *ir.Tree, id ir.NodeID) *Node {
	n := t.Node(id)
	out := &Node{Kind: n.Kind.String()}
	switch n.Kind {
	case ir.KindVarDecl:
		out.Name = n.Name
		out.Type = typeString(n.Type)
		out.Ownership = ownershipString(n.Ownership)
		out.Const = n.Constant
	case ir.KindIdentifier, ir.KindMember:
		out.Name = n.Name
	case ir.KindConstant:
		out.Value = n.Value
	case ir.KindBinary, ir.KindUnary, ir.KindAssignment:
		out.Op = n.Op
	case ir.KindCast:
		out.Type = typeString(n.Type)
	case ir.KindCall:
		if hasLabel(n.Labels) {
			out.Labels = append([]string(nil), n.Labels...)
		}
	case ir.KindBlockLiteral:
		out.Params = encodeParams(n.Params)
		out.Returns = typeString(n.Return)
	}
	if rt, ok := t.ResolvedType(id); ok {
		out.ResolvedType = rt.String()
	}
	for _, c := range t.Children(id) {
		out.Children = append(out.Children, encodeNode(t, c))
	}
	return out
}

func hasLabel(labels []string) bool {
	for _, l := range labels {
		if l != "" {
			return true
		}
	}
	return false
}

func encodeParams(ps []ir.ParameterSignature) []Param {
	if len(ps) == 0 {
		return nil
	}
	out := make([]Param, len(ps))
	for i, p := range ps {
		out[i] = Param{Label: p.Label, Name: p.Name, Type: typeString(p.Type)}
	}
	return out
}

func typeString(t ir.TypeRef) string {
	if t.IsZero() {
		return ""
	}
	return t.String()
}

func ownershipString(o ir.Ownership) string {
	if o == ir.OwnershipStrong {
		return ""
	}
	return o.String()
}

func accessString(a intention.AccessLevel) string {
	if a == intention.AccessInternal {
		return ""
	}
	return a.String()
}

func historyLines(h *intention.History) []string {
	if h.Len() == 0 {
		return nil
	}
	return strings.Split(h.Summary(), "\n")
}
