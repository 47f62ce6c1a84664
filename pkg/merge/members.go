package merge

import (
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// mergeTypes folds decl into target. Target's members keep their order and
// come first; decl members without a match are appended in their original
// order.
func (m *merger) mergeTypes(decl, target *intention.Type) {
	m.report.MergedTypes++

	if target.Superclass == "" {
		target.Superclass = decl.Superclass
	}
	for _, p := range decl.Protocols {
		target.AddProtocol(p)
	}
	if decl.Access.IsMoreVisible(target.Access) {
		target.Access = decl.Access
	}
	if target.Kind == intention.KindEnum && target.RawType.IsZero() {
		target.RawType = decl.RawType
	}

	for _, dm := range decl.Methods() {
		if tm := m.matchMethod(dm, target); tm != nil {
			m.mergeMethod(dm, tm, target)
			continue
		}
		placeMethod(target, dm)
		m.created(target, "method", intention.FormatMethod(target.Name, dm))
	}
	for _, dp := range decl.Properties() {
		if tp := matchProperty(dp, target); tp != nil {
			m.mergeProperty(dp, tp, target)
			continue
		}
		target.AddProperty(dp)
		m.created(target, "property", intention.FormatProperty(target.Name, dp, intention.PropertyFormat{WithTypeName: true}))
	}
	for _, df := range decl.Fields() {
		if tf := matchField(df, target); tf != nil {
			tf.Storage.Type = m.mergeType(df.Storage.Type, tf.Storage.Type, tf, intention.FormatField(target.Name, tf))
			m.report.MergedMembers++
			continue
		}
		target.AddField(df)
		m.created(target, "field", intention.FormatField(target.Name, df))
	}
	for _, di := range decl.Inits() {
		if ti := m.matchInit(di, target); ti != nil {
			m.mergeInit(di, ti, target)
			continue
		}
		target.AddInit(di)
		m.created(target, "init", target.Name+"."+intention.FormatInit(di))
	}
	for _, dc := range decl.Cases() {
		if matchCase(dc, target) {
			continue
		}
		target.AddCase(dc)
		m.created(target, "case", target.Name+"."+dc.Name)
	}
}

// placeMethod adds a method taken from another type. One with a body goes
// after the last method of t that has a body, keeping definitions ahead of
// declarations; one without goes last.
func placeMethod(t *intention.Type, mt *intention.Method) {
	if !mt.HasBody() {
		t.AddMethod(mt)
		return
	}
	at := 0
	for i, x := range t.Methods() {
		if x.HasBody() {
			at = i + 1
		}
	}
	t.InsertMethod(at, mt)
}

func (m *merger) created(t *intention.Type, entity, subject string) {
	t.History().Record(intention.Event{
		Tag: Tag, Kind: intention.EventMemberCreated, Entity: entity, Subject: subject,
	})
}

// signaturesMatch is the member and global function key: name, static flag and
// parameter labels must agree, and parameter types must be equivalent once
// nullability and aliases are set aside. Return types are not compared.
func (m *merger) signaturesMatch(a, b ir.FunctionSignature) bool {
	if a.Identifier() != b.Identifier() || len(a.Parameters) != len(b.Parameters) {
		return false
	}
	return m.paramsMatch(a.Parameters, b.Parameters)
}

func (m *merger) paramsMatch(a, b []ir.ParameterSignature) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label != b[i].Label || !ir.Equivalent(a[i].Type, b[i].Type, m.aliases) {
			return false
		}
	}
	return true
}

func (m *merger) matchMethod(decl *intention.Method, t *intention.Type) *intention.Method {
	for _, tm := range t.Methods() {
		if m.signaturesMatch(decl.Signature, tm.Signature) {
			return tm
		}
	}
	return nil
}

func matchProperty(decl *intention.Property, t *intention.Type) *intention.Property {
	for _, tp := range t.Properties() {
		if tp.Name == decl.Name && tp.IsStatic == decl.IsStatic {
			return tp
		}
	}
	return nil
}

func matchField(decl *intention.Field, t *intention.Type) *intention.Field {
	for _, tf := range t.Fields() {
		if tf.Name == decl.Name && tf.IsStatic == decl.IsStatic {
			return tf
		}
	}
	return nil
}

func (m *merger) matchInit(decl *intention.Init, t *intention.Type) *intention.Init {
	for _, ti := range t.Inits() {
		if m.paramsMatch(decl.Parameters, ti.Parameters) {
			return ti
		}
	}
	return nil
}

func matchCase(decl *intention.EnumCase, t *intention.Type) bool {
	for _, tc := range t.Cases() {
		if tc.Name == decl.Name {
			return true
		}
	}
	return false
}

// mergeType unifies the nullability of a declared type with its definition
// counterpart and records a conflict on owner when both state different
// explicit nullability.
func (m *merger) mergeType(decl, def ir.TypeRef, owner intention.Intention, subject string) ir.TypeRef {
	merged, conflict := ir.MergeNullability(decl, def, m.aliases)
	if conflict {
		owner.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventNullabilityConflict, Subject: subject,
			From: decl.String(), To: def.String(),
		})
	}
	return merged
}

// mergeSignature folds decl's nullability into def. Matching signatures have
// equivalent parameter types; return types may still differ, in which case
// the definition's return type is kept.
func (m *merger) mergeSignature(decl, def ir.FunctionSignature, owner intention.Intention, subject string) ir.FunctionSignature {
	out := def.Clone()
	for i := range out.Parameters {
		out.Parameters[i].Type = m.mergeType(decl.Parameters[i].Type, def.Parameters[i].Type, owner, subject)
	}
	switch {
	case decl.ReturnType.IsZero():
	case def.ReturnType.IsZero():
		out.ReturnType = decl.ReturnType
	case ir.Equivalent(decl.ReturnType, def.ReturnType, m.aliases):
		out.ReturnType = m.mergeType(decl.ReturnType, def.ReturnType, owner, subject)
	default:
		owner.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventReturnTypeConflict, Subject: subject,
			From: decl.ReturnType.String(), To: def.ReturnType.String(),
		})
	}
	return out
}

func (m *merger) mergeMethod(decl, def *intention.Method, t *intention.Type) {
	subject := intention.FormatMethod(t.Name, def)
	if decl.HasBody() && def.HasBody() {
		m.report.KeptDistinct++
		placeMethod(t, decl)
		decl.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventKeptDistinct, Entity: "method", Subject: subject,
			Detail: "a second definition with a body",
		})
		return
	}
	m.report.MergedMembers++
	def.Signature = m.mergeSignature(decl.Signature, def.Signature, def, subject)
	if !def.HasBody() {
		def.Body = decl.Body
	}
	if decl.Access.IsMoreVisible(def.Access) {
		def.Access = decl.Access
	}
	def.IsOptional = def.IsOptional || decl.IsOptional
	def.History().Record(intention.Event{
		Tag: Tag, Kind: intention.EventMerged, Entity: "method", Subject: subject, From: sourceOf(decl.Owner()),
	})
}

func (m *merger) mergeProperty(decl, def *intention.Property, t *intention.Type) {
	m.report.MergedMembers++
	subject := intention.FormatProperty(t.Name, def, intention.PropertyFormat{WithTypeName: true})
	def.Storage.Type = m.mergeType(decl.Storage.Type, def.Storage.Type, def, subject)
	if def.Storage.Ownership == ir.OwnershipStrong {
		def.Storage.Ownership = decl.Storage.Ownership
	}
	for _, a := range decl.Attributes {
		if !def.HasAttribute(a) {
			def.Attributes = append(def.Attributes, a)
		}
	}
	if def.Mode == intention.PropertyStored && decl.Mode != intention.PropertyStored {
		def.Mode, def.Getter, def.Setter = decl.Mode, decl.Getter, decl.Setter
	}
	def.History().Record(intention.Event{
		Tag: Tag, Kind: intention.EventMerged, Entity: "property", Subject: subject, From: sourceOf(decl.Owner()),
	})
}

func (m *merger) mergeInit(decl, def *intention.Init, t *intention.Type) {
	subject := t.Name + "." + intention.FormatInit(def)
	if decl.HasBody() && def.HasBody() {
		m.report.KeptDistinct++
		t.AddInit(decl)
		decl.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventKeptDistinct, Entity: "init", Subject: subject,
			Detail: "a second definition with a body",
		})
		return
	}
	m.report.MergedMembers++
	params := append([]ir.ParameterSignature(nil), def.Parameters...)
	for i := range params {
		params[i].Type = m.mergeType(decl.Parameters[i].Type, def.Parameters[i].Type, def, subject)
	}
	def.Parameters = params
	def.Failable = def.Failable || decl.Failable
	def.Convenience = def.Convenience || decl.Convenience
	if !def.HasBody() {
		def.Body = decl.Body
	}
	def.History().Record(intention.Event{
		Tag: Tag, Kind: intention.EventMerged, Entity: "init", Subject: subject, From: sourceOf(decl.Owner()),
	})
}

func sourceOf(t *intention.Type) string {
	if t == nil || t.File() == nil {
		return ""
	}
	return t.File().SourcePath
}
