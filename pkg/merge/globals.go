package merge

import (
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
)

// mergeFunction merges g into the matching global function of def, or moves
// it there when nothing matches.
func (m *merger) mergeFunction(g *intention.GlobalFunction, def *intention.File) {
	from := g.File()
	for _, target := range def.Functions() {
		if !m.signaturesMatch(g.Signature, target.Signature) {
			continue
		}
		subject := intention.FormatFunction(target)
		if g.HasBody() && target.HasBody() {
			m.report.KeptDistinct++
			def.AddFunction(g)
			g.History().Record(intention.Event{
				Tag: Tag, Kind: intention.EventKeptDistinct, Entity: "function", Subject: subject,
				Detail: "a second definition with a body",
			})
			return
		}
		m.report.MergedMembers++
		target.Signature = m.mergeSignature(g.Signature, target.Signature, target, subject)
		if !target.HasBody() {
			target.Body = g.Body
		}
		target.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventMerged, Entity: "function", Subject: subject, From: from.SourcePath,
		})
		from.RemoveFunctions(func(x *intention.GlobalFunction) bool { return x == g })
		return
	}
	def.AddFunction(g)
	m.moved(def, "function", intention.FormatFunction(g), from)
}

// mergeVariable merges v into the global variable of def with the same name,
// or moves it there. The definition's initializer wins.
func (m *merger) mergeVariable(v *intention.GlobalVariable, def *intention.File) {
	from := v.File()
	for _, target := range def.Variables() {
		if target.Name != v.Name {
			continue
		}
		m.report.MergedMembers++
		target.Storage.Type = m.mergeType(v.Storage.Type, target.Storage.Type, target, target.Name)
		if target.Initializer == nil {
			target.Initializer = v.Initializer
		}
		target.Storage.Constant = target.Storage.Constant || v.Storage.Constant
		target.History().Record(intention.Event{
			Tag: Tag, Kind: intention.EventMerged, Entity: "variable", Subject: target.Name, From: from.SourcePath,
		})
		from.RemoveVariables(func(x *intention.GlobalVariable) bool { return x == v })
		return
	}
	def.AddVariable(v)
	m.moved(def, "variable", v.Name, from)
}
