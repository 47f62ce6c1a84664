package intentpass

import (
	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
)

// PropertyMerge folds explicit accessor methods into the property they
// implement. A getter x() and setter setX(_:) become the property's
// accessors. When only one accessor is written for a read-write property,
// the other is synthesized over a backing field _x, which is added if the
// type lacks it. Accessor methods without bodies are dropped since the
// property already declares them.
type PropertyMerge struct{}

func (PropertyMerge) Name() string { return "PropertyMerge" }

func (p PropertyMerge) Apply(ctx *Context) bool {
	changed := false
	for _, t := range ctx.Collection.Types() {
		if t.Kind == intention.KindProtocol {
			continue
		}
		for _, prop := range t.Properties() {
			if prop.Mode == intention.PropertyStored && p.mergeAccessors(ctx, t, prop) {
				changed = true
			}
		}
	}
	return changed
}

func (p PropertyMerge) mergeAccessors(ctx *Context, t *intention.Type, prop *intention.Property) bool {
	getter, setter := findAccessors(ctx, t, prop)
	if getter == nil && setter == nil {
		return false
	}
	subject := intention.FormatProperty(t.Name, prop, intention.PropertyFormat{WithTypeName: true})
	remove := func(m *intention.Method, entity string) {
		t.RemoveMethods(func(x *intention.Method) bool { return x == m })
		if !m.HasBody() {
			record(prop.History(), p.Name(), intention.Event{
				Kind: intention.EventRemoved, Entity: entity, Subject: intention.FormatMethod(t.Name, m),
				Detail: "declared by property " + prop.Name,
			})
			return
		}
		record(prop.History(), p.Name(), intention.Event{
			Kind: intention.EventMerged, Entity: entity, Subject: subject,
			From: intention.FormatMethod(t.Name, m),
		})
	}
	if getter != nil {
		remove(getter, "getter")
	}
	if setter != nil {
		remove(setter, "setter")
	}
	if getter != nil && !getter.HasBody() {
		getter = nil
	}
	if setter != nil && !setter.HasBody() {
		setter = nil
	}

	switch {
	case getter != nil && setter != nil:
		prop.Mode = intention.PropertyGetterSetter
		prop.Getter = getter.Body
		prop.Setter = &intention.Setter{ValueName: setter.Signature.Parameters[0].Name, Body: setter.Body}
	case getter != nil && prop.IsReadOnly():
		prop.Mode = intention.PropertyComputed
		prop.Getter = getter.Body
	case getter != nil:
		backing := ensureBackingField(t, prop)
		prop.Mode = intention.PropertyGetterSetter
		prop.Getter = getter.Body
		prop.Setter = &intention.Setter{ValueName: "newValue", Body: ir.NewBody(func(b *ir.Tree) ir.NodeID {
			return b.ExprStmt(b.Assign("", b.Ident(backing), b.Ident("newValue")))
		})}
	case setter != nil:
		backing := ensureBackingField(t, prop)
		prop.Mode = intention.PropertyGetterSetter
		prop.Getter = ir.NewBody(func(b *ir.Tree) ir.NodeID { return b.Return(b.Ident(backing)) })
		prop.Setter = &intention.Setter{ValueName: setter.Signature.Parameters[0].Name, Body: setter.Body}
	}
	return true
}

// findAccessors returns the methods of t that have the shape of prop's
// getter and setter.
func findAccessors(ctx *Context, t *intention.Type, prop *intention.Property) (getter, setter *intention.Method) {
	setterName := "set" + upperFirst(prop.Name)
	for _, m := range t.Methods() {
		sig := m.Signature
		if sig.IsStatic != prop.IsStatic {
			continue
		}
		switch {
		case getter == nil && sig.Name == prop.Name && len(sig.Parameters) == 0 &&
			ir.Equivalent(sig.ReturnType, prop.Storage.Type, ctx.Aliases):
			getter = m
		case setter == nil && sig.Name == setterName && len(sig.Parameters) == 1 &&
			ir.Equivalent(sig.Parameters[0].Type, prop.Storage.Type, ctx.Aliases) &&
			(sig.ReturnType.IsZero() || ir.Equivalent(sig.ReturnType, ir.Void, nil)):
			setter = m
		}
	}
	return getter, setter
}

// ensureBackingField returns the name of prop's backing field, adding a
// private field to t when none exists.
func ensureBackingField(t *intention.Type, prop *intention.Property) string {
	name := "_" + prop.Name
	for _, f := range t.Fields() {
		if f.Name == name {
			return name
		}
	}
	f := &intention.Field{Name: name, Storage: prop.Storage, IsStatic: prop.IsStatic}
	f.Access = intention.AccessPrivate
	t.AddField(f)
	return name
}

// StoredPropertyToNominalTypes moves stored properties and fields declared
// in extensions into the class they extend, since extensions cannot hold
// storage. Extensions left empty are removed.
type StoredPropertyToNominalTypes struct{}

func (StoredPropertyToNominalTypes) Name() string { return "StoredPropertyToNominalTypes" }

func (p StoredPropertyToNominalTypes) Apply(ctx *Context) bool {
	changed := false
	for _, ext := range ctx.Collection.Types() {
		if ext.Kind != intention.KindExtension {
			continue
		}
		nominal := nominalFor(ctx.Collection, ext)
		if nominal == nil {
			continue
		}
		from, to := intention.FormatType(ext), intention.FormatType(nominal)
		for _, prop := range ext.Properties() {
			if prop.Mode != intention.PropertyStored || prop.IsStatic {
				continue
			}
			nominal.AddProperty(prop)
			record(nominal.History(), p.Name(), intention.Event{
				Kind: intention.EventMoved, Entity: "property",
				Subject: intention.FormatProperty(nominal.Name, prop, intention.PropertyFormat{WithTypeName: true}),
				From:    from, To: to,
			})
			changed = true
		}
		for _, f := range ext.Fields() {
			nominal.AddField(f)
			record(nominal.History(), p.Name(), intention.Event{
				Kind: intention.EventMoved, Entity: "field",
				Subject: intention.FormatField(nominal.Name, f),
				From:    from, To: to,
			})
			changed = true
		}
		if ext.IsEmptyExtension() && ext.File() != nil {
			ext.File().RemoveTypes(func(x *intention.Type) bool { return x == ext })
			changed = true
		}
	}
	return changed
}

// nominalFor finds the class ext extends, preferring one in the same file.
func nominalFor(c *intention.Collection, ext *intention.Type) *intention.Type {
	var found *intention.Type
	for _, t := range c.TypesNamed(ext.Name) {
		if t.Kind != intention.KindClass {
			continue
		}
		if t.File() == ext.File() {
			return t
		}
		if found == nil {
			found = t
		}
	}
	return found
}
