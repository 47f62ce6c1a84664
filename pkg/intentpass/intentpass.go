// Package intentpass runs whole-program passes over an intention
// collection. Passes run once each, in a fixed order, after every unit has
// been parsed; later passes rely on what earlier ones produced.
package intentpass

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/mehulgecg/SwiftRewriter/pkg/intention"
	"github.com/mehulgecg/SwiftRewriter/pkg/ir"
	"github.com/mehulgecg/SwiftRewriter/pkg/logging"
	"github.com/mehulgecg/SwiftRewriter/pkg/scope"
)

// Context is what every intention pass sees: the collection it mutates and
// the lookup services derived from it.
type Context struct {
	Collection *intention.Collection
	// Globals resolves global names: the collection's own globals first,
	// then every provider in registration order.
	Globals *scope.CompoundSource
	Aliases ir.Aliases
	Log     *logging.Logger

	providers []scope.GlobalsProvider
}

// NewContext returns a context over c. A nil log discards output.
func NewContext(c *intention.Collection, log *logging.Logger, providers ...scope.GlobalsProvider) *Context {
	if log == nil {
		log = logging.Nop()
	}
	ctx := &Context{Collection: c, Log: log, providers: providers}
	ctx.Refresh()
	return ctx
}

// Refresh recomputes Globals and Aliases after the collection changed shape.
func (ctx *Context) Refresh() {
	ctx.Aliases = ctx.Collection.Aliases()
	ctx.Globals = scope.NewCompoundSource(scope.NewArraySource(ctx.Collection.GlobalDefinitions()))
	for _, p := range ctx.providers {
		ctx.Globals.AddSource(p.Source())
	}
}

// Pass transforms the collection in place and reports whether it changed
// anything.
type Pass interface {
	Name() string
	Apply(ctx *Context) bool
}

// Run applies passes in order, refreshing the context after each one that
// reports a change.
func Run(ctx *Context, passes []Pass) bool {
	changed := false
	for _, p := range passes {
		if p.Apply(ctx) {
			changed = true
			ctx.Refresh()
		}
	}
	return changed
}

// Constructor builds a fresh instance of an intention pass.
type Constructor func() Pass

var registry = map[string]Constructor{
	"FileTypeMerging":                func() Pass { return &FileTypeMerging{} },
	"ProtocolNullabilityPropagation": func() Pass { return ProtocolNullabilityPropagation{} },
	"PropertyMerge":                  func() Pass { return PropertyMerge{} },
	"StoredPropertyToNominalTypes":   func() Pass { return StoredPropertyToNominalTypes{} },
	"SwiftifyMethodSignatures":       func() Pass { return SwiftifyMethodSignatures{} },
	"ImportDirective":                func() Pass { return ImportDirective{} },
	"DetectNonnullReturns":           func() Pass { return DetectNonnullReturns{} },
}

// DefaultOrder respects producer/consumer dependencies between passes:
// declarations are merged before anything inspects a type's members, and
// signatures are normalized before return nullability is inferred.
var DefaultOrder = []string{
	"FileTypeMerging",
	"ProtocolNullabilityPropagation",
	"PropertyMerge",
	"StoredPropertyToNominalTypes",
	"SwiftifyMethodSignatures",
	"ImportDirective",
	"DetectNonnullReturns",
}

// Lookup returns the constructor registered under name.
func Lookup(name string) (Constructor, bool) {
	c, ok := registry[name]
	return c, ok
}

// Names returns every registered pass name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the named passes in order.
func Build(names []string) ([]Pass, error) {
	passes := make([]Pass, 0, len(names))
	for _, n := range names {
		c, ok := registry[n]
		if !ok {
			return nil, errors.Errorf("unknown intention pass %q", n)
		}
		passes = append(passes, c())
	}
	return passes, nil
}

// Default returns the passes of DefaultOrder.
func Default() []Pass {
	passes, _ := Build(DefaultOrder)
	return passes
}

// conformers calls fn for every non-protocol type together with the protocol
// types it conforms to that are present in the collection.
func conformers(c *intention.Collection, fn func(t *intention.Type, protocols []*intention.Type)) {
	byName := map[string][]*intention.Type{}
	for _, t := range c.Types() {
		if t.Kind == intention.KindProtocol {
			byName[t.Name] = append(byName[t.Name], t)
		}
	}
	for _, t := range c.Types() {
		if t.Kind == intention.KindProtocol {
			continue
		}
		var ps []*intention.Type
		for _, name := range t.Protocols {
			ps = append(ps, byName[name]...)
		}
		if len(ps) > 0 {
			fn(t, ps)
		}
	}
}

func record(h *intention.History, tag string, e intention.Event) {
	e.Tag = tag
	h.Record(e)
}
