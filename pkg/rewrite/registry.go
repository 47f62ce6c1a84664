package rewrite

import (
	"sort"

	"github.com/pkg/errors"
)

// Constructor builds a fresh instance of a syntax-node pass.
type Constructor func() Pass

var registry = map[string]Constructor{
	"AllocInit":  AllocInit,
	"Simplifier": Simplifier,
	"Foundation": Foundation,
}

// DefaultOrder is the syntax-node pass order used when none is configured.
// The simplifier runs again last to tidy up what the other passes produced.
var DefaultOrder = []string{"AllocInit", "Simplifier", "Foundation", "Simplifier"}

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

// Build instantiates the named passes in order. A name may repeat.
func Build(names []string) ([]Pass, error) {
	passes := make([]Pass, 0, len(names))
	for _, n := range names {
		c, ok := registry[n]
		if !ok {
			return nil, errors.Errorf("unknown syntax pass %q", n)
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
