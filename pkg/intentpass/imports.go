package intentpass

import (
	"strings"
)

// ImportDirective derives module imports from the preprocessor directives
// of each file. Framework imports such as #import <UIKit/UIKit.h> and
// @import UIKit; yield the module name; quoted local imports are ignored.
// The directives themselves are left in place.
type ImportDirective struct{}

func (ImportDirective) Name() string { return "ImportDirective" }

func (ImportDirective) Apply(ctx *Context) bool {
	changed := false
	for _, f := range ctx.Collection.Files() {
		for _, d := range f.Directives {
			module, ok := ModuleOf(d)
			if !ok {
				continue
			}
			n := len(f.Imports)
			f.AddImport(module)
			if len(f.Imports) != n {
				changed = true
			}
		}
	}
	return changed
}

// ModuleOf returns the module a directive imports.
func ModuleOf(directive string) (string, bool) {
	d := strings.TrimSpace(directive)
	switch {
	case strings.HasPrefix(d, "@import"):
		d = strings.TrimSpace(strings.TrimPrefix(d, "@import"))
		d = strings.TrimSuffix(d, ";")
		if i := strings.IndexByte(d, '.'); i >= 0 {
			d = d[:i]
		}
		d = strings.TrimSpace(d)
		return d, d != ""
	case strings.HasPrefix(d, "#import"), strings.HasPrefix(d, "#include"):
		open := strings.IndexByte(d, '<')
		end := strings.IndexByte(d, '>')
		if open < 0 || end < open {
			return "", false
		}
		path := d[open+1 : end]
		i := strings.IndexByte(path, '/')
		if i <= 0 {
			return "", false
		}
		return path[:i], true
	}
	return "", false
}
