// Package passgen renders a Go source file that registers a fixed pass
// order, so tooling that embeds the rewriter can compile its pipeline in
// instead of loading it from configuration at startup.
package passgen

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/mehulgecg/SwiftRewriter/pkg/config"
	"github.com/mehulgecg/SwiftRewriter/pkg/intentpass"
	"github.com/mehulgecg/SwiftRewriter/pkg/rewrite"
)

const (
	rewritePkg    = "github.com/mehulgecg/SwiftRewriter/pkg/rewrite"
	intentpassPkg = "github.com/mehulgecg/SwiftRewriter/pkg/intentpass"
)

// pointerPasses are intention passes with pointer receivers.
var pointerPasses = map[string]bool{
	"FileTypeMerging": true,
}

var multiline = jen.Options{Open: "{", Close: "}", Separator: ",", Multi: true}

// Generate renders the registration file for cfg's pass lists into package
// pkg. Every name must be registered.
func Generate(pkg string, cfg *config.Config) ([]byte, error) {
	for _, name := range cfg.SyntaxPasses {
		if _, ok := rewrite.Lookup(name); !ok {
			return nil, fmt.Errorf("syntax pass %q: %w", name, config.ErrUnknownPass)
		}
	}
	for _, name := range cfg.IntentionPasses {
		if _, ok := intentpass.Lookup(name); !ok {
			return nil, fmt.Errorf("intention pass %q: %w", name, config.ErrUnknownPass)
		}
	}

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by rewriter-passgen. DO NOT EDIT.")

	f.Comment("SyntaxPasses lists the syntax-node pass constructors in run order.")
	f.Var().Id("SyntaxPasses").Op("=").Index().Qual(rewritePkg, "Constructor").CustomFunc(multiline, func(g *jen.Group) {
		for _, name := range cfg.SyntaxPasses {
			g.Qual(rewritePkg, name)
		}
	})
	f.Line()

	f.Comment("IntentionPasses lists the intention pass constructors in run order.")
	f.Var().Id("IntentionPasses").Op("=").Index().Qual(intentpassPkg, "Constructor").CustomFunc(multiline, func(g *jen.Group) {
		for _, name := range cfg.IntentionPasses {
			value := jen.Qual(intentpassPkg, name).Values()
			if pointerPasses[name] {
				value = jen.Op("&").Add(value)
			}
			g.Func().Params().Qual(intentpassPkg, "Pass").Block(jen.Return(value))
		}
	})
	f.Line()

	f.Comment("Options returns rewriter options using the generated pass lists.")
	f.Func().Id("Options").Params(
		jen.Id("p").Qual("github.com/mehulgecg/SwiftRewriter/pkg/frontend", "Parser"),
	).Qual("github.com/mehulgecg/SwiftRewriter/pkg/rewriter", "Options").Block(
		jen.Return(jen.Qual("github.com/mehulgecg/SwiftRewriter/pkg/rewriter", "Options").Values(jen.Dict{
			jen.Id("Parser"):          jen.Id("p"),
			jen.Id("IterationCap"):    jen.Lit(cfg.IterationCap),
			jen.Id("Workers"):         jen.Lit(cfg.Workers),
			jen.Id("SyntaxPasses"):    jen.Id("SyntaxPasses"),
			jen.Id("IntentionPasses"): jen.Id("IntentionPasses"),
		})),
	)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering pass file: %w", err)
	}
	return buf.Bytes(), nil
}
