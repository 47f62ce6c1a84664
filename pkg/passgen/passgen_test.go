package passgen

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/mehulgecg/SwiftRewriter/pkg/config"
)

func TestGenerateDefault(t *testing.T) {
	code, err := Generate("pipeline", config.Default())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	src := string(code)

	if _, err := parser.ParseFile(token.NewFileSet(), "passes.go", code, 0); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}

	tests := []struct {
		name string
		want string
	}{
		{"header", "// Code generated by rewriter-passgen. DO NOT EDIT."},
		{"package", "package pipeline"},
		{"syntax list", "var SyntaxPasses = []rewrite.Constructor{"},
		{"syntax constructor", "rewrite.AllocInit,"},
		{"pointer pass", "&intentpass.FileTypeMerging{}"},
		{"value pass", "return intentpass.DetectNonnullReturns{}"},
		{"options", "func Options(p frontend.Parser) rewriter.Options"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(src, tt.want) {
				t.Errorf("generated code missing %q\n%s", tt.want, src)
			}
		})
	}

	// Repeated names are kept; the simplifier runs twice by default.
	if n := strings.Count(src, "rewrite.Simplifier,"); n != 2 {
		t.Errorf("Simplifier appears %d times, want 2", n)
	}
	// Order follows the configuration.
	if strings.Index(src, "rewrite.AllocInit") > strings.Index(src, "rewrite.Foundation") {
		t.Error("syntax passes out of order")
	}
}

func TestGenerateUnknownPass(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"syntax", func(c *config.Config) { c.SyntaxPasses = append(c.SyntaxPasses, "Bogus") }},
		{"intention", func(c *config.Config) { c.IntentionPasses = []string{"Bogus"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)
			if _, err := Generate("pipeline", cfg); !errors.Is(err, config.ErrUnknownPass) {
				t.Errorf("err = %v, want ErrUnknownPass", err)
			}
		})
	}
}
