package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kr/pretty"
)

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level = "debug"
workers = 3
syntax_passes = ["Foundation", "Simplifier"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Default()
	want.LogLevel = "debug"
	want.Workers = 3
	want.SyntaxPasses = []string{"Foundation", "Simplifier"}
	if diff := pretty.Diff(cfg, want); len(diff) > 0 {
		t.Errorf("config mismatch:\n%v", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := pretty.Diff(cfg, Default()); len(diff) > 0 {
		t.Errorf("empty config differs from default:\n%v", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown syntax pass", `syntax_passes = ["Nope"]`, ErrUnknownPass},
		{"unknown intention pass", `intention_passes = ["FileTypeMerging", "Nope"]`, ErrUnknownPass},
		{"negative workers", `workers = -1`, ErrInvalid},
		{"negative cap", `iteration_cap = -2`, ErrInvalid},
		{"bad level", `log_level = "loud"`, ErrInvalid},
		{"unknown provider", `providers = ["AppKit"]`, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := Parse([]byte("workers = ")); err == nil {
		t.Error("expected a syntax error")
	}
}

func TestLoadRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.AuditDB = "history.db"
	cfg.IntentionPasses = []string{"FileTypeMerging"}
	buff, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "rewriter.toml")
	if err := os.WriteFile(path, buff, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := pretty.Diff(got, cfg); len(diff) > 0 {
		t.Errorf("round trip mismatch:\n%v", diff)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestGlobalsProviders(t *testing.T) {
	ps := Default().GlobalsProviders()
	if len(ps) != 1 || ps[0].Name() != "CoreGraphics" {
		t.Errorf("providers = %v", ps)
	}
}
