// Package config loads rewriter settings from TOML. Every key is optional;
// keys left out keep the value from Default.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/mehulgecg/SwiftRewriter/pkg/intentpass"
	"github.com/mehulgecg/SwiftRewriter/pkg/logging"
	"github.com/mehulgecg/SwiftRewriter/pkg/rewrite"
	"github.com/mehulgecg/SwiftRewriter/pkg/scope"
)

var (
	// ErrUnknownPass is returned when a pass list names a pass that is not
	// registered.
	ErrUnknownPass = errors.New("unknown pass")
	// ErrInvalid is returned for values outside their allowed range.
	ErrInvalid = errors.New("invalid configuration")
)

// Config is the complete set of run settings.
type Config struct {
	LogLevel string `toml:"log_level"`
	// Workers bounds front-end parallelism; 0 means one per CPU.
	Workers int `toml:"workers"`
	// IterationCap bounds syntax-pass subtree revisits.
	IterationCap int `toml:"iteration_cap"`
	// AuditDB is the path of the SQLite history store; empty disables it.
	AuditDB         string   `toml:"audit_db"`
	SyntaxPasses    []string `toml:"syntax_passes"`
	IntentionPasses []string `toml:"intention_passes"`
	// DeclarationExts lists extensions of declaration-only units.
	DeclarationExts []string `toml:"declaration_exts"`
	// Providers names the built-in globals providers to load.
	Providers []string `toml:"providers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var providers []string
	for _, p := range scope.DefaultProviders() {
		providers = append(providers, p.Name())
	}
	return &Config{
		LogLevel:        logging.LevelInfo,
		IterationCap:    rewrite.DefaultIterationCap,
		SyntaxPasses:    append([]string(nil), rewrite.DefaultOrder...),
		IntentionPasses: append([]string(nil), intentpass.DefaultOrder...),
		DeclarationExts: []string{".h"},
		Providers:       providers,
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(buff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over Default and validates the result.
func Parse(buff []byte) (*Config, error) {
	tree, err := toml.LoadBytes(buff)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	raw := &Config{}
	if err := tree.Unmarshal(raw); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg := Default()
	if tree.Has("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	if tree.Has("workers") {
		cfg.Workers = raw.Workers
	}
	if tree.Has("iteration_cap") {
		cfg.IterationCap = raw.IterationCap
	}
	if tree.Has("audit_db") {
		cfg.AuditDB = raw.AuditDB
	}
	if tree.Has("syntax_passes") {
		cfg.SyntaxPasses = raw.SyntaxPasses
	}
	if tree.Has("intention_passes") {
		cfg.IntentionPasses = raw.IntentionPasses
	}
	if tree.Has("declaration_exts") {
		cfg.DeclarationExts = raw.DeclarationExts
	}
	if tree.Has("providers") {
		cfg.Providers = raw.Providers
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	if c.IterationCap < 0 {
		return fmt.Errorf("%w: iteration_cap must not be negative", ErrInvalid)
	}
	for _, name := range c.SyntaxPasses {
		if _, ok := rewrite.Lookup(name); !ok {
			return fmt.Errorf("%w: syntax pass %q", ErrUnknownPass, name)
		}
	}
	for _, name := range c.IntentionPasses {
		if _, ok := intentpass.Lookup(name); !ok {
			return fmt.Errorf("%w: intention pass %q", ErrUnknownPass, name)
		}
	}
	for _, name := range c.Providers {
		if _, ok := scope.Provider(name); !ok {
			return fmt.Errorf("%w: globals provider %q", ErrInvalid, name)
		}
	}
	return nil
}

// GlobalsProviders resolves the configured provider names.
func (c *Config) GlobalsProviders() []scope.GlobalsProvider {
	var out []scope.GlobalsProvider
	for _, name := range c.Providers {
		if p, ok := scope.Provider(name); ok {
			out = append(out, p)
		}
	}
	return out
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
