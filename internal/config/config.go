// Package config loads the engine's optional ambient settings, mirroring
// the teacher's evaluator.Config/DefaultConfig pattern (a plain struct with
// a package-level default, loaded from an optional file rather than
// required at every call site) but for the JAS translator/evaluator pair
// instead of DWScript's interpreter.
package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/sepcon/go-jas/internal/jerrors"
)

// Config holds the engine-wide settings a host application may override by
// loading a YAML document. Zero values are never valid on their own; use
// Default or Load, which fills in DefaultConfig's values for anything the
// document omits.
type Config struct {
	// MaxRecursionDepth bounds nested Eval calls (local-scope frames,
	// list-algorithm predicates, macro expansion); exceeding it raises an
	// EvaluationErrorKind error instead of overflowing the Go call stack.
	MaxRecursionDepth int `yaml:"max_recursion_depth"`

	// EngineVersion is the version a document's "$jas.version" gate is
	// compared against (translator.EngineVersion's default value, kept
	// here too so a host can pin an older compatibility line).
	EngineVersion string `yaml:"jas_version"`

	// Modules lists built-in module names; omitted or empty is filled in
	// with all of them (cif, list, dict, alg). pkg/jas.NewWithConfig does
	// not consult it: it always registers all four built-in modules.
	Modules []string `yaml:"modules"`
}

// DefaultConfig mirrors the teacher's package-level DefaultConfig: the
// settings a caller gets by not loading any document at all.
var DefaultConfig = Config{
	MaxRecursionDepth: 256,
	EngineVersion:     "1.0.0",
	Modules:           []string{"cif", "list", "dict", "alg"},
}

// Default returns a copy of DefaultConfig, safe for a caller to mutate.
func Default() Config {
	return DefaultConfig
}

// Load reads and parses a YAML config document from path, filling in
// DefaultConfig's values for any field the document leaves zero.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, jerrors.Syntax("config: reading %q: %v", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML config document from data, the way Load does but
// without touching the filesystem (used by tests and by hosts that already
// have the document in memory).
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, jerrors.Syntax("config: parsing YAML: %v", err)
	}
	if cfg.MaxRecursionDepth <= 0 {
		cfg.MaxRecursionDepth = DefaultConfig.MaxRecursionDepth
	}
	if cfg.EngineVersion == "" {
		cfg.EngineVersion = DefaultConfig.EngineVersion
	}
	if len(cfg.Modules) == 0 {
		cfg.Modules = DefaultConfig.Modules
	}
	return cfg, nil
}
