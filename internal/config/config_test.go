package config

import "testing"

func TestDefaultConfig(t *testing.T) {
	c := Default()
	if c.MaxRecursionDepth != 256 || c.EngineVersion != "1.0.0" || len(c.Modules) != 4 {
		t.Fatalf("unexpected default config: %+v", c)
	}
}

func TestParseFillsOmittedFields(t *testing.T) {
	c, err := Parse([]byte(`jas_version: "2.0.0"`))
	if err != nil {
		t.Fatal(err)
	}
	if c.EngineVersion != "2.0.0" {
		t.Fatalf("expected override to apply, got %q", c.EngineVersion)
	}
	if c.MaxRecursionDepth != DefaultConfig.MaxRecursionDepth {
		t.Fatalf("expected omitted field to fall back to default, got %d", c.MaxRecursionDepth)
	}
	if len(c.Modules) != len(DefaultConfig.Modules) {
		t.Fatalf("expected omitted modules to fall back to default, got %v", c.Modules)
	}
}

func TestParseOverridesAllFields(t *testing.T) {
	c, err := Parse([]byte("max_recursion_depth: 32\njas_version: \"1.2.0\"\nmodules: [cif, list]\n"))
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxRecursionDepth != 32 || c.EngineVersion != "1.2.0" || len(c.Modules) != 2 {
		t.Fatalf("unexpected parsed config: %+v", c)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("not: [valid: yaml")); err == nil {
		t.Fatal("expected malformed YAML to error")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load("/nonexistent/go-jas-config.yaml"); err == nil {
		t.Fatal("expected a missing config file to error")
	}
}
