// Package config loads the fino configuration file.
//
// Configuration is one YAML document validated against an embedded CUE
// schema before decoding, so a typo in a key or an out-of-range level is
// rejected with a position-bearing message instead of being silently
// ignored.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Locator configures the storage key layout.
type Locator struct {
	Partitions       []string `yaml:"partitions"`
	NameField        string   `yaml:"name_field"`
	DefaultExtension string   `yaml:"default_extension"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Config is the decoded configuration document.
type Config struct {
	Root    string  `yaml:"root"`
	Catalog string  `yaml:"catalog"`
	Locator Locator `yaml:"locator"`
	Log     Log     `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Root: ".fino/collection",
		Log:  Log{Level: "info"},
	}
}

// Load reads, validates, and decodes a configuration file. Fields absent
// from the document keep their Default values.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return Parse(path, raw)
}

// Parse validates a YAML configuration document against the embedded
// schema and decodes it. The filename is used only in error positions.
func Parse(filename string, raw []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource)
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("parse config: compile schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, raw)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(); err != nil {
		return Config{}, fmt.Errorf("parse config: invalid document: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: decode: %w", err)
	}
	return cfg, nil
}
