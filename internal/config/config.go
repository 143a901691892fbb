// SPDX-License-Identifier: Apache-2.0

// Package config loads mdext settings.
//
// Settings come from a single file: the one passed with --config, or else the
// first of .mdext.yaml, .mdext.yml and .mdext.toml found in the input
// directory. Without a file the defaults apply. Every loaded file is checked
// against an embedded CUE schema before use.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/mdextproj/mdext/internal/combine"
	"github.com/mdextproj/mdext/internal/directive"
	"github.com/mdextproj/mdext/internal/document"
)

// Config is the complete set of mdext settings.
type Config struct {
	// TemplateExt marks template documents.
	TemplateExt string `yaml:"template_ext" toml:"template_ext" json:"template_ext"`
	// SourceExts mark fragment documents.
	SourceExts []string `yaml:"source_exts" toml:"source_exts" json:"source_exts"`
	// PlainExts mark resolved markdown, which is passed through unchanged and
	// may also be inserted.
	PlainExts []string `yaml:"plain_exts" toml:"plain_exts" json:"plain_exts"`
	// OutputExt replaces the template extension on output documents.
	OutputExt string `yaml:"output_ext" toml:"output_ext" json:"output_ext"`

	// MaxPasses is the resolution pass limit per template.
	MaxPasses int `yaml:"max_passes" toml:"max_passes" json:"max_passes"`
	// Workers is the number of concurrent file reads. 0 means one per CPU.
	Workers int `yaml:"workers" toml:"workers" json:"workers"`
	// MaxOutputBytes bounds a single resolved document. 0 disables the guard.
	MaxOutputBytes int `yaml:"max_output_bytes" toml:"max_output_bytes" json:"max_output_bytes"`

	Log LogConfig `yaml:"log" toml:"log" json:"log"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level" json:"level"`
	// Format is text or json.
	Format string `yaml:"format" toml:"format" json:"format"`
}

// FileNames are the configuration files looked for in the input directory,
// in order.
var FileNames = []string{".mdext.yaml", ".mdext.yml", ".mdext.toml"}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		TemplateExt:    document.TemplateExt,
		SourceExts:     []string{document.SourceExt},
		PlainExts:      []string{document.PlainExt},
		OutputExt:      document.OutputExt,
		MaxPasses:      directive.DefaultPassLimit,
		MaxOutputBytes: combine.DefaultMaxOutputBytes,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the file at path on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parsing %s: unknown key %q", path, undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}

	cfg.fillEmpty()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads explicit if set, otherwise the first configuration file found
// in root, otherwise the defaults. It returns the path that was loaded, or ""
// for the defaults.
func Resolve(explicit, root string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := Load(explicit)
		return cfg, explicit, err
	}
	if root != "" {
		for _, name := range FileNames {
			candidate := filepath.Join(root, name)
			if _, err := os.Stat(candidate); err == nil {
				cfg, err := Load(candidate)
				return cfg, candidate, err
			} else if !errors.Is(err, os.ErrNotExist) {
				return nil, "", fmt.Errorf("checking %s: %w", candidate, err)
			}
		}
	}
	return Default(), "", nil
}

// fillEmpty restores defaults for list fields a file set to empty.
func (c *Config) fillEmpty() {
	def := Default()
	if len(c.SourceExts) == 0 {
		c.SourceExts = def.SourceExts
	}
	if len(c.PlainExts) == 0 {
		c.PlainExts = def.PlainExts
	}
}

// Classifier builds the role classifier for these settings.
func (c *Config) Classifier() *document.Classifier {
	return document.NewClassifier(c.TemplateExt, c.SourceExts, c.PlainExts)
}

// NewLogger builds a logger writing to w according to c.
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch c.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q (want text or json)", c.Format)
}
