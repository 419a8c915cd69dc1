// Package config loads gobf settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gobf/pkg/compiler"
	"gobf/pkg/engine"
)

// Config collects the settings shared by the gobf commands. Fields left
// out of a file keep their Default values.
type Config struct {
	TapeSize   int  `yaml:"tape_size"`
	Optimize   bool `yaml:"optimize"`
	Strict     bool `yaml:"strict"`
	MaxNesting int  `yaml:"max_nesting"`
	Stats      bool `yaml:"stats"`

	Console Console `yaml:"console"`
	Desktop Desktop `yaml:"desktop"`
}

// Console configures the interactive REPL.
type Console struct {
	History string `yaml:"history"`
	// StepLimit stops an entry after this many engine steps; 0 means no limit.
	StepLimit uint64 `yaml:"step_limit"`
}

// Desktop configures the tape viewer window.
type Desktop struct {
	StepsPerFrame int `yaml:"steps_per_frame"`
	Columns       int `yaml:"columns"`
	Rows          int `yaml:"rows"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		TapeSize:   engine.DefaultTapeSize,
		Optimize:   true,
		MaxNesting: compiler.DefaultMaxNesting,
		Console: Console{
			History:   ".gobf_history",
			StepLimit: 50_000_000,
		},
		Desktop: Desktop{
			StepsPerFrame: 2000,
			Columns:       16,
			Rows:          8,
		},
	}
}

// Load reads path on top of Default. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", abs, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.TapeSize < 1 {
		return fmt.Errorf("tape_size must be at least 1, got %d", c.TapeSize)
	}
	if c.MaxNesting < 1 {
		return fmt.Errorf("max_nesting must be at least 1, got %d", c.MaxNesting)
	}
	if c.Desktop.StepsPerFrame < 1 {
		return fmt.Errorf("desktop.steps_per_frame must be at least 1, got %d", c.Desktop.StepsPerFrame)
	}
	if c.Desktop.Columns < 1 || c.Desktop.Rows < 1 {
		return fmt.Errorf("desktop grid must be at least 1x1, got %dx%d", c.Desktop.Columns, c.Desktop.Rows)
	}
	return nil
}

// CompileOptions maps the parser and optimizer settings.
func (c *Config) CompileOptions() compiler.Options {
	return compiler.Options{
		Optimize:   c.Optimize,
		Strict:     c.Strict,
		MaxNesting: c.MaxNesting,
	}
}

// Save writes c to path as YAML.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
