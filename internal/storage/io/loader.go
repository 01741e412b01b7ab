package io

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/blendrun/blendrun/internal/model"
)

// ConfigYAMLRepository loads executor configuration from YAML files.
type ConfigYAMLRepository struct {
	fs fs.FS
}

// NewConfigYAMLRepository creates a new YAML config repository.
func NewConfigYAMLRepository(filesystem fs.FS) *ConfigYAMLRepository {
	return &ConfigYAMLRepository{fs: filesystem}
}

// GetConfig loads an executor configuration from a YAML file and returns a
// validated domain model. Empty fields stay zero so flags can override them.
func (r *ConfigYAMLRepository) GetConfig(ctx context.Context, path string) (model.ExecutorConfig, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.ExecutorConfig{}, fmt.Errorf("reading config file: %w", err)
	}

	if ctx.Err() != nil {
		return model.ExecutorConfig{}, ctx.Err()
	}

	var cfg ExecutorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.ExecutorConfig{}, fmt.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return model.ExecutorConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg.toModel(), nil
}

// ExecutorConfig represents the YAML structure for executor configuration.
type ExecutorConfig struct {
	Blender  string `yaml:"blender"`
	Mode     string `yaml:"mode"`
	Timeout  string `yaml:"timeout"`
	TempRoot string `yaml:"temp_root"`
}

func (c ExecutorConfig) validate() error {
	switch model.InvocationMode(c.Mode) {
	case "", model.ModeHeadless, model.ModeInteractive:
	default:
		return fmt.Errorf("mode must be %q or %q, got: %q", model.ModeHeadless, model.ModeInteractive, c.Mode)
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("timeout is not a valid duration: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got: %s", c.Timeout)
		}
	}

	return nil
}

func (c ExecutorConfig) toModel() model.ExecutorConfig {
	cfg := model.ExecutorConfig{
		BinaryPath: c.Blender,
		Mode:       model.InvocationMode(c.Mode),
		TempRoot:   c.TempRoot,
	}

	if c.Timeout != "" {
		d, _ := time.ParseDuration(c.Timeout)
		cfg.DefaultTimeout = d
	}

	return cfg
}
