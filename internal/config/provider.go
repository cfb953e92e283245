// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"log/slog"
)

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set.
		ConfigFilePath string
		// ConfigDirPath overrides the config directory lookup when set.
		ConfigDirPath string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// StaticProvider serves a fixed configuration and ignores LoadOptions.
	// A nil Config serves DefaultConfig. Err, when set, is returned instead.
	StaticProvider struct {
		Config *Config
		Err    error
	}

	fileProvider struct{}
)

// NewProvider creates a provider that reads CUE files and UTCS_*
// environment variables.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source. The returned
// Config.Source names the file used, or is empty when only defaults and
// environment overrides apply.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, path, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	if path == "" {
		slog.Debug("no configuration file found, using defaults")
	}
	return cfg, nil
}

// Load returns a shallow copy of the configured Config so callers may
// adjust scalar fields freely.
func (p StaticProvider) Load(ctx context.Context, _ LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Config == nil {
		return DefaultConfig(), nil
	}
	cfg := *p.Config
	return &cfg, nil
}
