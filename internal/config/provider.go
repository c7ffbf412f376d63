// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions narrows where configuration is read from.
type LoadOptions struct {
	// ConfigFilePath pins loading to one specific file (the --config
	// flag). A missing file is an error; no directory fallback happens.
	ConfigFilePath string
	// ConfigDirPath replaces the platform config directory lookup.
	ConfigDirPath string
}

// Provider resolves configuration for the CLI surfaces.
type Provider interface {
	// Load resolves the configuration. When no config file exists under
	// the resolved directory, the built-in defaults are returned without
	// error; a file that exists but fails validation is an error.
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider returns the file-backed Provider.
func NewProvider() Provider { return &fileProvider{} }

func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve reads configuration and also reports which file it came from.
// The path is empty when the defaults were used.
func Resolve(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}
