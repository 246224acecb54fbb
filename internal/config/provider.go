// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where configuration is read from.
	LoadOptions struct {
		// ConfigFilePath is the --config flag; the file must exist when set.
		ConfigFilePath string
		// ConfigDirPath replaces the platform config directory. Tests point it
		// at a temp dir so the developer's own config.cue is never read.
		ConfigDirPath string
	}

	// Provider resolves the effective configuration for one invocation.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// ProviderFunc adapts a plain function to Provider.
	ProviderFunc func(ctx context.Context, opts LoadOptions) (*Config, error)
)

// Load calls f.
func (f ProviderFunc) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return f(ctx, opts)
}

// NewProvider returns the provider that layers config.cue over the defaults
// and JHIPSTER_* environment variables over both.
func NewProvider() Provider {
	return ProviderFunc(func(ctx context.Context, opts LoadOptions) (*Config, error) {
		cfg, path, err := loadWithOptions(ctx, opts)
		if err != nil {
			return nil, err
		}
		cfg.Source = path
		return cfg, nil
	})
}
