// SPDX-License-Identifier: MPL-2.0

package config

import (
	"time"

	"github.com/jhipster/generator-jhipster-sub006/internal/locator"
	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
)

type (
	// Config is the effective tool configuration.
	Config struct {
		// GeneratorsDir replaces the embedded base generators when set.
		GeneratorsDir  string        `json:"generators_dir,omitempty" mapstructure:"generators_dir"`
		PackagePaths   []string      `json:"package_paths" mapstructure:"package_paths"`
		CacheDir       string        `json:"cache_dir" mapstructure:"cache_dir"`
		LookupPatterns []string      `json:"lookup_patterns" mapstructure:"lookup_patterns"`
		Install        InstallConfig `json:"install" mapstructure:"install"`
		UI             UIConfig      `json:"ui" mapstructure:"ui"`

		// Source is the config file that was read, empty for defaults only.
		Source string `json:"-" mapstructure:"-"`
	}

	// InstallConfig controls how missing blueprints are fetched.
	InstallConfig struct {
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
		// GitURLTemplate enables git installs; "{name}" is replaced by the package name.
		GitURLTemplate string `json:"git_url_template,omitempty" mapstructure:"git_url_template"`
		// Command is a POSIX shell script run by the embedded interpreter.
		Command string `json:"command" mapstructure:"command"`
		Enabled bool   `json:"enabled" mapstructure:"enabled"`
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		PackagePaths:   []string{},
		CacheDir:       defaultCacheDir(),
		LookupPatterns: append([]string(nil), namespace.DefaultLookupPatterns...),
		Install: InstallConfig{
			Timeout: locator.DefaultInstallTimeout,
			Command: locator.DefaultInstallCommand,
			Enabled: true,
		},
	}
}
