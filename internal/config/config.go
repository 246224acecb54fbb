// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/jhipster/generator-jhipster-sub006/internal/issue"
	"github.com/jhipster/generator-jhipster-sub006/pkg/cueutil"
)

const (
	// AppName is the application name used for config and cache directories.
	AppName = "jhipster"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes every environment override, e.g. JHIPSTER_INSTALL_TIMEOUT.
	EnvPrefix = "JHIPSTER"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the platform configuration directory for the tool.
//
//nolint:revive // config.ConfigDir reads better at call sites than config.Dir
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName, "blueprints")
	}
	return filepath.Join(dir, AppName, "blueprints")
}

func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := configPath(opts)
	if err != nil {
		return nil, "", err
	}

	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", loadError(path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", loadError(path, fmt.Errorf("failed to decode config: %w", err))
	}
	return &cfg, path, nil
}

// configPath picks the file to load: the explicit path (which must exist),
// then the config directory, then the working directory. Empty means defaults only.
func configPath(opts LoadOptions) (string, error) {
	fileName := ConfigFileName + "." + ConfigFileExt

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path passed to --config").
				WithSuggestion("Run 'jhipster config show' to see the defaults").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	if p := filepath.Join(dir, fileName); fileExists(p) {
		return p, nil
	}
	if fileExists(fileName) {
		return fileName, nil
	}
	return "", nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the values match the configuration schema").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("generators_dir", d.GeneratorsDir)
	v.SetDefault("package_paths", d.PackagePaths)
	v.SetDefault("cache_dir", d.CacheDir)
	v.SetDefault("lookup_patterns", d.LookupPatterns)
	v.SetDefault("install.timeout", d.Install.Timeout)
	v.SetDefault("install.git_url_template", d.Install.GitURLTemplate)
	v.SetDefault("install.command", d.Install.Command)
	v.SetDefault("install.enabled", d.Install.Enabled)
	v.SetDefault("ui.verbose", d.UI.Verbose)
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Fields are optional, so validation is not concrete and the result is
// decoded to a map rather than through cueutil.ParseAndDecode.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var m map[string]any
	if err := unified.Decode(&m); err != nil {
		return cueutil.FormatError(err, path)
	}
	if err := v.MergeConfigMap(m); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a config.cue document.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// JHipster tool configuration\n\n")
	if cfg.GeneratorsDir != "" {
		fmt.Fprintf(&sb, "generators_dir: %q\n", cfg.GeneratorsDir)
	}
	writeList(&sb, "package_paths", cfg.PackagePaths)
	fmt.Fprintf(&sb, "cache_dir: %q\n", cfg.CacheDir)
	writeList(&sb, "lookup_patterns", cfg.LookupPatterns)

	sb.WriteString("\ninstall: {\n")
	fmt.Fprintf(&sb, "\ttimeout: %q\n", cfg.Install.Timeout.String())
	if cfg.Install.GitURLTemplate != "" {
		fmt.Fprintf(&sb, "\tgit_url_template: %q\n", cfg.Install.GitURLTemplate)
	}
	fmt.Fprintf(&sb, "\tcommand: %q\n", cfg.Install.Command)
	fmt.Fprintf(&sb, "\tenabled: %v\n", cfg.Install.Enabled)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	return sb.String()
}

func writeList(sb *strings.Builder, key string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(sb, "%s: []\n", key)
		return
	}
	fmt.Fprintf(sb, "%s: [\n", key)
	for _, it := range items {
		fmt.Fprintf(sb, "\t%q,\n", it)
	}
	sb.WriteString("]\n")
}
