// SPDX-License-Identifier: MPL-2.0

package sharedconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FileBaseName is the shared configuration file name without extension.
	FileBaseName = "shared-options"
	// LocalDir holds the project's own shared configuration.
	LocalDir = ".jhipster"
	// BlueprintDir holds a blueprint package's shared configuration.
	BlueprintDir = "cli"
)

// Extensions lists the supported formats in lookup order.
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

var (
	// ErrNotFound is returned by Load when no shared configuration file exists.
	ErrNotFound = errors.New("shared configuration not found")
	// ErrLoadFailed is the sentinel wrapped by LoadError.
	ErrLoadFailed = errors.New("shared configuration load failed")
)

type (
	// Source is a blueprint's package location in resolution order.
	Source struct {
		Name     string
		Location string
	}

	// LoadError reports a shared configuration file that exists but cannot be decoded.
	LoadError struct {
		Path  string
		Cause error
	}
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load shared configuration %s: %v", e.Path, e.Cause)
}

// Unwrap returns ErrLoadFailed and the cause.
func (e *LoadError) Unwrap() []error {
	return []error{ErrLoadFailed, e.Cause}
}

// LocalPath returns the base path (without extension) of a project's shared configuration.
func LocalPath(projectDir string) string {
	return filepath.Join(projectDir, LocalDir, FileBaseName)
}

// BlueprintPath returns the base path (without extension) of a blueprint's shared configuration.
func BlueprintPath(location string) string {
	return filepath.Join(location, BlueprintDir, FileBaseName)
}

// Load reads the first existing file among base+Extensions.
func Load(base string) (Config, string, error) {
	for _, ext := range Extensions {
		path := base + ext
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, &LoadError{Path: path, Cause: err}
		}
		cfg, err := decode(data, ext)
		if err != nil {
			return nil, path, &LoadError{Path: path, Cause: err}
		}
		return cfg, path, nil
	}
	return nil, "", ErrNotFound
}

func decode(data []byte, ext string) (Config, error) {
	cfg := Config{}
	var err error
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Config{}
	}
	return cfg, nil
}

// Assemble merges the project's shared configuration with each blueprint's,
// in order. Missing or unreadable files contribute nothing and are logged.
func Assemble(localBase string, sources []Source) Config {
	acc := Config{}

	if localBase != "" {
		local, path, err := Load(localBase)
		switch {
		case err == nil:
			acc = Merge(acc, local)
		case errors.Is(err, ErrNotFound):
		default:
			slog.Info("ignoring project shared options", "file", path, "error", err)
		}
	}

	for _, src := range sources {
		cfg, path, err := Load(BlueprintPath(src.Location))
		switch {
		case err == nil:
			acc = Merge(acc, cfg)
		case errors.Is(err, ErrNotFound):
			slog.Info("no shared options found for blueprint", "blueprint", src.Name)
		default:
			slog.Info("ignoring shared options of blueprint", "blueprint", src.Name, "file", path, "error", err)
		}
	}

	return acc
}
