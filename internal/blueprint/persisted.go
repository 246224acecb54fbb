// SPDX-License-Identifier: MPL-2.0

package blueprint

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ProjectConfigFile is the persisted project configuration file.
const ProjectConfigFile = ".yo-rc.json"

// blueprintsKey locates the blueprint list inside ProjectConfigFile.
const blueprintsKey = "generator-jhipster.blueprints"

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadPersisted reads the blueprints recorded in the project configuration
// of projectDir. A missing file yields no blueprints. Entries that fail
// validation are skipped with a warning.
func LoadPersisted(projectDir string) ([]Descriptor, error) {
	path := filepath.Join(projectDir, ProjectConfigFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var entries []Descriptor
	if err := v.UnmarshalKey(blueprintsKey, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode blueprints in %s: %w", path, err)
	}

	out := make([]Descriptor, 0, len(entries))
	for i, e := range entries {
		if err := validate.Struct(e); err != nil {
			slog.Warn("skipping invalid persisted blueprint", "file", path, "index", i, "error", err)
			continue
		}
		e.Name = NormalizeName(e.Name)
		out = append(out, e)
	}
	return out, nil
}
