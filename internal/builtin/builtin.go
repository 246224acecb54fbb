// SPDX-License-Identifier: MPL-2.0

// Package builtin embeds the base generator command modules.
package builtin

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
)

// Location is the package location recorded for the embedded generators.
const Location = "builtin:"

//go:embed generators
var generators embed.FS

// Registrar registers a generator package.
type Registrar interface {
	RegisterPackage(fsys fs.FS, location, scope string, patterns []string) ([]namespace.Namespace, error)
}

// FS returns the embedded generator tree.
func FS() fs.FS {
	return generators
}

// Register registers the base generators under the default scope. A
// non-empty dir replaces the embedded set with the package rooted there.
func Register(reg Registrar, dir string, patterns []string) ([]namespace.Namespace, error) {
	fsys, location := FS(), Location
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("base generators directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("base generators directory %s is not a directory", dir)
		}
		fsys, location = os.DirFS(dir), dir
	}
	return reg.RegisterPackage(fsys, location, namespace.DefaultScope, patterns)
}
