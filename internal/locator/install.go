// SPDX-License-Identifier: MPL-2.0

package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jhipster/generator-jhipster-sub006/internal/blueprint"
	"github.com/jhipster/generator-jhipster-sub006/internal/shell"
)

// DefaultInstallCommand installs a blueprint with npm into the package cache.
const DefaultInstallCommand = `npm install --no-save --no-package-lock --prefix "$BLUEPRINT_DIR" "$BLUEPRINT_SPEC"`

type (
	// ChainInstaller tries each installer in order until one succeeds.
	ChainInstaller []Installer

	// ShellInstaller runs an install script in the embedded shell interpreter.
	// The script sees BLUEPRINT_NAME, BLUEPRINT_VERSION, BLUEPRINT_SPEC and
	// BLUEPRINT_DIR and must leave the package at BLUEPRINT_DIR/<name> or
	// BLUEPRINT_DIR/node_modules/<name>.
	ShellInstaller struct {
		Script string
		Runner shell.Runner
	}
)

// Install implements Installer.
func (c ChainInstaller) Install(ctx context.Context, bp blueprint.Descriptor, dir string) (string, error) {
	if len(c) == 0 {
		return "", ErrNotInstalled
	}

	var errs []error
	for _, inst := range c {
		loc, err := inst.Install(ctx, bp, dir)
		if err == nil {
			return loc, nil
		}
		slog.Debug("installer failed", "blueprint", bp.Name, "error", err)
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}

// NewShellInstaller returns a ShellInstaller running script, or DefaultInstallCommand when empty.
func NewShellInstaller(script string, runner shell.Runner) *ShellInstaller {
	if script == "" {
		script = DefaultInstallCommand
	}
	if runner == nil {
		runner = shell.NewRunner()
	}
	return &ShellInstaller{Script: script, Runner: runner}
}

// Install implements Installer.
func (s *ShellInstaller) Install(ctx context.Context, bp blueprint.Descriptor, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create package cache: %w", err)
	}

	err := s.Runner.Run(ctx, s.Script, shell.Options{
		Name:       "install " + bp.Name,
		Dir:        dir,
		InheritEnv: true,
		Env: []string{
			"BLUEPRINT_NAME=" + bp.Name,
			"BLUEPRINT_VERSION=" + bp.Version,
			"BLUEPRINT_SPEC=" + bp.Spec(),
			"BLUEPRINT_DIR=" + dir,
		},
	})
	if err != nil {
		return "", err
	}

	for _, p := range []string{
		filepath.Join(dir, filepath.FromSlash(bp.Name)),
		filepath.Join(dir, "node_modules", filepath.FromSlash(bp.Name)),
	} {
		if isDir(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("install script finished but %s was not found in %s", bp.Name, dir)
}
