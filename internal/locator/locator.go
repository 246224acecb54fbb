// SPDX-License-Identifier: MPL-2.0

// Package locator finds the installed package of each active blueprint,
// installing it on demand, and registers its generators.
package locator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhipster/generator-jhipster-sub006/internal/blueprint"
	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
)

// DefaultInstallTimeout bounds a single on-demand install.
const DefaultInstallTimeout = 5 * time.Minute

var (
	// ErrBlueprintUnresolvable is the sentinel wrapped by BlueprintUnresolvableError.
	ErrBlueprintUnresolvable = errors.New("blueprint cannot be resolved")

	// ErrNotInstalled is returned by installers that have nothing to install with.
	ErrNotInstalled = errors.New("blueprint is not installed")
)

type (
	// Registrar records located packages. *namespace.Registry implements it.
	Registrar interface {
		PackageLocation(scope string) (string, bool)
		RegisterPackage(fsys fs.FS, location, scope string, patterns []string) ([]namespace.Namespace, error)
	}

	// Installer makes a blueprint package available under dir and returns its location.
	Installer interface {
		Install(ctx context.Context, bp blueprint.Descriptor, dir string) (string, error)
	}

	// Locator resolves blueprint packages. Concurrent installs of the same
	// blueprint are collapsed into one.
	Locator struct {
		registry    Registrar
		searchPaths []string
		cacheDir    string
		patterns    []string
		installer   Installer
		timeout     time.Duration
		group       singleflight.Group
	}

	// Option configures a Locator.
	Option func(*Locator)

	// BlueprintUnresolvableError reports a blueprint whose package could be
	// neither found nor installed. The CLI cannot continue after it.
	BlueprintUnresolvableError struct {
		Blueprint string
		Cause     error
	}
)

// Error implements the error interface.
func (e *BlueprintUnresolvableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("blueprint %s cannot be resolved", e.Blueprint)
	}
	return fmt.Sprintf("blueprint %s cannot be resolved: %v", e.Blueprint, e.Cause)
}

// Unwrap returns ErrBlueprintUnresolvable and the cause.
func (e *BlueprintUnresolvableError) Unwrap() []error {
	return []error{ErrBlueprintUnresolvable, e.Cause}
}

// WithSearchPaths sets the directories scanned for installed packages, in order.
func WithSearchPaths(paths ...string) Option {
	return func(l *Locator) {
		l.searchPaths = append(l.searchPaths, paths...)
	}
}

// WithCacheDir sets the directory installers write packages into. It is also searched.
func WithCacheDir(dir string) Option {
	return func(l *Locator) {
		l.cacheDir = dir
	}
}

// WithLookupPatterns sets the command module patterns used to register packages.
func WithLookupPatterns(patterns ...string) Option {
	return func(l *Locator) {
		l.patterns = patterns
	}
}

// WithInstaller enables on-demand installation.
func WithInstaller(i Installer) Option {
	return func(l *Locator) {
		l.installer = i
	}
}

// WithInstallTimeout bounds each install. Non-positive values keep the default.
func WithInstallTimeout(d time.Duration) Option {
	return func(l *Locator) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// New creates a Locator registering into registry.
func New(registry Registrar, opts ...Option) *Locator {
	l := &Locator{
		registry: registry,
		timeout:  DefaultInstallTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the package location of bp. A scope that is already
// registered is returned as is, so Locate can be called repeatedly.
func (l *Locator) Locate(ctx context.Context, bp blueprint.Descriptor) (string, error) {
	if loc, ok := l.registry.PackageLocation(bp.Scope()); ok {
		return loc, nil
	}

	v, err, shared := l.group.Do(bp.Name, func() (any, error) {
		if loc, ok := l.registry.PackageLocation(bp.Scope()); ok {
			return loc, nil
		}
		return l.locate(ctx, bp)
	})
	if err != nil {
		return "", err
	}
	if shared {
		slog.Debug("blueprint lookup shared with concurrent caller", "blueprint", bp.Name)
	}
	return v.(string), nil
}

// LocateAll locates blueprints concurrently. The result preserves input
// order with PackagePath filled in. The first failure is returned.
func (l *Locator) LocateAll(ctx context.Context, bps []blueprint.Descriptor) ([]blueprint.Descriptor, error) {
	out := make([]blueprint.Descriptor, len(bps))
	g, gctx := errgroup.WithContext(ctx)

	for i, bp := range bps {
		g.Go(func() error {
			loc, err := l.Locate(gctx, bp)
			if err != nil {
				return err
			}
			bp.PackagePath = loc
			out[i] = bp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Locator) locate(ctx context.Context, bp blueprint.Descriptor) (string, error) {
	loc, err := l.find(ctx, bp)
	if err != nil {
		return "", &BlueprintUnresolvableError{Blueprint: bp.Name, Cause: err}
	}

	if _, err := l.registry.RegisterPackage(os.DirFS(loc), loc, bp.Scope(), l.patterns); err != nil {
		return "", &BlueprintUnresolvableError{Blueprint: bp.Name, Cause: err}
	}

	slog.Info("using blueprint", "blueprint", bp.Name, "version", bp.Version, "location", loc)
	return loc, nil
}

// find returns an existing package directory or installs the package.
func (l *Locator) find(ctx context.Context, bp blueprint.Descriptor) (string, error) {
	if bp.PackagePath != "" {
		if !isDir(bp.PackagePath) {
			return "", fmt.Errorf("package path %s is not a directory", bp.PackagePath)
		}
		return bp.PackagePath, nil
	}

	for _, dir := range l.candidates() {
		if p := filepath.Join(dir, filepath.FromSlash(bp.Name)); isDir(p) {
			return p, nil
		}
	}

	if l.installer == nil {
		return "", ErrNotInstalled
	}
	if l.cacheDir == "" {
		return "", errors.New("no package cache directory configured for installs")
	}

	installCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	slog.Info("installing blueprint", "blueprint", bp.Spec(), "dir", l.cacheDir)
	loc, err := l.installer.Install(installCtx, bp, l.cacheDir)
	if err != nil {
		if errors.Is(installCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("install timed out after %s: %w", l.timeout, err)
		}
		return "", fmt.Errorf("install failed: %w", err)
	}
	slog.Debug("installed blueprint", "blueprint", bp.Name, "location", loc, "elapsed", time.Since(start))
	return loc, nil
}

// candidates lists search paths followed by the install layouts of the cache.
func (l *Locator) candidates() []string {
	dirs := append([]string(nil), l.searchPaths...)
	if l.cacheDir != "" {
		dirs = append(dirs, l.cacheDir, filepath.Join(l.cacheDir, "node_modules"))
	}
	return dirs
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
