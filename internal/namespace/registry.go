// SPDX-License-Identifier: MPL-2.0

package namespace

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/jhipster/generator-jhipster-sub006/pkg/command"
)

const (
	// generatorsSegment is stripped from package paths when deriving namespaces.
	generatorsSegment = "generators"
	// defaultGeneratorName is used for a package whose root directory is itself a generator.
	defaultGeneratorName = "app"
	// preloadConcurrency bounds concurrent command module loads.
	preloadConcurrency = 8
)

// DefaultLookupPatterns locates command modules inside a generator package.
var DefaultLookupPatterns = []string{
	"generators/*/" + command.FileName,
	"generators/*/generators/*/" + command.FileName,
}

type (
	// Lookup resolves namespaces to generator metadata.
	Lookup interface {
		Lookup(ns Namespace) (*GeneratorMeta, bool)
	}

	// Registry maps namespaces to generators. It is safe for concurrent use.
	Registry struct {
		mu           sync.RWMutex
		metas        map[Namespace]*GeneratorMeta
		packages     map[string]string
		instantiator Instantiator
	}

	// RegistryOption configures a Registry.
	RegistryOption func(*Registry)
)

// WithInstantiator sets the instantiator attached to generators registered from packages.
func WithInstantiator(i Instantiator) RegistryOption {
	return func(r *Registry) {
		r.instantiator = i
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		metas:    make(map[Namespace]*GeneratorMeta),
		packages: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the generator registered under ns.
func (r *Registry) Lookup(ns Namespace) (*GeneratorMeta, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, ok := r.metas[ns]
	return meta, ok
}

// Register adds meta under its namespace. The first registration of a
// namespace wins; Register reports whether meta was added.
func (r *Registry) Register(meta *GeneratorMeta) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.metas[meta.Namespace]; exists {
		return false
	}
	if meta.instantiator == nil {
		meta.instantiator = r.instantiator
	}
	r.metas[meta.Namespace] = meta
	return true
}

// RegisterPackage registers every generator of the package rooted at fsys.
// Command modules are located with patterns (DefaultLookupPatterns when
// empty); the namespace of each generator is its directory path with the
// "generators" segments removed, joined by ":" and placed in scope.
// The package location is recorded for scope even when it contains no
// generators. Newly registered namespaces are returned sorted.
func (r *Registry) RegisterPackage(fsys fs.FS, location, scope string, patterns []string) ([]Namespace, error) {
	if len(patterns) == 0 {
		patterns = DefaultLookupPatterns
	}

	dirs := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid lookup pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			dirs[path.Dir(m)] = struct{}{}
		}
	}

	r.mu.Lock()
	if _, exists := r.packages[scope]; !exists {
		r.packages[scope] = location
	}
	r.mu.Unlock()

	var added []Namespace
	for _, dir := range sortedKeys(dirs) {
		ns := Scoped(scope, namespaceName(dir))
		meta := NewGeneratorMeta(ns, scope, path.Join(location, dir), fsys, dir)
		if !r.Register(meta) {
			slog.Debug("generator already registered", "namespace", ns, "location", meta.Location)
			continue
		}
		added = append(added, ns)
	}

	slog.Debug("registered generator package", "scope", scope, "location", location, "generators", len(added))
	return added, nil
}

// PackageLocation returns the location recorded for a package scope.
func (r *Registry) PackageLocation(scope string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.packages[scope]
	return loc, ok
}

// Namespaces returns every registered namespace sorted.
func (r *Registry) Namespaces() []Namespace {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Namespace, 0, len(r.metas))
	for ns := range r.metas {
		out = append(out, ns)
	}
	slices.Sort(out)
	return out
}

// InScope returns the generators registered in scope, sorted by namespace.
func (r *Registry) InScope(scope string) []*GeneratorMeta {
	var out []*GeneratorMeta
	for _, ns := range r.Namespaces() {
		meta, _ := r.Lookup(ns)
		if meta.Scope == scope || (scope == DefaultScope && meta.IsBase()) {
			out = append(out, meta)
		}
	}
	return out
}

// Preload loads the command modules of namespaces concurrently so later
// lookups hit the cache. Unknown namespaces are skipped; load errors are
// left cached on the meta for the caller that needs the module.
func (r *Registry) Preload(ctx context.Context, namespaces []Namespace) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadConcurrency)

	for _, ns := range namespaces {
		meta, ok := r.Lookup(ns)
		if !ok {
			continue
		}
		g.Go(func() error {
			if _, err := meta.LoadModule(gctx); err != nil {
				slog.Debug("preload failed", "namespace", ns, "error", err)
			}
			return gctx.Err()
		})
	}

	return g.Wait()
}

// namespaceName derives "entity:relationships" from "generators/entity/generators/relationships".
func namespaceName(dir string) string {
	var parts []string
	for seg := range strings.SplitSeq(dir, "/") {
		if seg == "" || seg == "." || seg == generatorsSegment {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return defaultGeneratorName
	}
	return strings.Join(parts, Separator)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
