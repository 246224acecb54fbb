// SPDX-License-Identifier: MPL-2.0

// Package depgraph discovers every generator contributing to a command.
//
// Resolution is a memoized depth-first walk over command module imports.
// For a bare name each active blueprint's scoped variant is tried in
// declared order before the base generator; a variant that overrides the
// base suppresses it. The memo table is keyed by fully scoped namespace, so
// cycles terminate and shared imports are loaded once.
package depgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jhipster/generator-jhipster-sub006/internal/blueprint"
	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
)

// ErrNamespaceNotFound is the sentinel wrapped by NotFoundError.
var ErrNamespaceNotFound = errors.New("namespace not found")

type (
	// Preloader warms module caches ahead of resolution. *namespace.Registry implements it.
	Preloader interface {
		Preload(ctx context.Context, namespaces []namespace.Namespace) error
	}

	// Resolver builds dependency sets against a namespace lookup.
	Resolver struct {
		lookup namespace.Lookup
	}

	// NotFoundError reports a root generator that is not registered.
	NotFoundError struct {
		Namespace namespace.Namespace
	}

	// ModuleLoadError reports a root generator whose command module cannot be loaded.
	ModuleLoadError struct {
		Namespace namespace.Namespace
		Cause     error
	}

	build struct {
		ctx        context.Context
		lookup     namespace.Lookup
		set        *Set
		blueprints []blueprint.Descriptor
		byScope    map[string]*blueprint.Descriptor
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("generator %s not found", e.Namespace)
}

// Unwrap returns ErrNamespaceNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error {
	return ErrNamespaceNotFound
}

// Error implements the error interface.
func (e *ModuleLoadError) Error() string {
	return fmt.Sprintf("failed to load command module of %s: %v", e.Namespace, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ModuleLoadError) Unwrap() error {
	return e.Cause
}

// NewResolver creates a Resolver.
func NewResolver(lookup namespace.Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Build resolves roots with the active blueprints in declared order.
//
// A root whose name resolves to nothing at all fails with *NotFoundError,
// and a root generator whose command module cannot be loaded fails with
// *ModuleLoadError. Missing or broken transitive imports only contribute
// nothing and are reported through Set.Diagnostics.
func (r *Resolver) Build(ctx context.Context, roots []string, blueprints []blueprint.Descriptor) (*Set, error) {
	b := &build{
		ctx:        ctx,
		lookup:     r.lookup,
		set:        newSet(),
		blueprints: blueprints,
		byScope:    make(map[string]*blueprint.Descriptor, len(blueprints)),
	}
	b.set.roots = append(b.set.roots, roots...)
	for i := range blueprints {
		if _, dup := b.byScope[blueprints[i].Scope()]; !dup {
			b.byScope[blueprints[i].Scope()] = &blueprints[i]
		}
	}

	if p, ok := r.lookup.(Preloader); ok {
		if err := p.Preload(ctx, b.candidates(roots)); err != nil {
			return nil, err
		}
	}

	for _, root := range roots {
		if _, err := b.resolveOne(root, nil, true); err != nil {
			return nil, err
		}
	}

	for _, cycle := range b.set.Cycles() {
		slog.Debug("import cycle between generators", "cycle", cycle)
	}
	return b.set, nil
}

// candidates lists the namespaces a root lookup will touch first.
func (b *build) candidates(roots []string) []namespace.Namespace {
	var out []namespace.Namespace
	for _, root := range roots {
		ns, err := namespace.Parse(root)
		if err != nil {
			continue
		}
		if !ns.HasScope() {
			for _, bp := range b.blueprints {
				out = append(out, namespace.Scoped(bp.Scope(), string(ns)))
			}
		}
		out = append(out, ns)
	}
	return out
}

// resolveOne resolves a name as written in a root list or an import and
// returns the resolved namespaces it stands for.
func (b *build) resolveOne(name string, via *blueprint.Descriptor, root bool) ([]namespace.Namespace, error) {
	ns, err := namespace.Parse(name)
	if err != nil {
		if root {
			return nil, err
		}
		b.set.addDiagnostic(Diagnostic{Namespace: namespace.Namespace(name), Message: "invalid import ignored", Cause: err})
		return nil, nil
	}

	if ns.HasScope() {
		found, _, err := b.resolveLeaf(ns, via, root, root)
		if err != nil || !found {
			return nil, err
		}
		return []namespace.Namespace{ns}, nil
	}

	var hits []namespace.Namespace
	overridden := false
	for i := range b.blueprints {
		variant := namespace.Scoped(b.blueprints[i].Scope(), string(ns))
		found, overrides, err := b.resolveLeaf(variant, &b.blueprints[i], root, false)
		if err != nil {
			return nil, err
		}
		if found {
			hits = append(hits, variant)
			overridden = overridden || overrides
		}
	}

	if overridden {
		return hits, nil
	}

	found, _, err := b.resolveLeaf(ns, nil, root, root && len(hits) == 0)
	if err != nil {
		return nil, err
	}
	if found {
		hits = append(hits, ns)
	}
	return hits, nil
}

// resolveLeaf records ns and recurses into its imports. It reports whether
// ns is resolved and whether its module overrides the base generator.
// A memo hit returns immediately with the cached answer.
func (b *build) resolveLeaf(ns namespace.Namespace, via *blueprint.Descriptor, root, required bool) (found, overrides bool, err error) {
	if err := b.ctx.Err(); err != nil {
		return false, false, err
	}

	if e, ok := b.set.Get(ns); ok {
		if root {
			b.set.markRoot(ns)
		}
		return true, e.Module != nil && e.Module.OverridesBase, nil
	}

	meta, ok := b.lookup.Lookup(ns)
	if !ok {
		if required {
			return false, false, &NotFoundError{Namespace: ns}
		}
		return false, false, nil
	}

	entry := &Entry{Namespace: ns, Meta: meta, Blueprint: b.attribution(meta, via), Root: root}
	if !b.set.claim(entry) {
		e, _ := b.set.Get(ns)
		return true, e.Module != nil && e.Module.OverridesBase, nil
	}

	mod, err := meta.LoadModule(b.ctx)
	if err != nil {
		if root {
			return false, false, &ModuleLoadError{Namespace: ns, Cause: err}
		}
		slog.Debug("ignoring generator with invalid command module", "namespace", ns, "error", err)
		b.set.addDiagnostic(Diagnostic{Namespace: ns, Message: "command module could not be loaded", Cause: err})
		return true, false, nil
	}
	b.set.setModule(ns, mod)

	for _, imp := range mod.Imports {
		targets, err := b.resolveOne(imp, entry.Blueprint, false)
		if err != nil {
			return false, false, err
		}
		for _, t := range targets {
			b.set.addEdge(ns, t)
		}
	}

	return true, mod.OverridesBase, nil
}

// attribution picks the blueprint credited for a generator: the active
// blueprint owning its scope, else the blueprint whose pass reached it.
// Base generators are never attributed.
func (b *build) attribution(meta *namespace.GeneratorMeta, via *blueprint.Descriptor) *blueprint.Descriptor {
	if meta.IsBase() {
		return nil
	}
	if bp, ok := b.byScope[meta.Scope]; ok {
		return bp
	}
	return via
}
