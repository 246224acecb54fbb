// SPDX-License-Identifier: MPL-2.0

package depgraph

import (
	"slices"
	"sync"

	"github.com/jhipster/generator-jhipster-sub006/internal/blueprint"
	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
	"github.com/jhipster/generator-jhipster-sub006/pkg/command"
)

type (
	// Entry is one resolved generator.
	Entry struct {
		Namespace namespace.Namespace
		Meta      *namespace.GeneratorMeta
		// Module is nil when the command module failed to load; see Set.Diagnostics.
		Module *command.Module
		// Blueprint is the blueprint whose resolution pass discovered the generator, nil for base passes.
		Blueprint *blueprint.Descriptor
		// Root marks generators resolved directly for a root name.
		Root bool
	}

	// Diagnostic records a non-fatal resolution problem.
	Diagnostic struct {
		Namespace namespace.Namespace
		Message   string
		Cause     error
	}

	// Set is the memo table of a resolution: every namespace appears at
	// most once, in discovery order. It is safe for concurrent use.
	Set struct {
		mu          sync.Mutex
		entries     map[namespace.Namespace]*Entry
		order       []namespace.Namespace
		edges       map[namespace.Namespace][]namespace.Namespace
		roots       []string
		diagnostics []Diagnostic
	}
)

func newSet() *Set {
	return &Set{
		entries: make(map[namespace.Namespace]*Entry),
		edges:   make(map[namespace.Namespace][]namespace.Namespace),
	}
}

// claim records entry unless its namespace is already present. It reports
// whether the caller now owns the namespace.
func (s *Set) claim(e *Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[e.Namespace]; ok {
		return false
	}
	s.entries[e.Namespace] = e
	s.order = append(s.order, e.Namespace)
	return true
}

func (s *Set) setModule(ns namespace.Namespace, mod *command.Module) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[ns].Module = mod
}

func (s *Set) addEdge(from, to namespace.Namespace) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.edges[from], to) {
		s.edges[from] = append(s.edges[from], to)
	}
}

func (s *Set) addDiagnostic(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.diagnostics = append(s.diagnostics, d)
}

// Has reports whether ns was resolved.
func (s *Set) Has(ns namespace.Namespace) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[ns]
	return ok
}

// Get returns the entry of ns.
func (s *Set) Get(ns namespace.Namespace) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[ns]
	return e, ok
}

// Len returns the number of resolved generators.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.order)
}

// Order returns the namespaces in discovery order.
func (s *Set) Order() []namespace.Namespace {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.order)
}

// Entries returns the entries in discovery order.
func (s *Set) Entries() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Entry, 0, len(s.order))
	for _, ns := range s.order {
		out = append(out, s.entries[ns])
	}
	return out
}

// Roots returns the root names the set was built for.
func (s *Set) Roots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.roots)
}

// Diagnostics returns the non-fatal problems met while resolving.
func (s *Set) Diagnostics() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.diagnostics)
}

// Imports returns the import edges of ns in declaration order, limited to resolved targets.
func (s *Set) Imports(ns namespace.Namespace) []namespace.Namespace {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.edges[ns])
}

// Runner returns the namespace that runs for the root name: the first
// resolved blueprint variant overriding the base, else the base generator,
// else the first resolved blueprint variant.
func (s *Set) Runner(name string) (namespace.Namespace, bool) {
	base, err := namespace.Parse(name)
	if err != nil {
		return "", false
	}
	if base.HasScope() {
		return base, s.Has(base)
	}

	var firstVariant namespace.Namespace
	for _, e := range s.Entries() {
		if e.Blueprint == nil || e.Namespace != namespace.Scoped(e.Blueprint.Scope(), name) {
			continue
		}
		if e.Module != nil && e.Module.OverridesBase {
			return e.Namespace, true
		}
		if firstVariant == "" {
			firstVariant = e.Namespace
		}
	}
	if s.Has(base) {
		return base, true
	}
	return firstVariant, firstVariant != ""
}

func (s *Set) markRoot(ns namespace.Namespace) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[ns].Root = true
}
