// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jhipster/generator-jhipster-sub006/internal/blueprint"
	"github.com/jhipster/generator-jhipster-sub006/internal/builtin"
	"github.com/jhipster/generator-jhipster-sub006/internal/config"
	"github.com/jhipster/generator-jhipster-sub006/internal/depgraph"
	"github.com/jhipster/generator-jhipster-sub006/internal/issue"
	"github.com/jhipster/generator-jhipster-sub006/internal/locator"
	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
	"github.com/jhipster/generator-jhipster-sub006/internal/schema"
	"github.com/jhipster/generator-jhipster-sub006/internal/sharedconfig"
	"github.com/jhipster/generator-jhipster-sub006/internal/shell"
)

// BootstrapGenerator is resolved ahead of every command.
const BootstrapGenerator = "bootstrap"

// Diagnostic kinds.
const (
	KindResolution = "resolution"
	KindConflict   = "conflict"
)

const defaultInstantiateTimeout = 30 * time.Second

type (
	// Request describes one command invocation.
	Request struct {
		Command string
		// Argv is the raw command line, scanned for --blueprints.
		Argv       []string
		ProjectDir string
	}

	// Plan is everything needed to run a prepared command.
	Plan struct {
		Command     string
		Blueprints  []blueprint.Descriptor
		Set         *depgraph.Set
		Schema      *schema.Schema
		Shared      sharedconfig.Config
		Runner      namespace.Namespace
		Diagnostics []Diagnostic
	}

	// Diagnostic is a non-fatal problem found while preparing a command.
	Diagnostic struct {
		Kind      string
		Namespace namespace.Namespace
		Message   string
		Cause     error
	}

	// Command is an invocable generator command.
	Command struct {
		Name        string
		Description string
		Namespace   namespace.Namespace
		// Blueprint is the scope of the blueprint providing a blueprint-only command.
		Blueprint string
	}

	// Engine prepares commands against one registry of generators. It is
	// safe for concurrent use.
	Engine struct {
		cfg       *config.Config
		registry  *namespace.Registry
		runner    shell.Runner
		installer locator.Installer
		reserved  []string
	}

	// Option configures an Engine.
	Option func(*Engine)
)

// WithShellRunner sets the runner used by install scripts and instantiation hooks.
func WithShellRunner(r shell.Runner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithInstaller replaces the installers derived from the configuration.
func WithInstaller(i locator.Installer) Option {
	return func(e *Engine) { e.installer = i }
}

// WithReservedFlags keeps the CLI's own flags out of generator schemas.
func WithReservedFlags(names ...string) Option {
	return func(e *Engine) { e.reserved = append(e.reserved, names...) }
}

// New creates an Engine and registers the base generators.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.runner == nil {
		e.runner = shell.NewRunner()
	}
	if e.installer == nil {
		e.installer = installerFor(cfg, e.runner)
	}

	e.registry = namespace.NewRegistry(namespace.WithInstantiator(&scriptInstantiator{
		runner:  e.runner,
		timeout: defaultInstantiateTimeout,
	}))
	if _, err := builtin.Register(e.registry, cfg.GeneratorsDir, cfg.LookupPatterns); err != nil {
		return nil, fmt.Errorf("failed to register base generators: %w", err)
	}
	return e, nil
}

func installerFor(cfg *config.Config, runner shell.Runner) locator.Installer {
	if !cfg.Install.Enabled {
		return nil
	}
	var chain locator.ChainInstaller
	if cfg.Install.GitURLTemplate != "" {
		chain = append(chain, locator.NewGitInstaller(cfg.Install.GitURLTemplate))
	}
	chain = append(chain, locator.NewShellInstaller(cfg.Install.Command, runner))
	return chain
}

// Registry exposes the generator registry.
func (e *Engine) Registry() *namespace.Registry {
	return e.registry
}

// Blueprints resolves and locates the active blueprints of req.
func (e *Engine) Blueprints(ctx context.Context, req Request) ([]blueprint.Descriptor, error) {
	persisted, err := blueprint.LoadPersisted(req.ProjectDir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read project configuration").
			WithResource(filepath.Join(req.ProjectDir, blueprint.ProjectConfigFile)).
			WithSuggestion("Check that the file is valid JSON").
			Wrap(err).
			BuildError()
	}

	active := blueprint.Resolve(req.Argv, persisted)
	if len(active) == 0 {
		return nil, nil
	}

	located, err := e.locator(req.ProjectDir).LocateAll(ctx, active)
	if err != nil {
		var ue *locator.BlueprintUnresolvableError
		resource := ""
		if errors.As(err, &ue) {
			resource = ue.Blueprint
		}
		return nil, issue.NewErrorContext().
			WithOperation("resolve blueprint").
			WithResource(resource).
			WithSuggestion("Install the blueprint in the project with npm").
			WithSuggestion("Add its parent directory to package_paths in config.cue").
			WithIssue(issue.BlueprintUnresolvableId).
			Wrap(err).
			BuildError()
	}
	return located, nil
}

func (e *Engine) locator(projectDir string) *locator.Locator {
	var paths []string
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, "node_modules"))
	}
	paths = append(paths, e.cfg.PackagePaths...)

	opts := []locator.Option{
		locator.WithSearchPaths(paths...),
		locator.WithCacheDir(e.cfg.CacheDir),
		locator.WithLookupPatterns(e.cfg.LookupPatterns...),
	}
	if e.installer != nil {
		opts = append(opts, locator.WithInstaller(e.installer))
	}
	if e.cfg.Install.Timeout > 0 {
		opts = append(opts, locator.WithInstallTimeout(e.cfg.Install.Timeout))
	}
	return locator.New(e.registry, opts...)
}

// Roots returns the root generator names resolved for command.
func Roots(command string) []string {
	if command == BootstrapGenerator {
		return []string{BootstrapGenerator}
	}
	return []string{BootstrapGenerator, command}
}

// Prepare resolves req into a Plan.
func (e *Engine) Prepare(ctx context.Context, req Request) (*Plan, error) {
	ns, err := namespace.Parse(req.Command)
	if err != nil {
		return nil, err
	}
	name := ns.String()

	bps, err := e.Blueprints(ctx, req)
	if err != nil {
		return nil, err
	}

	set, err := depgraph.NewResolver(e.registry).Build(ctx, Roots(name), bps)
	if err != nil {
		return nil, e.resolutionError(err)
	}

	sch, err := schema.Build(ctx, set, schema.WithReservedFlags(e.reserved...))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("instantiate generator").
			WithResource(name).
			WithIssue(issue.CommandModuleInvalidId).
			Wrap(err).
			BuildError()
	}

	runner, _ := set.Runner(name)

	sources := make([]sharedconfig.Source, 0, len(bps))
	for _, bp := range bps {
		sources = append(sources, sharedconfig.Source{Name: bp.Name, Location: bp.PackagePath})
	}

	plan := &Plan{
		Command:    name,
		Blueprints: bps,
		Set:        set,
		Schema:     sch,
		Shared:     sharedconfig.Assemble(sharedconfig.LocalPath(req.ProjectDir), sources),
		Runner:     runner,
	}
	for _, d := range set.Diagnostics() {
		plan.Diagnostics = append(plan.Diagnostics, Diagnostic{Kind: KindResolution, Namespace: d.Namespace, Message: d.Message, Cause: d.Cause})
	}
	for _, c := range sch.Conflicts {
		plan.Diagnostics = append(plan.Diagnostics, Diagnostic{
			Kind:      KindConflict,
			Namespace: c.Source,
			Message:   fmt.Sprintf("%s %q %s", c.Kind, c.Name, c.Resolution),
		})
	}

	slog.Debug("prepared command", "command", name, "runner", runner, "generators", set.Len(), "options", len(sch.Options))
	return plan, nil
}

func (e *Engine) resolutionError(err error) error {
	var nf *depgraph.NotFoundError
	if errors.As(err, &nf) {
		ec := issue.NewErrorContext().
			WithOperation("resolve generator").
			WithResource(nf.Namespace.String())
		if match := e.closestNamespace(nf.Namespace); match != "" {
			ec.WithSuggestion(fmt.Sprintf("Did you mean 'jhipster %s'?", match))
		}
		return ec.
			WithSuggestion("Run 'jhipster namespaces' to list the available generators").
			WithIssue(issue.NamespaceNotFoundId).
			Wrap(err).
			BuildError()
	}
	var ml *depgraph.ModuleLoadError
	if errors.As(err, &ml) {
		return issue.NewErrorContext().
			WithOperation("load generator").
			WithResource(ml.Namespace.String()).
			WithIssue(issue.CommandModuleInvalidId).
			Wrap(err).
			BuildError()
	}
	return err
}

// closestNamespace returns the registered namespace nearest to ns, or "".
func (e *Engine) closestNamespace(ns namespace.Namespace) string {
	names := make([]string, 0)
	for _, known := range e.registry.Namespaces() {
		names = append(names, known.String())
	}
	ranks := fuzzy.RankFindFold(ns.String(), names)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// Commands lists the invocable commands: base generators with a
// description, then generators that only exist in active blueprints.
func (e *Engine) Commands(ctx context.Context, req Request) ([]Command, error) {
	bps, err := e.Blueprints(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := e.registry.Preload(ctx, e.registry.Namespaces()); err != nil {
		return nil, err
	}

	var out []Command
	seen := make(map[string]bool)
	add := func(meta *namespace.GeneratorMeta, name, scope string) {
		if seen[name] {
			return
		}
		mod, err := meta.LoadModule(ctx)
		if err != nil {
			slog.Debug("skipping generator with invalid command module", "namespace", meta.Namespace, "error", err)
			return
		}
		if mod.Description == "" {
			return
		}
		seen[name] = true
		out = append(out, Command{Name: name, Description: mod.Description, Namespace: meta.Namespace, Blueprint: scope})
	}

	for _, meta := range e.registry.InScope(namespace.DefaultScope) {
		if !meta.Namespace.HasScope() {
			add(meta, meta.Namespace.String(), "")
		}
	}
	for _, bp := range bps {
		prefix := bp.Scope() + namespace.Separator
		for _, meta := range e.registry.InScope(bp.Scope()) {
			name := meta.Namespace.String()[len(prefix):]
			if namespace.Namespace(name).HasScope() {
				continue
			}
			if _, base := e.registry.Lookup(namespace.Namespace(name)); base {
				continue
			}
			add(meta, name, bp.Scope())
		}
	}

	slices.SortStableFunc(out, func(a, b Command) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out, nil
}

// Namespaces locates the active blueprints of req and returns every
// registered namespace.
func (e *Engine) Namespaces(ctx context.Context, req Request) ([]namespace.Namespace, error) {
	if _, err := e.Blueprints(ctx, req); err != nil {
		return nil, err
	}
	return e.registry.Namespaces(), nil
}
