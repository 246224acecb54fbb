// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhipster/generator-jhipster-sub006/internal/blueprint"
	"github.com/jhipster/generator-jhipster-sub006/internal/config"
	"github.com/jhipster/generator-jhipster-sub006/internal/engine"
	"github.com/jhipster/generator-jhipster-sub006/internal/namespace"
	"github.com/jhipster/generator-jhipster-sub006/internal/schema"
)

type (
	// App is the composition root of the CLI. Command handlers delegate to
	// its services.
	App struct {
		Config    ConfigProvider
		NewEngine EngineFactory
		Runner    GeneratorRunner
		stdout    io.Writer
		stderr    io.Writer

		// issueStyle is the glamour style used for catalog entries.
		issueStyle string

		// execute runs the assembled root command; fang in production.
		execute func(ctx context.Context, root *cobra.Command) error
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    ConfigProvider
		NewEngine EngineFactory
		Runner    GeneratorRunner
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads the tool configuration.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// Generators prepares generator commands. *engine.Engine implements it.
	Generators interface {
		Prepare(ctx context.Context, req engine.Request) (*engine.Plan, error)
		Commands(ctx context.Context, req engine.Request) ([]engine.Command, error)
		Blueprints(ctx context.Context, req engine.Request) ([]blueprint.Descriptor, error)
		Namespaces(ctx context.Context, req engine.Request) ([]namespace.Namespace, error)
	}

	// EngineFactory builds the Generators service from the loaded configuration.
	EngineFactory func(cfg *config.Config) (Generators, error)

	// GeneratorRunner runs a prepared command with its parsed values.
	GeneratorRunner interface {
		Run(ctx context.Context, plan *engine.Plan, values *schema.Values, stdout io.Writer) error
	}

	// planPrinter is the default GeneratorRunner. It prints what would run.
	planPrinter struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.NewEngine == nil {
		deps.NewEngine = defaultEngine
	}
	if deps.Runner == nil {
		deps.Runner = planPrinter{}
	}

	return &App{
		Config:     deps.Config,
		NewEngine:  deps.NewEngine,
		Runner:     deps.Runner,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		issueStyle: "dark",
		execute:    executeWithFang,
	}
}

func defaultEngine(cfg *config.Config) (Generators, error) {
	e, err := engine.New(cfg, engine.WithReservedFlags(reservedFlags...))
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Run implements GeneratorRunner.
func (planPrinter) Run(_ context.Context, plan *engine.Plan, values *schema.Values, stdout io.Writer) error {
	fmt.Fprintf(stdout, "%s %s\n", TitleStyle.Render("Running"), CmdStyle.Render(plan.Runner.String()))

	for _, bp := range plan.Blueprints {
		fmt.Fprintf(stdout, "  %s %s\n", SubtitleStyle.Render("blueprint"), bp.Spec())
	}

	args := values.Args()
	for _, a := range plan.Schema.Arguments {
		if v, ok := args[a.Name]; ok {
			fmt.Fprintf(stdout, "  %s %s = %v\n", SubtitleStyle.Render("argument"), a.Name, v)
		}
	}

	opts := values.Map()
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(stdout, "  %s %s = %v\n", SubtitleStyle.Render("option"), name, opts[name])
	}

	if len(plan.Shared) > 0 {
		keys := make([]string, 0, len(plan.Shared))
		for k := range plan.Shared {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		fmt.Fprintf(stdout, "  %s %s\n", SubtitleStyle.Render("shared"), strings.Join(keys, ", "))
	}
	return nil
}
