// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jhipster/generator-jhipster-sub006/internal/config"
	"github.com/jhipster/generator-jhipster-sub006/internal/engine"
	"github.com/jhipster/generator-jhipster-sub006/internal/locator"
)

const (
	flagVerbose    = "verbose"
	flagConfig     = "config"
	flagProjectDir = "project-dir"
	flagBlueprints = "blueprints"
	flagBlueprint  = "blueprint"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"

	// reservedFlags never become generator options.
	reservedFlags = []string{flagVerbose, flagConfig, flagProjectDir, flagBlueprints, flagBlueprint, "version"}

	// valueFlags take a separate value token when not written with "=".
	valueFlags = map[string]bool{
		"--" + flagConfig:     true,
		"--" + flagProjectDir: true,
		"--" + flagBlueprints: true,
		"--" + flagBlueprint:  true,
	}
)

type (
	// globals are the persistent flags, read before the command tree exists.
	globals struct {
		verbose    bool
		configFile string
		projectDir string
		command    string
	}

	// session carries the state shared by the command handlers of one run.
	session struct {
		app  *App
		cfg  *config.Config
		gens Generators
		opts globals
		argv []string
	}
)

// Execute runs the CLI with the process arguments and exits.
func Execute() {
	os.Exit(NewApp(Dependencies{}).Run(context.Background(), os.Args[1:]))
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

func executeWithFang(ctx context.Context, root *cobra.Command) error {
	return fang.Execute(ctx, root,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
}

// Run executes one invocation and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	opts := prescan(args)
	slog.SetDefault(newLogger(a.stderr, opts.verbose))

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.configFile})
	if err != nil {
		a.renderError(err, opts.verbose)
		return 1
	}
	if cfg.UI.Verbose && !opts.verbose {
		opts.verbose = true
		slog.SetDefault(newLogger(a.stderr, true))
	}

	gens, err := a.NewEngine(cfg)
	if err != nil {
		a.renderError(err, opts.verbose)
		return 1
	}

	s := &session{app: a, cfg: cfg, gens: gens, opts: opts, argv: args}
	root := s.newRootCommand()

	if opts.command != "" && !isCommand(root, opts.command) {
		plan, err := gens.Prepare(ctx, s.request(opts.command))
		if err != nil {
			a.renderError(err, opts.verbose)
			return 1
		}
		gen := s.newGeneratorCommand(plan)
		if opts.command != plan.Command {
			gen.Aliases = append(gen.Aliases, opts.command)
		}
		root.AddCommand(gen)
	}
	if opts.command == "" {
		if _, err := gens.Blueprints(ctx, s.request("")); err != nil {
			a.renderError(err, opts.verbose)
			return 1
		}
	}
	if err := s.addStubs(ctx, root); err != nil {
		a.renderError(err, opts.verbose)
		return 1
	}

	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return exitCode(a.execute(ctx, root))
}

func (s *session) request(command string) engine.Request {
	return engine.Request{Command: command, Argv: s.argv, ProjectDir: s.opts.projectDir}
}

func (s *session) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "jhipster",
		Short: "Generate applications from composable generators and blueprints",
		Long: TitleStyle.Render("jhipster") + SubtitleStyle.Render(" - application generator") + `

Every command is a generator. Blueprints extend or replace generators and
contribute their own options; the flags of a command are the union of all
generators it resolves to.

` + SubtitleStyle.Render("Examples:") + `
  jhipster app --blueprints vue      Generate an application with the vue blueprint
  jhipster inspect entity            Show how the entity command is assembled
  jhipster namespaces                List every registered generator`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.BoolP(flagVerbose, "v", s.opts.verbose, "enable verbose output")
	pf.String(flagConfig, "", "tool config file (default is the user config directory config.cue)")
	pf.String(flagProjectDir, ".", "project directory")
	pf.String(flagBlueprints, "", "comma separated blueprints to activate")
	pf.String(flagBlueprint, "", "alias of --blueprints")
	_ = pf.MarkHidden(flagBlueprint)

	root.AddCommand(s.newInspectCommand(), s.newNamespacesCommand(), s.newConfigCommand())
	return root
}

// addStubs registers every invocable generator not already on root. A stub
// prepares its command when it runs. Only an unresolvable blueprint is fatal
// here, since the listing would otherwise be incomplete.
func (s *session) addStubs(ctx context.Context, root *cobra.Command) error {
	cmds, err := s.gens.Commands(ctx, s.request(""))
	if err != nil {
		if errors.Is(err, locator.ErrBlueprintUnresolvable) {
			return err
		}
		slog.Debug("cannot list generator commands", "error", err)
		return nil
	}
	for _, c := range cmds {
		if isCommand(root, c.Name) {
			continue
		}
		short := c.Description
		if c.Blueprint != "" {
			short += " " + BlueprintStyle.Render("("+c.Blueprint+")")
		}
		name := c.Name
		root.AddCommand(&cobra.Command{
			Use:                name,
			Short:              short,
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				plan, err := s.gens.Prepare(cmd.Context(), s.request(name))
				if err != nil {
					s.app.renderError(err, s.opts.verbose)
					return failed(err)
				}
				gen := s.newGeneratorCommand(plan)
				gen.Flags().AddFlagSet(cmd.Root().PersistentFlags())
				gen.SetArgs(args)
				gen.SetOut(cmd.OutOrStdout())
				gen.SetErr(cmd.ErrOrStderr())
				return gen.ExecuteContext(cmd.Context())
			},
		})
	}
	return nil
}

func isCommand(root *cobra.Command, name string) bool {
	if name == "help" || name == "completion" || name == "__complete" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

// prescan reads the persistent flags and the invoked command name from raw
// arguments. Unknown flags are assumed to take no separate value.
func prescan(args []string) globals {
	fs := pflag.NewFlagSet("jhipster", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}

	var g globals
	fs.BoolVarP(&g.verbose, flagVerbose, "v", false, "")
	fs.StringVar(&g.configFile, flagConfig, "", "")
	fs.StringVar(&g.projectDir, flagProjectDir, ".", "")
	fs.BoolP("help", "h", false, "")
	_ = fs.Parse(args)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if strings.HasPrefix(arg, "-") {
			if valueFlags[arg] {
				i++
			}
			continue
		}
		g.command = arg
		break
	}
	return g
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return slog.New(log.NewWithOptions(w, log.Options{Prefix: "jhipster", Level: level}))
}
