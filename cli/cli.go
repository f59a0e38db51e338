package cli

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"github.com/ardnew/ascript/cli/builtin"
	"github.com/ardnew/ascript/cli/cmd"
	"github.com/ardnew/ascript/lang"
	"github.com/ardnew/ascript/log"
	"github.com/ardnew/ascript/pkg"
)

// CLI is the top-level command-line interface for ascript.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	MaxDepth  int              `default:"${maxDepth}"  help:"Maximum depth of nested function calls"`
	CacheSize int              `default:"${cacheSize}" help:"Number of parsed scripts to cache (0 disables caching)"`
	Version   kong.VersionFlag `help:"Print version and exit" short:"V"`

	Eval cmd.Eval `cmd:"" default:"withargs" help:"Evaluate scripts and print their values"`
	Fmt  cmd.Fmt  `cmd:""                    help:"Print the syntax tree of a script"`
	Repl cmd.Repl `cmd:""                    help:"Start an interactive session"`
	Init cmd.Init `cmd:""                    help:"Write a configuration file with the current settings"`
}

// interpreter returns the factory commands use to build interpreters with
// the builtin library installed.
func (c *CLI) interpreter() cmd.NewInterp {
	depth, size := c.MaxDepth, c.CacheSize

	return func(w io.Writer) (*lang.Interp, error) {
		in := lang.New(
			lang.WithLogger(log.Default()),
			lang.WithMaxDepth(depth),
			lang.WithCacheSize(size),
		)

		if err := builtin.Install(in, builtin.WithOutput(w)); err != nil {
			return nil, err
		}

		return in, nil
	}
}

// Run executes the ascript CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
//
// Without arguments, an interactive session starts when standard input is a
// terminal; otherwise standard input is evaluated as a script.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	if len(args) == 0 && term.IsTerminal(int(os.Stdin.Fd())) {
		args = []string{"repl"}
	}

	vars := kong.Vars{
		cmd.ConfigIdentifier: configPath(".yaml"),
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"cacheSize":          strconv.Itoa(lang.DefaultCacheSize),
		"version":            pkg.Version(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(".json")),
		kong.Configuration(loadYAML, configPath(".yaml")),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	ktx.Bind(cli.interpreter())

	return ktx.Run()
}
