package main

import (
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"gopkg.in/urfave/cli.v1"

	"github.com/funvibe/ruchy/internal/config"
	"github.com/funvibe/ruchy/internal/diagnostics"
)

var log = commonlog.GetLogger("ruchy.cli")

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Read REPL settings from `FILE` (.yaml, .yml or .toml)",
	}
	// -v stays with cli's --version flag.
	verboseFlag = cli.IntFlag{
		Name:  "verbose",
		Usage: "Log verbosity: 1 info, 2 debug",
	}
	logFileFlag = cli.StringFlag{
		Name:  "log",
		Usage: "Write logs to `FILE` instead of stderr",
	}
	sandboxFlag = cli.BoolFlag{
		Name:  "sandbox",
		Usage: "Deny file access and console input, with tight memory and time limits",
	}
	journalFlag = cli.StringFlag{
		Name:  "journal",
		Usage: "Record REPL sessions in the SQLite database `FILE`",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}
	noTypesFlag = cli.BoolFlag{
		Name:  "no-typecheck",
		Usage: "Skip type checking in the REPL",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "ruchy"
	app.Usage = "interpreter and REPL for the Ruchy language"
	app.Version = config.Version
	app.Flags = []cli.Flag{configFlag, verboseFlag, logFileFlag, sandboxFlag, journalFlag, noColorFlag, noTypesFlag}
	app.Before = func(ctx *cli.Context) error {
		var path *string
		if f := ctx.GlobalString(logFileFlag.Name); f != "" {
			path = &f
		}
		commonlog.Configure(ctx.GlobalInt(verboseFlag.Name), path)
		return nil
	}
	app.Action = replAction
	app.Commands = []cli.Command{
		{
			Name:   "repl",
			Usage:  "Start the interactive REPL (default)",
			Action: replAction,
		},
		{
			Name:      "run",
			Usage:     "Type check and run a source file",
			ArgsUsage: "FILE",
			Action:    runAction,
		},
		{
			Name:      "check",
			Usage:     "Type check a source file without running it",
			ArgsUsage: "FILE",
			Action:    checkAction,
		},
		{
			Name:      "eval",
			Usage:     "Evaluate an expression and print the result",
			ArgsUsage: "EXPR",
			Action:    evalAction,
		},
		{
			Name:      "ast",
			Usage:     "Print the syntax tree of a source file",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{cli.BoolFlag{
				Name:  "positions, p",
				Usage: "Show line and column of every node",
			}},
			Action: astAction,
		},
		{
			Name:      "replay",
			Usage:     "Re-evaluate a recorded REPL session",
			ArgsUsage: "SESSION_ID",
			Flags: []cli.Flag{cli.BoolFlag{
				Name:  "list, l",
				Usage: "List the recorded sessions instead",
			}},
			Action: replayAction,
		},
	}

	if err := app.Run(os.Args); err != nil {
		if coder, ok := err.(cli.ExitCoder); ok {
			if msg := coder.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the REPL settings: --config, then a config file in
// the working directory, then the defaults. Flags override the file.
func loadConfig(ctx *cli.Context) (config.ReplConfig, error) {
	cfg := config.DefaultReplConfig()
	path := ctx.GlobalString(configFlag.Name)
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path, _ = config.Find(wd)
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, err
		}
		log.Infof("using config %s", path)
		cfg = loaded
	}
	if j := ctx.GlobalString(journalFlag.Name); j != "" {
		cfg.Journal = j
	}
	if ctx.GlobalBool(noTypesFlag.Name) {
		cfg.TypeCheck = false
	}
	cfg.Color = cfg.Color && !ctx.GlobalBool(noColorFlag.Name) && diagnostics.ColorEnabled(os.Stdout)
	return cfg, cfg.Validate()
}

func requireArg(ctx *cli.Context, what string) (string, error) {
	arg := ctx.Args().First()
	if arg == "" {
		return "", cli.NewExitError(fmt.Sprintf("usage: ruchy %s %s", ctx.Command.Name, what), 2)
	}
	return arg, nil
}
