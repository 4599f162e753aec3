package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/funvibe/ruchy/internal/analyzer"
	"github.com/funvibe/ruchy/internal/backend"
	"github.com/funvibe/ruchy/internal/config"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/evaluator"
	"github.com/funvibe/ruchy/internal/journal"
	"github.com/funvibe/ruchy/internal/lexer"
	"github.com/funvibe/ruchy/internal/parser"
	"github.com/funvibe/ruchy/internal/pipeline"
	"github.com/funvibe/ruchy/internal/prettyprinter"
	"github.com/funvibe/ruchy/internal/repl"
)

func readSource(ctx *cli.Context) (string, string, error) {
	path, err := requireArg(ctx, "FILE")
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", cli.NewExitError(err.Error(), 1)
	}
	return path, string(data), nil
}

// compile runs the front end and the type checker. Type errors are fatal
// here, unlike in the REPL.
func compile(path, src string) *pipeline.PipelineContext {
	pc := pipeline.NewPipelineContext(src, path)
	return pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, analyzer.NewAnalyzerProcessor()).Run(pc)
}

func runAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	path, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	pc := compile(path, src)
	if diagnostics.HasErrors(pc.Errors) {
		diagnostics.Print(os.Stderr, src, pc.Errors, cfg.Color)
		return cli.NewExitError("", 1)
	}

	ev := evaluator.New()
	ev.MaxMemory = cfg.MaxMemory
	ev.MaxDepth = cfg.MaxDepth
	ev.Sandboxed = ctx.GlobalBool(sandboxFlag.Name)
	if abs, err := filepath.Abs(path); err == nil {
		ev.BaseDir = filepath.Dir(abs)
	}
	start := time.Now()
	pc = backend.NewExecutionProcessor(backend.NewTreeWalkWith(ev, evaluator.NewGlobalEnvironment())).Process(pc)
	log.Debugf("ran %s in %s", path, time.Since(start))

	if rerr, ok := pc.Result.(*evaluator.Error); ok {
		if rerr.Kind == evaluator.ExitRequested {
			if rerr.ExitCode != 0 {
				return cli.NewExitError("", rerr.ExitCode)
			}
			return nil
		}
	}
	if diagnostics.HasErrors(pc.Errors) {
		diagnostics.Print(os.Stderr, src, pc.Errors, cfg.Color)
		return cli.NewExitError("", 1)
	}
	return nil
}

func checkAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	path, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	pc := compile(path, src)
	if len(pc.Errors) > 0 {
		diagnostics.Print(os.Stderr, src, pc.Errors, cfg.Color)
		return cli.NewExitError("", 1)
	}
	if pc.Scheme != nil {
		fmt.Printf("%s: ok (%s)\n", path, pc.Scheme)
	} else {
		fmt.Printf("%s: ok\n", path)
	}
	return nil
}

// evalAction evaluates EXPR in a fresh REPL session, so results display
// the way they do interactively.
func evalAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	expr := strings.Join(ctx.Args(), " ")
	if strings.TrimSpace(expr) == "" {
		return cli.NewExitError("usage: ruchy eval EXPR", 2)
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg.Journal = ""
	var s *repl.Session
	if ctx.GlobalBool(sandboxFlag.Name) {
		s, err = repl.SandboxedWithConfig(wd, cfg)
	} else {
		s, err = repl.WithConfig(wd, cfg)
	}
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer s.Close()

	out, err := s.Eval(expr)
	if code, exit := repl.ExitCode(err); exit {
		if code != 0 {
			return cli.NewExitError("", code)
		}
		return nil
	}
	if err != nil {
		return cli.NewExitError(renderError(err, cfg.Color), 1)
	}
	if s.Mode() == repl.AwaitingContinuation {
		return cli.NewExitError("expression ends inside an open bracket or string", 1)
	}
	if out != "" {
		fmt.Println(out)
	}
	return nil
}

func renderError(err error, colored bool) string {
	if ee, ok := err.(*repl.EvalError); ok {
		return ee.Render(colored)
	}
	return err.Error()
}

func astAction(ctx *cli.Context) error {
	_, src, err := readSource(ctx)
	if err != nil {
		return err
	}
	prog, errs := parser.Parse(src)
	if len(errs) > 0 {
		diagnostics.Print(os.Stderr, src, errs, diagnostics.ColorEnabled(os.Stderr))
		return cli.NewExitError("", 1)
	}
	p := prettyprinter.NewTreePrinter()
	if ctx.Bool("positions") {
		p = p.WithPositions()
	}
	fmt.Print(p.Print(prog))
	return nil
}

func openJournal(ctx *cli.Context) (*journal.Journal, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	path := cfg.Journal
	if path == "" {
		path = config.DefaultJournalFile
	}
	return journal.Open(path)
}

// replayAction evaluates the inputs of a recorded session again and
// reports every line whose output changed.
func replayAction(ctx *cli.Context) error {
	j, err := openJournal(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer j.Close()

	sessions, err := j.Sessions()
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	if ctx.Bool("list") {
		if len(sessions) == 0 {
			fmt.Println("No recorded sessions in", j.Path())
			return nil
		}
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Session", "Started", "Lines", "Workdir"})
		table.SetAutoFormatHeaders(false)
		for _, sess := range sessions {
			table.Append([]string{sess.ID, sess.StartedAt.Format(time.RFC3339), fmt.Sprint(sess.Entries), sess.Workdir})
		}
		table.Render()
		return nil
	}

	prefix, err := requireArg(ctx, "SESSION_ID")
	if err != nil {
		return err
	}
	var id string
	for _, sess := range sessions {
		if strings.HasPrefix(sess.ID, prefix) {
			if id != "" {
				return cli.NewExitError(fmt.Sprintf("session prefix %q is ambiguous", prefix), 1)
			}
			id = sess.ID
		}
	}
	if id == "" {
		return cli.NewExitError(fmt.Sprintf("no recorded session %q in %s", prefix, j.Path()), 1)
	}
	entries, err := j.Entries(id)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	cfg.Journal = ""
	s, err := repl.WithConfig(wd, cfg)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	defer s.Close()

	changed := 0
	for _, en := range entries {
		fmt.Printf("%s%s\n", config.DefaultPrompt, en.Input)
		out, err := s.Eval(en.Input)
		if err != nil {
			out = err.Error()
			s.Recover()
		}
		if out != "" {
			fmt.Println(out)
		}
		if out != en.Output || (err != nil) != en.IsError {
			changed++
			log.Warningf("line %d changed: recorded %q, now %q", en.Seq, en.Output, out)
		}
	}
	if changed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d lines produced different output", changed, len(entries)), 1)
	}
	return nil
}
