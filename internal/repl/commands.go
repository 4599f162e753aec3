package repl

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/evaluator"
	"github.com/funvibe/ruchy/internal/pipeline"
	"github.com/funvibe/ruchy/internal/prettyprinter"
)

var errSandboxFiles = errors.New("file access is disabled in a sandboxed session")

type command struct {
	names []string
	args  string
	help  string
	run   func(s *Session, arg string) (out string, exit bool, err error)
}

var commands []command

func init() {
	commands = []command{
		{[]string{":help", ":h"}, "", "Show this help", (*Session).cmdHelp},
		{[]string{":quit", ":q", ":exit"}, "", "Exit the REPL", func(*Session, string) (string, bool, error) { return "", true, nil }},
		{[]string{":clear"}, "", "Clear the input history", (*Session).cmdClear},
		{[]string{":reset"}, "", "Drop every binding", (*Session).cmdReset},
		{[]string{":type"}, "EXPR", "Show the inferred type of EXPR", (*Session).cmdType},
		{[]string{":ast"}, "EXPR", "Show the syntax tree of EXPR", (*Session).cmdAst},
		{[]string{":inspect"}, "EXPR", "Evaluate EXPR and describe the value", (*Session).cmdInspect},
		{[]string{":env", ":vars"}, "", "List the bindings", (*Session).cmdEnv},
		{[]string{":history"}, "", "Show the input history", (*Session).cmdHistory},
		{[]string{":mode"}, "", "Show the session mode", (*Session).cmdMode},
		{[]string{":checkpoint"}, "[list]", "Snapshot the bindings, or list snapshots", (*Session).cmdCheckpoint},
		{[]string{":restore"}, "ID", "Return to a checkpoint (an id prefix is enough)", (*Session).cmdRestore},
		{[]string{":save"}, "[FILE]", "Write the successful inputs to FILE", (*Session).cmdSave},
		{[]string{":load"}, "FILE", "Evaluate a source file in this session", (*Session).cmdLoad},
		{[]string{":recover"}, "", "Leave the failed state, keeping bindings", (*Session).cmdRecover},
		{[]string{":memory"}, "", "Show memory use against the limit", (*Session).cmdMemory},
	}
}

func commandNames() []string {
	var out []string
	for _, c := range commands {
		out = append(out, c.names...)
	}
	return out
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		for _, n := range c.names {
			if n == name {
				return c, true
			}
		}
	}
	return command{}, false
}

// ProcessLine handles one line of interactive input, a command or code,
// and writes its output. It reports whether the session should end.
func (s *Session) ProcessLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if s.mode != AwaitingContinuation && strings.HasPrefix(trimmed, ":") {
		out, exit, err := s.Command(trimmed)
		if err != nil {
			s.printError(err)
		} else if out != "" {
			fmt.Fprintln(s.Out, out)
		}
		return exit
	}

	out, err := s.Eval(line)
	if err != nil {
		if code, exit := ExitCode(err); exit {
			s.exitCode = code
			return true
		}
		s.printError(err)
		return false
	}
	if out != "" {
		fmt.Fprintln(s.Out, out)
	}
	return false
}

// Command runs one colon command.
func (s *Session) Command(line string) (string, bool, error) {
	name, arg := line, ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		name, arg = line[:i], strings.TrimSpace(line[i+1:])
	}
	c, ok := lookupCommand(strings.ToLower(name))
	if !ok {
		return "", false, fmt.Errorf("unknown command %s (try :help)", name)
	}
	if c.args != "" && !strings.HasPrefix(c.args, "[") && arg == "" {
		return "", false, fmt.Errorf("usage: %s %s", c.names[0], c.args)
	}
	return c.run(s, arg)
}

func (s *Session) printError(err error) {
	var ee *EvalError
	if errors.As(err, &ee) {
		fmt.Fprintln(s.ErrOut, ee.Render(s.cfg.Color))
		if ee.Runtime != nil && ee.Runtime.Kind == evaluator.TypeMismatch {
			diagnostics.Print(s.ErrOut, ee.Source, s.warnings, s.cfg.Color)
		}
		return
	}
	msg := "error: " + err.Error()
	if s.cfg.Color {
		c := color.New(color.FgRed)
		c.EnableColor()
		msg = c.Sprint(msg)
	}
	fmt.Fprintln(s.ErrOut, msg)
}

func (s *Session) heading(text string) string {
	if !s.cfg.Color {
		return text
	}
	c := color.New(color.FgCyan, color.Bold)
	c.EnableColor()
	return c.Sprint(text)
}

func (s *Session) cmdHelp(string) (string, bool, error) {
	var b strings.Builder
	b.WriteString(s.heading("Commands:"))
	b.WriteByte('\n')
	for _, c := range commands {
		usage := strings.Join(c.names, ", ")
		if c.args != "" {
			usage += " " + c.args
		}
		fmt.Fprintf(&b, "  %-24s %s\n", usage, c.help)
	}
	b.WriteString(s.heading("History:"))
	b.WriteString("\n  _ is the last result, _1 .. _N every result so far\n")
	return strings.TrimRight(b.String(), "\n"), false, nil
}

func (s *Session) cmdClear(string) (string, bool, error) {
	s.history = nil
	return "History cleared", false, nil
}

func (s *Session) cmdReset(string) (string, bool, error) {
	s.ClearBindings()
	return "Bindings reset", false, nil
}

// TypeOf infers the type of src against the session bindings without
// binding anything.
func (s *Session) TypeOf(src string) (string, error) {
	prog, diags := s.parse(src)
	if diags != nil {
		return "", &EvalError{Source: src, Diagnostics: diags}
	}
	pc := pipeline.NewPipelineContext(src, "")
	pc.AstRoot = prog
	pc.TypeEnv = s.typeEnv.Clone()
	pc = s.analyzer.Fork().Process(pc)
	if diagnostics.HasErrors(pc.Errors) {
		return "", &EvalError{Source: src, Diagnostics: pc.Errors}
	}
	return pc.Scheme.String(), nil
}

func (s *Session) cmdType(arg string) (string, bool, error) {
	t, err := s.TypeOf(arg)
	if err != nil {
		return "", false, err
	}
	return "Type: " + t, false, nil
}

func (s *Session) cmdAst(arg string) (string, bool, error) {
	prog, diags := s.parse(arg)
	if diags != nil {
		return "", false, &EvalError{Source: arg, Diagnostics: diags}
	}
	return strings.TrimRight(prettyprinter.Tree(prog), "\n"), false, nil
}

// Inspect evaluates src in a scratch frame over the session bindings and
// describes the value.
func (s *Session) Inspect(src string) (string, error) {
	obj, _, err := s.execute(src, evaluator.NewEnclosedEnvironment(s.env), false, s.cfg.MaxMemory, s.cfg.Timeout)
	if err != nil {
		return "", err
	}
	if obj == nil {
		obj = evaluator.NIL
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\n", evaluator.TypeName(obj))
	if n, ok := length(obj); ok {
		fmt.Fprintf(&b, "Length: %d\n", n)
	}
	if fields := fieldNames(obj); fields != nil {
		fmt.Fprintf(&b, "Fields: %s\n", strings.Join(fields, ", "))
	}
	fmt.Fprintf(&b, "Memory: ~%s\n", humanize.IBytes(uint64(evaluator.SizeOf(obj))))
	fmt.Fprintf(&b, "Value: %s", obj.Inspect())
	return b.String(), nil
}

func length(obj evaluator.Object) (int, bool) {
	switch o := obj.(type) {
	case *evaluator.List:
		return len(o.Elements), true
	case *evaluator.Tuple:
		return len(o.Elements), true
	case *evaluator.String:
		return len([]rune(o.Value)), true
	case *evaluator.Dict:
		return o.Len(), true
	case *evaluator.Set:
		return o.Len(), true
	case *evaluator.Series:
		return len(o.Values), true
	}
	return 0, false
}

func fieldNames(obj evaluator.Object) []string {
	switch o := obj.(type) {
	case *evaluator.Record:
		return o.Fields.Names()
	case *evaluator.Struct:
		return o.Fields.Names()
	case *evaluator.ObjectMut:
		return o.Fields.Names()
	case *evaluator.DataFrame:
		names := make([]string, len(o.Columns))
		for i, c := range o.Columns {
			names[i] = c.Name
		}
		return names
	}
	return nil
}

func (s *Session) cmdInspect(arg string) (string, bool, error) {
	out, err := s.Inspect(arg)
	return out, false, err
}

func (s *Session) cmdEnv(string) (string, bool, error) {
	bindings := s.GetBindings()
	if len(bindings) == 0 {
		return "No variables defined", false, nil
	}
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Name", "Type", "Mut", "Value"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, b := range bindings {
		mut := ""
		if b.Mutable {
			mut = "mut"
		}
		table.Append([]string{b.Name, b.Type, mut, truncate(b.Value, 60)})
	}
	table.Render()
	return strings.TrimRight(buf.String(), "\n"), false, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func (s *Session) cmdHistory(string) (string, bool, error) {
	if len(s.history) == 0 {
		return "No history", false, nil
	}
	var b strings.Builder
	for i, h := range s.history {
		fmt.Fprintf(&b, "%d: %s", i+1, strings.ReplaceAll(h.input, "\n", " "))
		if !h.ok {
			b.WriteString("  (error)")
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), false, nil
}

func (s *Session) cmdMode(string) (string, bool, error) {
	return "Current mode: " + s.mode.String(), false, nil
}

func (s *Session) cmdCheckpoint(arg string) (string, bool, error) {
	if arg == "list" {
		ids := s.Checkpoints()
		if len(ids) == 0 {
			return "No checkpoints", false, nil
		}
		return strings.Join(ids, "\n"), false, nil
	}
	return "Checkpoint " + s.Checkpoint(), false, nil
}

func (s *Session) cmdRestore(arg string) (string, bool, error) {
	id, err := s.lookupCheckpoint(arg)
	if err != nil {
		return "", false, err
	}
	if err := s.Restore(id); err != nil {
		return "", false, err
	}
	return "Restored " + id, false, nil
}

func (s *Session) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.workdir, path)
}

func (s *Session) cmdSave(arg string) (string, bool, error) {
	if arg == "" {
		if s.journal == nil {
			return "", false, errors.New("usage: :save FILE (no journal is configured)")
		}
		return fmt.Sprintf("Session %s is recorded in %s", s.journalID, s.journal.Path()), false, nil
	}
	if s.sandboxed {
		return "", false, errSandboxFiles
	}
	var lines []string
	for _, h := range s.history {
		if h.ok {
			lines = append(lines, h.input)
		}
	}
	data := strings.Join(lines, "\n")
	if data != "" {
		data += "\n"
	}
	if err := os.WriteFile(s.resolve(arg), []byte(data), 0o644); err != nil {
		return "", false, fmt.Errorf("save session: %w", err)
	}
	return "Saved " + strconv.Itoa(len(lines)) + " inputs to " + arg, false, nil
}

func (s *Session) cmdLoad(arg string) (string, bool, error) {
	if s.sandboxed {
		return "", false, errSandboxFiles
	}
	data, err := os.ReadFile(s.resolve(arg))
	if err != nil {
		return "", false, fmt.Errorf("load: %w", err)
	}
	s.Recover()
	out, err := s.Eval(string(data))
	if err != nil {
		return "", false, err
	}
	if s.mode == AwaitingContinuation {
		s.Recover()
		return "", false, fmt.Errorf("load: %s ends inside an open bracket or string", arg)
	}
	if out == "" {
		out = "Loaded " + arg
	}
	return out, false, nil
}

func (s *Session) cmdRecover(string) (string, bool, error) {
	s.Recover()
	return "Recovered", false, nil
}

func (s *Session) cmdMemory(string) (string, bool, error) {
	used := s.MemoryUsed()
	limit := "unlimited"
	if s.cfg.MaxMemory > 0 {
		limit = humanize.IBytes(uint64(s.cfg.MaxMemory))
	}
	return fmt.Sprintf("Memory: %s used, %s peak, limit %s (%.1f%% pressure)",
		humanize.IBytes(uint64(used)), humanize.IBytes(uint64(s.PeakMemory())), limit, s.MemoryPressure()*100), false, nil
}
