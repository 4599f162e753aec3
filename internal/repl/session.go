// Package repl implements the interactive session: line-at-a-time
// evaluation over persistent bindings, with checkpoints, resource budgets
// and the colon commands.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/tliron/commonlog"

	"github.com/funvibe/ruchy/internal/analyzer"
	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/backend"
	"github.com/funvibe/ruchy/internal/config"
	"github.com/funvibe/ruchy/internal/diagnostics"
	"github.com/funvibe/ruchy/internal/evaluator"
	"github.com/funvibe/ruchy/internal/journal"
	"github.com/funvibe/ruchy/internal/lexer"
	"github.com/funvibe/ruchy/internal/parser"
	"github.com/funvibe/ruchy/internal/pipeline"
	ts "github.com/funvibe/ruchy/internal/typesystem"
)

var log = commonlog.GetLogger("ruchy.repl")

// Mode is the session state the prompt reflects.
type Mode int

const (
	Normal Mode = iota
	AwaitingContinuation
	Failed
)

func (m Mode) String() string {
	switch m {
	case AwaitingContinuation:
		return "AwaitingContinuation"
	case Failed:
		return "Failed"
	}
	return "Normal"
}

// Binding describes one user binding.
type Binding struct {
	Name    string
	Type    string
	Value   string
	Mutable bool
}

type historyEntry struct {
	input string
	ok    bool
}

// Session is one REPL. Lines must be fed from one goroutine at a time.
type Session struct {
	Out    io.Writer
	ErrOut io.Writer

	cfg       config.ReplConfig
	workdir   string
	sandboxed bool

	ev       *evaluator.Evaluator
	env      *evaluator.Environment
	typeEnv  *ts.TypeEnv
	analyzer *analyzer.AnalyzerProcessor

	mode    Mode
	pending string
	// Results are bound as _oldest.._count, the latest also as _.
	oldest, count int
	history       []historyEntry
	warnings      []*diagnostics.DiagnosticError
	peak          int64

	checkpoints map[string]*snapshot
	order       []string

	cache *lru.Cache

	journal   *journal.Journal
	journalID string

	exitCode int
}

// New creates a session rooted at workdir with the default configuration.
func New(workdir string) (*Session, error) {
	return WithConfig(workdir, config.DefaultReplConfig())
}

// Sandboxed creates a session that cannot touch files or read input and
// runs under the tighter sandbox limits.
func Sandboxed(workdir string) (*Session, error) {
	return newSession(workdir, config.SandboxConfig(), true)
}

// SandboxedWithConfig is Sandboxed with the display settings of cfg. The
// sandbox limits replace the ones in cfg and no journal is kept.
func SandboxedWithConfig(workdir string, cfg config.ReplConfig) (*Session, error) {
	cfg.MaxMemory = config.SandboxMaxMemory
	cfg.Timeout = config.SandboxTimeout
	cfg.HistoryFile, cfg.Journal = "", ""
	return newSession(workdir, cfg, true)
}

// WithConfig creates a session with cfg. A configured journal is opened
// relative to workdir and a new transcript is started in it.
func WithConfig(workdir string, cfg config.ReplConfig) (*Session, error) {
	return newSession(workdir, cfg, false)
}

func newSession(workdir string, cfg config.ReplConfig, sandboxed bool) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if workdir == "" {
		workdir = "."
	}
	abs, err := filepath.Abs(workdir)
	if err != nil {
		return nil, fmt.Errorf("resolve workdir: %w", err)
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = config.DefaultCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("parse cache: %w", err)
	}

	s := &Session{
		Out:         os.Stdout,
		ErrOut:      os.Stderr,
		cfg:         cfg,
		workdir:     abs,
		sandboxed:   sandboxed,
		cache:       cache,
		checkpoints: map[string]*snapshot{},
	}
	s.reset()

	if cfg.Journal != "" && !sandboxed {
		if err := s.openJournal(cfg.Journal); err != nil {
			return nil, err
		}
	}
	log.Infof("session started in %s (sandboxed=%t)", abs, sandboxed)
	return s, nil
}

func (s *Session) openJournal(path string) error {
	if !filepath.IsAbs(path) && path != ":memory:" {
		path = filepath.Join(s.workdir, path)
	}
	j, err := journal.Open(path)
	if err != nil {
		return err
	}
	id, err := j.StartSession(s.workdir)
	if err != nil {
		j.Close()
		return err
	}
	s.journal, s.journalID = j, id
	return nil
}

// reset installs a fresh evaluator, global frame and typing environment.
func (s *Session) reset() {
	ev := evaluator.New()
	ev.BaseDir = s.workdir
	ev.CurrentFile = "<repl>"
	ev.MaxDepth = s.cfg.MaxDepth
	ev.Sandboxed = s.sandboxed
	s.ev = ev
	s.env = evaluator.NewGlobalEnvironment()
	s.typeEnv = ts.NewEnclosedTypeEnv(analyzer.PreludeEnv())
	s.analyzer = analyzer.NewAnalyzerProcessor()
	s.oldest, s.count = 1, 0
	s.mode, s.pending = Normal, ""
	s.warnings = nil
}

// Close releases the journal, if any.
func (s *Session) Close() error {
	if s.journal == nil {
		return nil
	}
	err := s.journal.Close()
	s.journal = nil
	return err
}

func (s *Session) Config() config.ReplConfig { return s.cfg }
func (s *Session) Mode() Mode                { return s.mode }
func (s *Session) Workdir() string           { return s.workdir }
func (s *Session) IsSandboxed() bool         { return s.sandboxed }

// JournalID is the transcript id of this session, or "" without a journal.
func (s *Session) JournalID() string { return s.journalID }

// Warnings are the advisory type diagnostics of the last evaluated line.
func (s *Session) Warnings() []*diagnostics.DiagnosticError { return s.warnings }

// Eval evaluates one line under the configured limits and returns the
// display form of its result. A line that leaves a bracket or string open
// is buffered: Eval returns "" and the session awaits continuation.
func (s *Session) Eval(line string) (string, error) {
	return s.evalLine(line, s.cfg.MaxMemory, s.cfg.Timeout)
}

// EvalBounded is Eval with explicit limits. Exceeding either aborts the
// line with a ResourceExceeded error; zero means unlimited.
func (s *Session) EvalBounded(line string, memory int64, timeout time.Duration) (string, error) {
	return s.evalLine(line, memory, timeout)
}

// EvalTransactional is Eval that rolls the bindings back when the line
// fails.
func (s *Session) EvalTransactional(line string) (string, error) {
	snap := s.snapshot()
	out, err := s.Eval(line)
	if err != nil {
		s.apply(snap)
		log.Debugf("rolled back failed line")
	}
	return out, err
}

func (s *Session) evalLine(line string, memory int64, timeout time.Duration) (string, error) {
	src := line
	if s.mode == AwaitingContinuation {
		src = s.pending + "\n" + line
	}
	if NeedsContinuation(src) {
		s.pending = src
		s.mode = AwaitingContinuation
		return "", nil
	}
	s.pending = ""
	if strings.TrimSpace(src) == "" {
		if s.mode == AwaitingContinuation {
			s.mode = Normal
		}
		return "", nil
	}

	result, scheme, err := s.execute(src, s.env, s.cfg.TypeCheck, memory, timeout)
	if _, exit := ExitCode(err); exit {
		s.mode = Normal
		return "", err
	}
	s.history = append(s.history, historyEntry{input: src, ok: err == nil})
	if limit := s.cfg.HistorySize; limit > 0 && len(s.history) > limit {
		s.history = s.history[len(s.history)-limit:]
	}
	if err != nil {
		s.mode = Failed
		s.record(src, err.Error(), true)
		return "", err
	}

	s.mode = Normal
	s.pushResult(result, scheme)
	out := displayResult(result)
	s.record(src, out, false)
	return out, nil
}

// execute runs src through the pipeline in env: parse (cached), advisory
// type check, then evaluation under the given budget.
func (s *Session) execute(src string, env *evaluator.Environment, typeCheck bool, memory int64, timeout time.Duration) (evaluator.Object, *ts.Scheme, error) {
	prog, diags := s.parse(src)
	if diags != nil {
		return nil, nil, &EvalError{Source: src, Diagnostics: diags}
	}

	pc := pipeline.NewPipelineContext(src, "")
	pc.AstRoot = prog
	var stages []pipeline.Processor
	if typeCheck {
		pc.TypeEnv = s.typeEnv
		pc.AdvisoryTypes = true
		stages = append(stages, s.analyzer)
	}
	stages = append(stages, backend.NewExecutionProcessor(backend.NewTreeWalkWith(s.ev, env)))

	ctx, cancel := withTimeout(timeout)
	defer cancel()
	s.ev.Context = ctx
	s.ev.MaxMemory = memory
	s.ev.Out, s.ev.ErrOut = s.Out, s.ErrOut
	s.ev.ResetAllocations()
	defer func() { s.ev.Context = nil }()

	pc = pipeline.New(stages...).Run(pc)
	s.warnings = pc.Warnings
	for _, w := range pc.Warnings {
		log.Debugf("advisory: %s", w.Error())
	}
	s.notePeak()

	if rerr, ok := pc.Result.(*evaluator.Error); ok {
		return nil, nil, &EvalError{Source: src, Diagnostics: pc.Errors, Runtime: rerr}
	}
	if diagnostics.HasErrors(pc.Errors) {
		return nil, nil, &EvalError{Source: src, Diagnostics: pc.Errors}
	}
	obj, _ := pc.Result.(evaluator.Object)
	return obj, pc.Scheme, nil
}

func withTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), d)
}

// parse lexes and parses src, reusing the AST of an identical earlier
// line. Programs are never mutated after parsing, so sharing is safe.
func (s *Session) parse(src string) (*ast.Program, []*diagnostics.DiagnosticError) {
	if v, ok := s.cache.Get(src); ok {
		return v.(*ast.Program), nil
	}
	pc := pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(pipeline.NewPipelineContext(src, ""))
	if diagnostics.HasErrors(pc.Errors) {
		return nil, pc.Errors
	}
	s.cache.Add(src, pc.AstRoot)
	return pc.AstRoot, nil
}

// pushResult binds obj as _ and _N. Unit results are not kept.
func (s *Session) pushResult(obj evaluator.Object, scheme *ts.Scheme) {
	if n, ok := obj.(*evaluator.Nil); obj == nil || ok && !n.Null {
		return
	}
	if scheme == nil {
		scheme = ts.Mono(ts.Any)
	}
	s.count++
	name := historyName(s.count)
	s.env.Set("_", obj)
	s.env.Set(name, obj)
	s.typeEnv.Set("_", scheme)
	s.typeEnv.Set(name, scheme)

	if limit := s.cfg.HistorySize; limit > 0 {
		for s.count-s.oldest+1 > limit {
			old := historyName(s.oldest)
			s.env.Remove(old)
			s.typeEnv.Remove(old)
			s.oldest++
		}
	}
}

func historyName(n int) string { return "_" + strconv.Itoa(n) }

// isHistoryName matches _ and _N.
func isHistoryName(name string) bool {
	if name == "_" {
		return true
	}
	if len(name) < 2 || name[0] != '_' {
		return false
	}
	_, err := strconv.Atoi(name[1:])
	return err == nil
}

func displayResult(obj evaluator.Object) string {
	if n, ok := obj.(*evaluator.Nil); obj == nil || ok && !n.Null {
		return ""
	}
	return evaluator.Display(obj)
}

func (s *Session) record(input, output string, isError bool) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Record(s.journalID, input, output, isError); err != nil {
		log.Warningf("journal: %s", err)
	}
}

// Recover leaves Failed (or an abandoned continuation) for Normal. The
// bindings are untouched.
func (s *Session) Recover() {
	s.mode = Normal
	s.pending = ""
}

// ClearBindings drops every user binding, declared type and loaded
// module. Checkpoints and the input history survive.
func (s *Session) ClearBindings() {
	s.notePeak()
	s.reset()
	log.Debugf("bindings cleared")
}

// GetPrompt returns the prompt for the current mode.
func (s *Session) GetPrompt() string {
	switch s.mode {
	case AwaitingContinuation:
		return config.ContinuationPrompt
	case Failed:
		return config.FailedPrompt
	}
	if s.cfg.Prompt != "" {
		return s.cfg.Prompt
	}
	return config.DefaultPrompt
}

// GetBindings lists the user bindings of the session frame by name.
// History names are left out.
func (s *Session) GetBindings() []Binding {
	store := s.env.GetStore()
	names := make([]string, 0, len(store))
	for name := range store {
		if !isHistoryName(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]Binding, 0, len(names))
	for _, name := range names {
		v := store[name]
		mutable, _ := s.env.IsMutable(name)
		out = append(out, Binding{
			Name:    name,
			Type:    evaluator.TypeName(v),
			Value:   v.Inspect(),
			Mutable: mutable,
		})
	}
	return out
}

// MemoryUsed estimates the bytes retained by the session bindings.
func (s *Session) MemoryUsed() int64 {
	var n int64
	for _, v := range s.env.GetStore() {
		n += evaluator.SizeOf(v)
	}
	return n
}

// MemoryPressure is MemoryUsed as a fraction of the memory limit, capped
// at 1. It is 0 when the session is unlimited.
func (s *Session) MemoryPressure() float64 {
	if s.cfg.MaxMemory <= 0 {
		return 0
	}
	p := float64(s.MemoryUsed()) / float64(s.cfg.MaxMemory)
	if p > 1 {
		return 1
	}
	return p
}

// PeakMemory is the largest footprint seen so far: retained bindings or
// the allocations of a single line, whichever was larger.
func (s *Session) PeakMemory() int64 {
	s.notePeak()
	return s.peak
}

func (s *Session) notePeak() {
	if p := s.ev.PeakAllocated(); p > s.peak {
		s.peak = p
	}
	if u := s.MemoryUsed(); u > s.peak {
		s.peak = u
	}
}

// ExitStatus is the status passed to exit() by the line that ended the
// session.
func (s *Session) ExitStatus() int { return s.exitCode }
