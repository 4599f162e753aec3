package config

import "time"

const Version = "0.9.0"

const SourceFileExt = ".ruchy"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".ruchy", ".rhy"}

// Config files looked up in the working directory, in order.
var ConfigFileNames = []string{".ruchy.yaml", ".ruchy.yml", ".ruchy.toml"}

// Evaluation limits.
const (
	// DefaultMaxDepth bounds nested function calls.
	DefaultMaxDepth = 1000
	// MaxEvalDepth bounds AST nesting during evaluation, independent of
	// calls, so deeply nested input cannot exhaust the Go stack.
	MaxEvalDepth = 20000
	// DefaultMaxMemory is the allocation budget of one REPL evaluation.
	DefaultMaxMemory int64 = 64 << 20
	DefaultTimeout         = 5 * time.Second

	SandboxMaxMemory int64 = 16 << 20
	SandboxTimeout         = 2 * time.Second
)

// REPL defaults.
const (
	DefaultPrompt      = "ruchy> "
	ContinuationPrompt = "...    "
	FailedPrompt       = "ruchy!> "
	DefaultHistorySize = 1000
	DefaultHistoryFile = ".ruchy_history"
	DefaultCacheSize   = 256
	DefaultJournalFile = ".ruchy_journal.db"
)

// Built-in function names
const (
	PrintlnFuncName = "println"
	PrintFuncName   = "print"
	PanicFuncName   = "panic"
	ErrorFuncName   = "error"
	LenFuncName     = "len"
	TypeOfFuncName  = "type_of"
	InputFuncName   = "input"
	ReadFileName    = "read_file"
	WriteFileName   = "write_file"
	ExitFuncName    = "exit"
)

// Built-in type and constructor names
const (
	OptionTypeName = "Option"
	ResultTypeName = "Result"
	SomeCtorName   = "Some"
	NoneCtorName   = "None"
	OkCtorName     = "Ok"
	ErrCtorName    = "Err"
)

// StdModulePrefix names modules provided by the host; `use std::...` binds
// nothing.
const StdModulePrefix = "std"
