package evaluator

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/funvibe/ruchy/internal/ast"
	"github.com/funvibe/ruchy/internal/config"
	"github.com/funvibe/ruchy/internal/modules"
)

type Evaluator struct {
	// Context for cancellation and timeouts
	Context context.Context

	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader
	stdin  *bufio.Reader

	// BaseDir for file-based module resolution
	BaseDir     string
	CurrentFile string
	// Sandboxed denies file I/O and console input.
	Sandboxed bool

	// MaxDepth bounds nested calls; 0 uses config.DefaultMaxDepth.
	MaxDepth int
	// MaxMemory is the allocation budget in bytes; 0 means unlimited.
	MaxMemory int64
	allocated int64
	peak      int64

	// Loader resolves and parses module files; created on first use.
	Loader *modules.Loader
	// ModuleCache keeps evaluated module files by path
	ModuleCache map[string]*Module

	// Impls holds impl blocks for builtin types, keyed by type name.
	Impls map[string]*TypeDescriptor

	// CallStack for stack traces on errors
	CallStack []StackFrame

	evalDepth int
}

func New() *Evaluator {
	return &Evaluator{
		Out:         os.Stdout,
		ErrOut:      os.Stderr,
		In:          os.Stdin,
		ModuleCache: make(map[string]*Module),
		Impls:       make(map[string]*TypeDescriptor),
	}
}

func (e *Evaluator) maxDepth() int {
	if e.MaxDepth > 0 {
		return e.MaxDepth
	}
	return config.DefaultMaxDepth
}

// ResetAllocations starts a new allocation budget window.
func (e *Evaluator) ResetAllocations() { e.allocated = 0 }

func (e *Evaluator) Allocated() int64     { return e.allocated }
func (e *Evaluator) PeakAllocated() int64 { return e.peak }

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > config.MaxEvalDepth {
		return newError(StackOverflow, "maximum evaluation depth exceeded")
	}

	if e.Context != nil {
		select {
		case <-e.Context.Done():
			return e.cancelled()
		default:
		}
	}

	obj := e.evalCore(node, env)
	if err, ok := obj.(*Error); ok && err.Line == 0 && node != nil {
		tok := node.GetToken()
		err.Line = tok.Line
		err.Column = tok.Column
		err.Span = node.GetSpan()
	}
	return obj
}

func (e *Evaluator) cancelled() *Error {
	if e.Context.Err() == context.DeadlineExceeded {
		return newError(ResourceExceeded, "timeout exceeded")
	}
	return newError(ResourceExceeded, "evaluation cancelled")
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	case nil:
		return NIL
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.BlockExpression:
		return e.evalBlock(node, NewEnclosedEnvironment(env))

	// Literals
	case *ast.IntegerLiteral:
		return e.evalIntegerLiteral(node)
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}
	case *ast.StringLiteral:
		return e.newString(node.Value)
	case *ast.CharLiteral:
		return &Char{Value: node.Value}
	case *ast.ByteLiteral:
		return &Byte{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBool(node.Value)
	case *ast.AtomLiteral:
		return &Atom{Name: node.Name}
	case *ast.NullLiteral:
		return NULL
	case *ast.UnitLiteral:
		return NIL
	case *ast.InterpolatedString:
		return e.evalInterpolatedString(node, env)
	case *ast.ListLiteral:
		return e.evalListLiteral(node, env)
	case *ast.TupleLiteral:
		return e.evalTupleLiteral(node, env)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(node, env)
	case *ast.StructLiteral:
		return e.evalStructLiteral(node, env)
	case *ast.RangeExpression:
		return e.evalRangeExpression(node, env)
	case *ast.ComprehensionExpression:
		return e.evalComprehension(node, env)
	case *ast.FunctionLiteral:
		return &Function{
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
			IsAsync:    node.IsAsync,
			Line:       node.Token.Line,
		}

	// Names
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.PathExpression:
		return e.evalPathExpression(node, env)

	// Operators
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.CastExpression:
		return e.evalCastExpression(node, env)

	// Access and calls
	case *ast.FieldAccessExpression:
		return e.evalFieldAccess(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.MethodCallExpression:
		return e.evalMethodCall(node, env)
	case *ast.NamedArgument:
		return newError(TypeMismatch, "named argument %s outside a call", node.Name)

	// Control flow
	case *ast.LetExpression:
		return e.evalLetExpression(node, env)
	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	case *ast.MatchExpression:
		return e.evalMatchExpression(node, env)
	case *ast.WhileExpression:
		return e.evalWhileExpression(node, env)
	case *ast.ForExpression:
		return e.evalForExpression(node, env)
	case *ast.LoopExpression:
		return e.evalLoopExpression(node, env)
	case *ast.BreakExpression:
		return e.evalBreakExpression(node, env)
	case *ast.ContinueExpression:
		return &ContinueSignal{Label: node.Label}
	case *ast.ReturnExpression:
		return e.evalReturnExpression(node, env)
	case *ast.TryCatchExpression:
		return e.evalTryCatch(node, env)
	case *ast.ThrowExpression:
		return e.evalThrowExpression(node, env)
	case *ast.TryOperatorExpression:
		return e.evalTryOperator(node, env)
	case *ast.AwaitExpression:
		return e.evalAwaitExpression(node, env)
	case *ast.AsyncExpression:
		val := e.Eval(node.Body, env)
		if isError(val) {
			return val
		}
		return &Future{Value: unwrapReturnValue(val)}

	// Assignment
	case *ast.AssignExpression:
		return e.evalAssignExpression(node, env)
	case *ast.CompoundAssignExpression:
		return e.evalCompoundAssign(node, env)

	// Declarations
	case *ast.FunctionDeclaration:
		return e.evalFunctionDeclaration(node, env)
	case *ast.StructDeclaration:
		return e.evalStructDeclaration(node, env)
	case *ast.ClassDeclaration:
		return e.evalClassDeclaration(node, env)
	case *ast.ActorDeclaration:
		return e.evalActorDeclaration(node, env)
	case *ast.EnumDeclaration:
		return e.evalEnumDeclaration(node, env)
	case *ast.ImplBlock:
		return e.evalImplBlock(node, env)
	case *ast.UseDeclaration:
		return e.evalUseDeclaration(node, env)
	case *ast.ModuleDeclaration:
		return e.evalModuleDeclaration(node, env)

	// Actors
	case *ast.SpawnExpression:
		return e.evalSpawnExpression(node, env)
	case *ast.SendExpression:
		return e.evalSendExpression(node, env)
	}
	return newError(InternalError, "unknown node type: %T", node)
}

// evalProgram evaluates forms in env itself, so top-level bindings
// persist in the caller's frame.
func (e *Evaluator) evalProgram(program *ast.Program, env *Environment) Object {
	if program.File != "" {
		e.CurrentFile = program.File
	}
	var result Object = NIL
	for _, form := range program.Forms {
		result = e.Eval(form, env)
		switch r := result.(type) {
		case *ReturnValue:
			return r.Value
		case *Error:
			return r
		case *BreakSignal, *ContinueSignal:
			return newError(TypeMismatch, "%s outside of a loop", r.Inspect())
		}
	}
	return result
}

// evalBlock evaluates expressions in the given frame; callers choose
// whether that frame is fresh.
func (e *Evaluator) evalBlock(block *ast.BlockExpression, env *Environment) Object {
	var result Object = NIL
	for _, expr := range block.Expressions {
		result = e.Eval(expr, env)
		if isSignal(result) {
			return result
		}
	}
	return result
}
