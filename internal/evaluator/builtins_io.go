package evaluator

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

func (e *Evaluator) denied(name string) *Error {
	if e.Sandboxed {
		return newError(PermissionDenied, "%s is not allowed in the sandbox", name)
	}
	return nil
}

// builtinInput prints an optional prompt and reads one line without its
// newline. End of input yields an empty string.
func builtinInput(e *Evaluator, args ...Object) Object {
	if err := checkArgs("input", args, 0, 1); err != nil {
		return err
	}
	if err := e.denied("input"); err != nil {
		return err
	}
	if len(args) == 1 {
		if res := e.write(e.Out, Display(args[0])); isError(res) {
			return res
		}
	}
	if e.stdin == nil {
		in := e.In
		if in == nil {
			in = os.Stdin
		}
		e.stdin = bufio.NewReader(in)
	}
	line, err := e.stdin.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return newError(IOError, "input: %v", err)
	}
	return e.newString(strings.TrimRight(line, "\r\n"))
}

func (e *Evaluator) resolvePath(p string) string {
	if filepath.IsAbs(p) || e.BaseDir == "" {
		return p
	}
	return filepath.Join(e.BaseDir, p)
}

func builtinReadFile(e *Evaluator, args ...Object) Object {
	if err := checkArgs("read_file", args, 1, 1); err != nil {
		return err
	}
	if err := e.denied("read_file"); err != nil {
		return err
	}
	path, err := stringArg("read_file", args[0])
	if err != nil {
		return err
	}
	data, rerr := os.ReadFile(e.resolvePath(path))
	if rerr != nil {
		return newError(IOError, "cannot read %s: %v", path, rerr)
	}
	return e.newString(string(data))
}

func builtinWriteFile(e *Evaluator, args ...Object) Object {
	if err := checkArgs("write_file", args, 2, 2); err != nil {
		return err
	}
	if err := e.denied("write_file"); err != nil {
		return err
	}
	path, err := stringArg("write_file", args[0])
	if err != nil {
		return err
	}
	if werr := os.WriteFile(e.resolvePath(path), []byte(Display(args[1])), 0o644); werr != nil {
		return newError(IOError, "cannot write %s: %v", path, werr)
	}
	return NIL
}

// builtinSleep waits the given number of milliseconds, returning early
// with an error when the evaluation is cancelled.
func builtinSleep(e *Evaluator, args ...Object) Object {
	if err := checkArgs("sleep", args, 1, 1); err != nil {
		return err
	}
	ms, err := floatArg("sleep", args[0])
	if err != nil {
		return err
	}
	if ms <= 0 {
		return NIL
	}
	timer := time.NewTimer(time.Duration(ms * float64(time.Millisecond)))
	defer timer.Stop()
	if e.Context == nil {
		<-timer.C
		return NIL
	}
	select {
	case <-timer.C:
		return NIL
	case <-e.Context.Done():
		return e.cancelled()
	}
}
