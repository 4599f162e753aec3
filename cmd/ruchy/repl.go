package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"gopkg.in/urfave/cli.v1"

	"github.com/funvibe/ruchy/internal/config"
	"github.com/funvibe/ruchy/internal/repl"
)

func replAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

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

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return pipedRepl(s)
	}
	return interactiveRepl(s)
}

func interactiveRepl(s *repl.Session) error {
	cfg := s.Config()
	if cfg.Color {
		c := color.New(color.FgCyan, color.Bold)
		c.EnableColor()
		fmt.Println(c.Sprintf("Ruchy %s", config.Version) + "  (:help for commands, :quit to exit)")
	} else {
		fmt.Printf("Ruchy %s  (:help for commands, :quit to exit)\n", config.Version)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(wordCompleter(s))

	histPath := historyPath(cfg.HistoryFile)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		line, err := ln.Prompt(s.GetPrompt())
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			// Ctrl-C drops a half-typed block or a failed state.
			s.Recover()
			continue
		case errors.Is(err, io.EOF):
			fmt.Println()
			return nil
		case err != nil:
			return err
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if s.ProcessLine(line) {
			return exitStatus(s)
		}
	}
}

// pipedRepl feeds stdin to the session line by line without prompts.
func pipedRepl(s *repl.Session) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if s.ProcessLine(line) {
			return exitStatus(s)
		}
	}
	if s.Mode() == repl.AwaitingContinuation {
		return cli.NewExitError("input ends inside an open bracket or string", 1)
	}
	return nil
}

func exitStatus(s *repl.Session) error {
	if code := s.ExitStatus(); code != 0 {
		return cli.NewExitError("", code)
	}
	return nil
}

// wordCompleter completes the name under the cursor, including a
// receiver or module path in front of it.
func wordCompleter(s *repl.Session) liner.WordCompleter {
	return func(line string, pos int) (string, []string, string) {
		r := []rune(line)
		if pos > len(r) {
			pos = len(r)
		}
		start := pos
		for start > 0 && isWordRune(r[start-1]) {
			start--
		}
		return string(r[:start]), s.GetCompletions(string(r[start:pos])), string(r[pos:])
	}
}

func isWordRune(r rune) bool {
	return r == '_' || r == '.' || r == ':' || r >= '0' && r <= '9' ||
		r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r > 0x7f
}

// historyPath puts a relative history file in the home directory.
func historyPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, name)
}
