package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/ruchy/internal/config"
)

// TestFunctional builds the binary, runs every testdata script that has a
// .want file and compares stdout. Scripts named error_* must fail with a
// rendered diagnostic on stderr.
func TestFunctional(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := filepath.Join(t.TempDir(), "ruchy")
	build := exec.Command("go", "build", "-o", binary, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}

	scripts, err := filepath.Glob(filepath.Join("testdata", "*"+config.SourceFileExt))
	if err != nil {
		t.Fatal(err)
	}
	if len(scripts) == 0 {
		t.Skip("no scripts in testdata")
	}

	for _, script := range scripts {
		name := strings.TrimSuffix(filepath.Base(script), config.SourceFileExt)
		t.Run(name, func(t *testing.T) {
			want, err := os.ReadFile(strings.TrimSuffix(script, config.SourceFileExt) + ".want")
			if err != nil {
				t.Skip("no .want file")
			}

			abs, err := filepath.Abs(script)
			if err != nil {
				t.Fatal(err)
			}
			cmd := exec.Command(binary, "run", abs)
			cmd.Dir = t.TempDir()
			var stdout, stderr bytes.Buffer
			cmd.Stdout, cmd.Stderr = &stdout, &stderr
			err = cmd.Run()

			got := strings.TrimSpace(strings.ReplaceAll(stdout.String(), "\r\n", "\n"))
			if got != strings.TrimSpace(string(want)) {
				t.Errorf("stdout mismatch:\n--- want ---\n%s\n--- got ---\n%s\n--- stderr ---\n%s", want, got, stderr.String())
			}

			var exitErr *exec.ExitError
			if strings.HasPrefix(name, "error_") {
				if !errors.As(err, &exitErr) {
					t.Errorf("run succeeded, want a failure")
				}
				if !strings.Contains(stderr.String(), "error[") {
					t.Errorf("stderr has no diagnostic:\n%s", stderr.String())
				}
			} else if err != nil {
				t.Errorf("run failed: %v\n%s", err, stderr.String())
			}
		})
	}
}

func TestPipedRepl(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := filepath.Join(t.TempDir(), "ruchy")
	if out, err := exec.Command("go", "build", "-o", binary, ".").CombinedOutput(); err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}

	cmd := exec.Command(binary, "--no-color", "repl")
	cmd.Dir = t.TempDir()
	cmd.Env = append(os.Environ(), "HOME="+cmd.Dir)
	cmd.Stdin = strings.NewReader("let x = 20\nfun twice(n) {\n  n * 2\n}\ntwice(x) + 2\n:type x\n")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("repl: %v\n%s", err, out)
	}
	for _, want := range []string{"20\n", "42\n", "Type: Int\n"} {
		if !strings.Contains(string(out), want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := filepath.Join(t.TempDir(), "ruchy")
	if out, err := exec.Command("go", "build", "-o", binary, ".").CombinedOutput(); err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"verbose eval", []string{"-verbose", "1", "--no-color", "eval", "[x*x for x in 1..=3]"}, "[1, 4, 9]"},
		{"version short flag", []string{"-v"}, config.Version},
		{"version", []string{"--version"}, config.Version},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binary, tt.args...)
			cmd.Dir = t.TempDir()
			out, err := cmd.CombinedOutput()
			if err != nil {
				t.Fatalf("%v: %v\n%s", tt.args, err, out)
			}
			if strings.Contains(string(out), "panic") || !strings.Contains(string(out), tt.want) {
				t.Errorf("%v output = %q, want %q", tt.args, out, tt.want)
			}
		})
	}
}
