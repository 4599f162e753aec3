package modules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, src string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "util.ruchy"), "fun f() { 1 }")
	writeFile(t, filepath.Join(dir, "net", "http.rhy"), "fun get() { 2 }")

	tests := []struct {
		name     string
		segments []string
		file     string
		consumed int
	}{
		{"single", []string{"util"}, "util.ruchy", 1},
		{"member", []string{"util", "f"}, "util.ruchy", 1},
		{"nested", []string{"net", "http", "get"}, filepath.Join("net", "http.rhy"), 2},
		{"explicit file", []string{"util.ruchy"}, "util.ruchy", 1},
	}
	l := NewLoader(dir)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, consumed, err := l.Resolve(tt.segments)
			if err != nil {
				t.Fatalf("Resolve(%v): %v", tt.segments, err)
			}
			want, _ := filepath.Abs(filepath.Join(dir, tt.file))
			if path != want || consumed != tt.consumed {
				t.Errorf("Resolve(%v) = %s, %d; want %s, %d", tt.segments, path, consumed, want, tt.consumed)
			}
		})
	}

	if _, _, err := l.Resolve([]string{"missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing module error = %v, want ErrNotFound", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.ruchy")
	writeFile(t, path, "struct P { x: Int }\nfun area(p) { p.x }\nlet unit = 1\nprintln(unit)\n")

	l := NewLoader(dir)
	src, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.Name != "shapes" {
		t.Errorf("Name = %s, want shapes", src.Name)
	}
	if diff := cmp.Diff([]string{"P", "area", "unit"}, src.ExportNames()); diff != "" {
		t.Errorf("exports mismatch (-want +got):\n%s", diff)
	}
	again, _ := l.Load(path)
	if again != src {
		t.Error("second Load re-parsed the file")
	}

	bad := filepath.Join(dir, "bad.ruchy")
	writeFile(t, bad, "fun (")
	if _, err := l.Load(bad); err == nil {
		t.Error("Load of a malformed file succeeded")
	}
}

func TestCycleGuard(t *testing.T) {
	l := NewLoader(t.TempDir())
	if err := l.Begin("a"); err != nil {
		t.Fatal(err)
	}
	if err := l.Begin("a"); err == nil {
		t.Error("re-entering a module in progress succeeded")
	}
	l.Finish("a")
	if err := l.Begin("a"); err != nil {
		t.Errorf("Begin after Finish: %v", err)
	}
}
