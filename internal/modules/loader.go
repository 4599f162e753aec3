package modules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/ruchy/internal/config"
	"github.com/funvibe/ruchy/internal/parser"
)

// ErrNotFound is returned when no source file matches a use path.
var ErrNotFound = errors.New("module not found")

// Loader resolves use paths to source files under BaseDir and parses them
// once.
type Loader struct {
	BaseDir string
	Loaded  map[string]*Source // Cache of parsed files by absolute path
	// Processing marks files whose evaluation is in progress, for cycle
	// detection across nested uses.
	Processing map[string]bool
}

func NewLoader(baseDir string) *Loader {
	return &Loader{
		BaseDir:    baseDir,
		Loaded:     make(map[string]*Source),
		Processing: make(map[string]bool),
	}
}

// Resolve finds the file for the longest prefix of segments that names one:
// a::b::c tries a/b/c.ruchy, then a/b.ruchy, then a.ruchy. consumed is the
// number of segments the file covers; the rest name members inside it.
func (l *Loader) Resolve(segments []string) (path string, consumed int, err error) {
	if len(segments) == 1 && filepath.Ext(segments[0]) != "" {
		p := l.abs(segments[0])
		if fileExists(p) {
			return p, 1, nil
		}
		return "", 0, fmt.Errorf("%w: %s", ErrNotFound, segments[0])
	}
	for n := len(segments); n > 0; n-- {
		rel := filepath.Join(segments[:n]...)
		for _, ext := range config.SourceFileExtensions {
			p := l.abs(rel + ext)
			if fileExists(p) {
				return p, n, nil
			}
		}
	}
	return "", 0, fmt.Errorf("%w: %s", ErrNotFound, filepath.Join(segments...))
}

func (l *Loader) abs(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	p, err := filepath.Abs(filepath.Join(l.BaseDir, rel))
	if err != nil {
		return filepath.Join(l.BaseDir, rel)
	}
	return p
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Load parses the file at path, returning the cached copy when it has been
// parsed before. Call Begin and Finish around evaluating it.
func (l *Loader) Load(path string) (*Source, error) {
	if src, ok := l.Loaded[path]; ok {
		return src, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	prog, errs := parser.Parse(string(content))
	if len(errs) > 0 {
		// Just return first error for now
		first := errs[0]
		first.File = path
		return nil, first
	}
	prog.File = path
	src := newSource(path, prog)
	l.Loaded[path] = src
	return src, nil
}

// Begin marks path as being evaluated and fails on a cycle.
func (l *Loader) Begin(path string) error {
	if l.Processing[path] {
		return fmt.Errorf("circular dependency detected loading module: %s", path)
	}
	l.Processing[path] = true
	return nil
}

func (l *Loader) Finish(path string) {
	delete(l.Processing, path)
}
