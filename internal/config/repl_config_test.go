package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		data   string
		modify func(*ReplConfig)
	}{
		{
			name:   "empty yaml keeps defaults",
			file:   "c.yaml",
			data:   "",
			modify: func(*ReplConfig) {},
		},
		{
			name: "yaml",
			file: "c.yml",
			data: "max_memory: 1MiB\ntimeout: 250ms\nprompt: \"> \"\ncolor: false\njournal: j.db\n",
			modify: func(c *ReplConfig) {
				c.MaxMemory = 1 << 20
				c.Timeout = 250 * time.Millisecond
				c.Prompt = "> "
				c.Color = false
				c.Journal = "j.db"
			},
		},
		{
			name: "toml",
			file: "c.toml",
			data: "max_depth = 50\ntype_check = false\ncache_size = 8\nmax_memory = \"2MB\"\n",
			modify: func(c *ReplConfig) {
				c.MaxDepth = 50
				c.TypeCheck = false
				c.CacheSize = 8
				c.MaxMemory = 2000000
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.file)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			want := DefaultReplConfig()
			tt.modify(&want)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"unknown format", "c.json", "{}"},
		{"bad duration", "c.yaml", "timeout: soon\n"},
		{"bad size", "c.yaml", "max_memory: lots\n"},
		{"negative", "c.toml", "max_depth = -1\n"},
		{"unknown toml key", "c.toml", "colour = true\n"},
		{"malformed", "c.yaml", "prompt: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), tt.file); err == nil {
				t.Errorf("Parse(%q) succeeded, want an error", tt.data)
			}
		})
	}
}

func TestLoadAndFind(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Find(dir); ok {
		t.Fatal("Find reported a config in an empty dir")
	}
	path := filepath.Join(dir, ".ruchy.toml")
	if err := os.WriteFile(path, []byte("history_size = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	found, ok := Find(dir)
	if !ok || found != path {
		t.Fatalf("Find = %q, %v; want %q", found, ok, path)
	}
	cfg, err := Load(found)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HistorySize != 10 {
		t.Errorf("HistorySize = %d, want 10", cfg.HistorySize)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestSandboxConfig(t *testing.T) {
	cfg := SandboxConfig()
	if cfg.MaxMemory != SandboxMaxMemory || cfg.Timeout != SandboxTimeout || cfg.HistoryFile != "" {
		t.Errorf("unexpected sandbox config %+v", cfg)
	}
}
