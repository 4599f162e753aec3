package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// ReplConfig holds the session limits and interactive preferences.
type ReplConfig struct {
	// MaxMemory is the allocation budget of one evaluation in bytes; 0 is
	// unlimited.
	MaxMemory int64
	// Timeout bounds the wall-clock time of one evaluation; 0 is unlimited.
	Timeout  time.Duration
	MaxDepth int

	HistoryFile string
	HistorySize int
	Color       bool
	Prompt      string
	// TypeCheck runs the type checker before evaluation. Type errors are
	// reported as warnings and do not stop evaluation.
	TypeCheck bool
	// Journal is the path of the transcript database; empty disables it.
	Journal   string
	CacheSize int
}

func DefaultReplConfig() ReplConfig {
	return ReplConfig{
		MaxMemory:   DefaultMaxMemory,
		Timeout:     DefaultTimeout,
		MaxDepth:    DefaultMaxDepth,
		HistoryFile: DefaultHistoryFile,
		HistorySize: DefaultHistorySize,
		Color:       true,
		Prompt:      DefaultPrompt,
		TypeCheck:   true,
		CacheSize:   DefaultCacheSize,
	}
}

// SandboxConfig is the default configuration with the sandbox limits.
func SandboxConfig() ReplConfig {
	cfg := DefaultReplConfig()
	cfg.MaxMemory = SandboxMaxMemory
	cfg.Timeout = SandboxTimeout
	cfg.HistoryFile = ""
	return cfg
}

// fileConfig is the on-disk form. Unset keys keep their defaults; sizes
// and durations are written as strings such as "64MB" and "5s".
type fileConfig struct {
	MaxMemory   *string `yaml:"max_memory" toml:"max_memory"`
	Timeout     *string `yaml:"timeout" toml:"timeout"`
	MaxDepth    *int    `yaml:"max_depth" toml:"max_depth"`
	HistoryFile *string `yaml:"history_file" toml:"history_file"`
	HistorySize *int    `yaml:"history_size" toml:"history_size"`
	Color       *bool   `yaml:"color" toml:"color"`
	Prompt      *string `yaml:"prompt" toml:"prompt"`
	TypeCheck   *bool   `yaml:"type_check" toml:"type_check"`
	Journal     *string `yaml:"journal" toml:"journal"`
	CacheSize   *int    `yaml:"cache_size" toml:"cache_size"`
}

// Load reads a YAML (.yaml, .yml) or TOML (.toml) file over the defaults.
func Load(path string) (ReplConfig, error) {
	cfg := DefaultReplConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes config content; the extension of path selects the format.
func Parse(data []byte, path string) (ReplConfig, error) {
	cfg := DefaultReplConfig()
	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &fc)
		if err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
		}
	default:
		return cfg, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}
	if err := fc.apply(&cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (fc *fileConfig) apply(cfg *ReplConfig) error {
	if fc.MaxMemory != nil {
		n, err := humanize.ParseBytes(*fc.MaxMemory)
		if err != nil {
			return fmt.Errorf("max_memory: %w", err)
		}
		cfg.MaxMemory = int64(n)
	}
	if fc.Timeout != nil {
		d, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		cfg.Timeout = d
	}
	setInt(&cfg.MaxDepth, fc.MaxDepth)
	setInt(&cfg.HistorySize, fc.HistorySize)
	setInt(&cfg.CacheSize, fc.CacheSize)
	setString(&cfg.HistoryFile, fc.HistoryFile)
	setString(&cfg.Prompt, fc.Prompt)
	setString(&cfg.Journal, fc.Journal)
	if fc.Color != nil {
		cfg.Color = *fc.Color
	}
	if fc.TypeCheck != nil {
		cfg.TypeCheck = *fc.TypeCheck
	}
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Validate rejects negative limits.
func (c ReplConfig) Validate() error {
	switch {
	case c.MaxMemory < 0:
		return fmt.Errorf("max_memory must not be negative")
	case c.Timeout < 0:
		return fmt.Errorf("timeout must not be negative")
	case c.MaxDepth < 0:
		return fmt.Errorf("max_depth must not be negative")
	case c.HistorySize < 0:
		return fmt.Errorf("history_size must not be negative")
	case c.CacheSize < 0:
		return fmt.Errorf("cache_size must not be negative")
	}
	return nil
}

// Find returns the first config file from ConfigFileNames present in dir.
func Find(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}
