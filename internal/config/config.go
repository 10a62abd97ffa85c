// Package config provides configuration types and defaults for parchment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zjrosen/parchment/internal/log"
	"github.com/zjrosen/parchment/internal/tracing"
)

// Config holds all configuration options for parchment.
type Config struct {
	// RepoRoot is the repository to scan. Default: current directory.
	RepoRoot string `mapstructure:"repo_root"`

	// DocRoots are the directories under RepoRoot that hold versioned
	// documents. Default: docs, plans.
	DocRoots []string `mapstructure:"doc_roots"`

	// DocExtension selects which files carry headers. Default: .md
	DocExtension string `mapstructure:"doc_extension"`

	// RegistryOutput is where registry:build writes its artifact.
	RegistryOutput string `mapstructure:"registry_output"`

	// RunsDir is the base directory for per-run snapshot storage.
	RunsDir string `mapstructure:"runs_dir"`

	Watch   WatchConfig    `mapstructure:"watch"`
	Tracing tracing.Config `mapstructure:"tracing"`
}

// WatchConfig holds rebuild loop options for registry:build --watch.
type WatchConfig struct {
	// DebounceMs is how long to wait after the last change before
	// rebuilding. Default: 1000.
	DebounceMs int `mapstructure:"debounce_ms"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		RepoRoot:       ".",
		DocRoots:       []string{"docs", "plans"},
		DocExtension:   ".md",
		RegistryOutput: "doc-registry.json",
		RunsDir:        ".parchment/runs",
		Watch: WatchConfig{
			DebounceMs: 1000,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/parchment/traces/traces.jsonl or empty string if
// home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "parchment", "traces", "traces.jsonl")
}

// Validate checks the configuration for errors.
// Empty values fall back to defaults and are always valid.
func Validate(cfg Config) error {
	if cfg.DocExtension != "" && !strings.HasPrefix(cfg.DocExtension, ".") {
		return fmt.Errorf("doc_extension must start with a dot, got %q", cfg.DocExtension)
	}
	for i, root := range cfg.DocRoots {
		if root == "" {
			return fmt.Errorf("doc_roots[%d]: root must not be empty", i)
		}
		if filepath.IsAbs(root) {
			return fmt.Errorf("doc_roots[%d]: root must be relative to repo_root, got %q", i, root)
		}
	}
	if cfg.Watch.DebounceMs < 0 {
		return fmt.Errorf("watch.debounce_ms must not be negative, got %d", cfg.Watch.DebounceMs)
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(cfg tracing.Config) error {
	if cfg.SampleRate < 0.0 || cfg.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", cfg.SampleRate)
	}

	if cfg.Exporter != "" {
		switch cfg.Exporter {
		case "none", "file", "stdout", "otlp":
			// Valid
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", cfg.Exporter)
		}
	}

	if cfg.Enabled {
		if cfg.Exporter == "file" && cfg.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if cfg.Exporter == "otlp" && cfg.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Parchment Configuration

# Repository to scan for versioned documents (default: current directory)
# repo_root: /path/to/repo

# Directories under repo_root that hold versioned documents
doc_roots:
  - docs
  - plans

# File extension that carries front-matter headers
doc_extension: .md

# Where registry:build writes the registry artifact
registry_output: doc-registry.json

# Base directory for per-run snapshot storage
runs_dir: .parchment/runs

# Watch mode settings (registry:build --watch)
watch:
  debounce_ms: 1000   # Quiet period after the last change before rebuilding

# Tracing configuration
# Records spans around scans and run lifecycle operations
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/parchment/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
#
# Example: Enable tracing with file export
# tracing:
#   enabled: true
#   exporter: file
#   file_path: ~/.config/parchment/traces/traces.jsonl
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
