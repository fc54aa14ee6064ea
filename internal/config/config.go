// Package config provides configuration types and defaults for pestle.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"pestle/internal/log"
	"pestle/internal/tracing"
)

// Config holds all configuration options for pestle.
type Config struct {
	// DataDir is the directory holding the draft database. Empty means the
	// current directory's .pestle.
	DataDir string `mapstructure:"data_dir"`

	// AutoReload re-reads the draft when the database changes on disk.
	AutoReload bool `mapstructure:"auto_reload"`

	Autosave AutosaveConfig `mapstructure:"autosave"`
	UI       UIConfig       `mapstructure:"ui"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Export   ExportConfig   `mapstructure:"export"`
	Submit   SubmitConfig   `mapstructure:"submit"`
	Tracing  tracing.Config `mapstructure:"tracing"`
}

// AutosaveConfig controls the debounced draft save.
type AutosaveConfig struct {
	// DebounceMs is the quiet period after the last edit before the draft
	// is written. Zero uses the default.
	DebounceMs int `mapstructure:"debounce_ms"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	// ToastDismissMs is how long toasts stay visible. Zero uses the default.
	ToastDismissMs int `mapstructure:"toast_dismiss_ms"`

	// MarkdownStyle is the glamour style for the success panel:
	// "dark" (default) or "light".
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// ThemeConfig selects a color theme. Mirrored by styles.ThemeConfig, which
// does the preset and token validation.
type ThemeConfig struct {
	// Preset names a built-in theme: "default", "catppuccin-mocha",
	// "high-contrast". Empty means default.
	Preset string `mapstructure:"preset"`

	// Colors overrides individual color tokens, e.g. "status.error": "#FF0000".
	Colors map[string]string `mapstructure:"colors"`
}

// ExportConfig controls CSV export.
type ExportConfig struct {
	// Dir is where exported files are written. Empty means the current
	// directory.
	Dir string `mapstructure:"dir"`
}

// SubmitConfig controls where assembled applications are sent.
type SubmitConfig struct {
	// Endpoint is the submission URL. Empty enables demo mode: submissions
	// are accepted locally without a network call.
	Endpoint string `mapstructure:"endpoint"`

	// TimeoutMs bounds the whole request. Zero disables the timeout.
	TimeoutMs int `mapstructure:"timeout_ms"`
}

const (
	// DefaultDebounceMs is the autosave quiet period.
	DefaultDebounceMs = 500
	// DefaultToastDismissMs is how long toasts stay visible.
	DefaultToastDismissMs = 4000
)

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		AutoReload: true,
		Autosave: AutosaveConfig{
			DebounceMs: DefaultDebounceMs,
		},
		UI: UIConfig{
			ToastDismissMs: DefaultToastDismissMs,
			MarkdownStyle:  "dark",
		},
		Submit: SubmitConfig{
			Endpoint:  "",
			TimeoutMs: 0,
		},
		Tracing: tracing.DefaultConfig(),
	}
}

// DefaultTracesFilePath returns the default path for trace file export, or
// empty string if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pestle", "traces", "traces.jsonl")
}

// Validate checks the configuration for errors. Empty values use defaults
// and are always valid.
func Validate(cfg Config) error {
	if cfg.Autosave.DebounceMs < 0 {
		return fmt.Errorf("autosave.debounce_ms must not be negative, got %d", cfg.Autosave.DebounceMs)
	}
	if cfg.UI.ToastDismissMs < 0 {
		return fmt.Errorf("ui.toast_dismiss_ms must not be negative, got %d", cfg.UI.ToastDismissMs)
	}
	if cfg.UI.MarkdownStyle != "" && cfg.UI.MarkdownStyle != "dark" && cfg.UI.MarkdownStyle != "light" {
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", cfg.UI.MarkdownStyle)
	}
	if cfg.Submit.TimeoutMs < 0 {
		return fmt.Errorf("submit.timeout_ms must not be negative, got %d", cfg.Submit.TimeoutMs)
	}
	return ValidateTracing(cfg.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
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

	// Only validate path requirements when tracing is enabled
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

// DebounceDelay returns the effective autosave debounce in milliseconds.
func (c Config) DebounceDelay() int {
	if c.Autosave.DebounceMs > 0 {
		return c.Autosave.DebounceMs
	}
	return DefaultDebounceMs
}

// ToastDismissDelay returns the effective toast dismiss delay in
// milliseconds.
func (c Config) ToastDismissDelay() int {
	if c.UI.ToastDismissMs > 0 {
		return c.UI.ToastDismissMs
	}
	return DefaultToastDismissMs
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Pestle Configuration

# Directory holding the draft database (default: ./.pestle)
# data_dir: /path/to/project

# Re-read the draft when the database changes on disk
auto_reload: true

# Draft autosave
autosave:
  debounce_ms: 500     # Quiet period after the last edit before saving

# UI settings
ui:
  toast_dismiss_ms: 4000  # How long toasts stay visible
  # markdown_style: dark  # Success panel style: "dark" (default) or "light"

# Color theme
# theme:
#   preset: default      # default, catppuccin-mocha, high-contrast
#   colors:              # Individual token overrides
#     status.error: "#FF0000"

# CSV export
# export:
#   dir: /path/to/exports  # Where pharmacists_<date>.csv is written

# Submission
submit:
  # Endpoint receiving the multipart application payload.
  # Leave empty for demo mode: submissions are accepted locally.
  endpoint: ""
  # timeout_ms: 10000  # Request timeout; 0 disables

# Tracing (OpenTelemetry)
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp
#   file_path: ~/.config/pestle/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
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
