package runtimeconfig

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrDocsDirRequired = errors.New("schemadocs config: docs directory is required")
var ErrOutputDirRequired = errors.New("schemadocs config: output directory is required")
var ErrDefaultSchemaFileRequired = errors.New("schemadocs config: default schema file is required")
var ErrIntroFileRequired = errors.New("schemadocs config: module intro file is required")

// ErrMaxEmbedsInvalid rejects negative embed caps; zero disables the cap.
var ErrMaxEmbedsInvalid = errors.New("schemadocs config: max embeds must be zero or positive")
var ErrCommandTimeoutInvalid = errors.New("schemadocs config: command timeout must be zero or positive")
var ErrLoggingProviderRequired = errors.New("schemadocs config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("schemadocs config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("schemadocs config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("schemadocs config: logging format is invalid")
var ErrConfigFileInvalid = errors.New("schemadocs config: config file is invalid")

// Config aggregates the settings of a documentation build.
type Config struct {
	// DocsDir is the root of the documentation pages.
	DocsDir string `yaml:"docsDir"`
	// OutputDir receives the processed pages.
	OutputDir string `yaml:"outputDir"`
	// DefaultSchemaFile is read by `type` directives that name no file.
	DefaultSchemaFile string `yaml:"defaultSchemaFile"`
	// CodeLanguage tags the fenced type blocks.
	CodeLanguage string `yaml:"codeLanguage"`
	// IntroFile is the per-module document summarised by listModules.
	IntroFile          string         `yaml:"introFile"`
	MaxEmbeds          int            `yaml:"maxEmbeds"`
	SoftImportFailures bool           `yaml:"softImportFailures"`
	Markdown           MarkdownConfig `yaml:"markdown"`
	Commands           CommandsConfig `yaml:"commands"`
	Logging            LoggingConfig  `yaml:"logging"`
}

// MarkdownConfig captures page discovery and HTML rendering.
type MarkdownConfig struct {
	Pattern   string `yaml:"pattern"`
	Recursive bool   `yaml:"recursive"`
	// HTML renders an .html file next to every processed page.
	HTML   bool                 `yaml:"html"`
	Parser MarkdownParserConfig `yaml:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownParserConfig struct {
	Extensions []string `yaml:"extensions"`
	Sanitize   bool     `yaml:"sanitize"`
	HardWraps  bool     `yaml:"hardWraps"`
	SafeMode   bool     `yaml:"safeMode"`
}

// CommandsConfig captures command handler behaviour.
type CommandsConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig selects the logging provider.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"addSource"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the settings used when no config file is supplied.
func DefaultConfig() Config {
	return Config{
		DocsDir:           "docs",
		OutputDir:         "site",
		DefaultSchemaFile: "schema.gen.ts",
		CodeLanguage:      "ts",
		IntroFile:         "README.md",
		MaxEmbeds:         0,
		Markdown: MarkdownConfig{
			Pattern:   "*.md",
			Recursive: true,
		},
		Commands: CommandsConfig{
			Timeout: 0,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// LoadFile reads a YAML config file on top of DefaultConfig and validates the
// result.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrConfigFileInvalid, err)
	}
	return Parse(raw)
}

// Parse decodes YAML on top of DefaultConfig and validates the result.
// Unknown keys are rejected.
func Parse(raw []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(raw)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(raw))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrConfigFileInvalid, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DocsDir) == "" {
		return ErrDocsDirRequired
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if strings.TrimSpace(cfg.DefaultSchemaFile) == "" {
		return ErrDefaultSchemaFileRequired
	}
	if strings.TrimSpace(cfg.IntroFile) == "" {
		return ErrIntroFileRequired
	}
	if cfg.MaxEmbeds < 0 {
		return fmt.Errorf("%w: %d", ErrMaxEmbedsInvalid, cfg.MaxEmbeds)
	}
	if cfg.Commands.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrCommandTimeoutInvalid, cfg.Commands.Timeout)
	}

	provider := NormalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == ProviderGoLogger {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

const (
	ProviderConsole  = "console"
	ProviderGoLogger = "gologger"
	ProviderNone     = "none"
)

// NormalizeProvider lowercases and trims a provider name.
func NormalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case ProviderConsole, ProviderGoLogger, ProviderNone:
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
