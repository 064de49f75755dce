package schemadocs

import "github.com/goliatone/go-schemadocs/internal/runtimeconfig"

var (
	ErrDocsDirRequired           = runtimeconfig.ErrDocsDirRequired
	ErrOutputDirRequired         = runtimeconfig.ErrOutputDirRequired
	ErrDefaultSchemaFileRequired = runtimeconfig.ErrDefaultSchemaFileRequired
	ErrIntroFileRequired         = runtimeconfig.ErrIntroFileRequired
	ErrMaxEmbedsInvalid          = runtimeconfig.ErrMaxEmbedsInvalid
	ErrCommandTimeoutInvalid     = runtimeconfig.ErrCommandTimeoutInvalid
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigFileInvalid         = runtimeconfig.ErrConfigFileInvalid
)

type (
	Config               = runtimeconfig.Config
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
