package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

const (
	rootModule       = "schemadocs"
	blocksModule     = "schemadocs.blocks"
	resolverModule   = "schemadocs.resolver"
	directivesModule = "schemadocs.directives"
	pagesModule      = "schemadocs.pages"
)

const (
	fieldTypeName   = "type"
	fieldSourcePath = "source_path"
	fieldTraceID    = "trace_id"
)

// ModuleLogger returns the provider's logger for module, tagged with a
// module field. A nil provider, or one returning nil, yields NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}
	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		logger = NoOp()
	}
	return WithFields(logger, map[string]any{"module": module})
}

func BlocksLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, blocksModule)
}

func ResolverLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolverModule)
}

func DirectivesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, directivesModule)
}

func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// WithTypeContext tags logger with the type being resolved, the file it was
// read from and the id of the root resolution. Blank values are left out.
func WithTypeContext(logger interfaces.Logger, typeName, sourcePath, traceID string) interfaces.Logger {
	fields := map[string]any{}
	for key, value := range map[string]string{
		fieldTypeName:   typeName,
		fieldSourcePath: sourcePath,
		fieldTraceID:    traceID,
	} {
		if value = strings.TrimSpace(value); value != "" {
			fields[key] = value
		}
	}
	return WithFields(logger, fields)
}

// NoOp discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
