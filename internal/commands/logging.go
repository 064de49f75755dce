package commands

import (
	"strings"

	"github.com/goliatone/go-schemadocs/internal/logging"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// CommandLogger names command loggers schemadocs.commands.<group>. A blank
// group is logged as "core".
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.TrimSpace(group)
	if group == "" {
		group = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, "schemadocs.commands."+group), map[string]any{
		"component":      "command",
		"command_module": group,
	})
}
