package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-schemadocs/internal/logging"
	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

// TelemetryStatus classifies how an execution ended.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo is handed to a Telemetry hook once per execution. Error is
// the categorised error returned to the caller.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry observes execution outcomes.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// outcome maps the handler result onto a status and the error the caller
// sees. A cancelled or expired context wins over the handler's own error.
func outcome(ctx context.Context, err error) (TelemetryStatus, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return TelemetryStatusContextError, wrapContextError(ctxErr)
	}
	if err != nil {
		return TelemetryStatusFailed, wrapExecuteError(err)
	}
	return TelemetryStatusSuccess, nil
}

// DefaultTelemetry writes one command.execute.* entry per execution.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		fields := map[string]any{
			"status":      string(info.Status),
			"duration_ms": info.Duration.Milliseconds(),
		}
		if info.Error != nil {
			fields["error"] = info.Error
		}
		entry := logging.WithFields(logging.WithFields(logger, info.Fields), fields)

		if info.Status == TelemetryStatusSuccess {
			entry.Info("command.execute.success")
			return
		}
		entry.Error("command.execute." + string(info.Status))
	}
}
