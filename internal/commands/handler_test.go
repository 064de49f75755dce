package commands

import (
	"context"
	"errors"
	"maps"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

type testMessage struct {
	Name string
}

func (testMessage) Type() string { return "schemadocs.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "schemadocs.test.invalid" }

func (invalidMessage) Validate() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func isCommandError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryCommand)
}

func TestHandlerCategorisesFailures(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		name    string
		ctx     context.Context
		err     error
		wantCat func(error) bool
		ran     bool
	}{
		{"cancelled before run", cancelled, nil, isCommandError, false},
		{"plain error", context.Background(), errors.New("boom"), isCommandError, true},
		{
			"categorised error",
			context.Background(),
			goerrors.Wrap(errors.New("missing"), goerrors.CategoryNotFound, "block not found"),
			func(err error) bool { return goerrors.IsCategory(err, goerrors.CategoryNotFound) },
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ran := false
			h := NewHandler[testMessage](func(context.Context, testMessage) error {
				ran = true
				return tc.err
			})

			err := h.Execute(tc.ctx, testMessage{})
			if !tc.wantCat(err) {
				t.Fatalf("unexpected category for %v", err)
			}
			if ran != tc.ran {
				t.Fatalf("handler ran = %v, want %v", ran, tc.ran)
			}
		})
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerTelemetryReceivesOutcome(t *testing.T) {
	var got TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	},
		WithOperation[testMessage]("docs.test"),
		WithMessageFields(func(msg testMessage) map[string]any {
			return map[string]any{"name": msg.Name}
		}),
		WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) {
			got = info
		}),
	)

	_ = h.Execute(context.Background(), testMessage{Name: "Spec"})

	if got.Status != TelemetryStatusFailed {
		t.Fatalf("expected failed status, got %q", got.Status)
	}
	if got.Command != "schemadocs.test.message" || got.Operation != "docs.test" {
		t.Fatalf("unexpected telemetry identity %+v", got)
	}
	if got.Fields["name"] != "Spec" {
		t.Fatalf("expected message fields in telemetry, got %v", got.Fields)
	}
	if got.Error == nil {
		t.Fatal("expected telemetry error")
	}
}

func TestDefaultTelemetryLogsStatus(t *testing.T) {
	rec := &entryRecorder{}
	DefaultTelemetry[testMessage](rec)(context.Background(), testMessage{}, TelemetryInfo{
		Fields:   map[string]any{"command": "schemadocs.test.message"},
		Duration: 1500 * time.Millisecond,
		Error:    errors.New("boom"),
		Status:   TelemetryStatusContextError,
	})

	if len(rec.messages) != 1 || rec.messages[0] != "command.execute.context_error" {
		t.Fatalf("unexpected entries %v", rec.messages)
	}
	if rec.fields["duration_ms"] != int64(1500) || rec.fields["status"] != "context_error" {
		t.Fatalf("unexpected fields %v", rec.fields)
	}
	if rec.fields["command"] != "schemadocs.test.message" {
		t.Fatalf("expected command field, got %v", rec.fields)
	}
}

type entryRecorder struct {
	messages []string
	fields   map[string]any
}

func (r *entryRecorder) Trace(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *entryRecorder) Debug(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *entryRecorder) Info(msg string, _ ...any)  { r.messages = append(r.messages, msg) }
func (r *entryRecorder) Warn(msg string, _ ...any)  { r.messages = append(r.messages, msg) }
func (r *entryRecorder) Error(msg string, _ ...any) { r.messages = append(r.messages, msg) }
func (r *entryRecorder) Fatal(msg string, _ ...any) { r.messages = append(r.messages, msg) }

func (r *entryRecorder) WithContext(context.Context) interfaces.Logger { return r }

func (r *entryRecorder) WithFields(fields map[string]any) interfaces.Logger {
	if r.fields == nil {
		r.fields = map[string]any{}
	}
	maps.Copy(r.fields, fields)
	return r
}
