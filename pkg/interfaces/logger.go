package interfaces

import "context"

// Logger is the leveled logger every service writes to. Arguments after msg
// are alternating keys and values. The method set matches go-logger's glog
// logger.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out loggers by dotted name, e.g. schemadocs.resolver.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry fields on every
// entry. WithFields must not modify the receiver.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
