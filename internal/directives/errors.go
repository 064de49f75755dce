package directives

import "errors"

var (
	// ErrDuplicateDefinition indicates an attempt to register a directive name twice.
	ErrDuplicateDefinition = errors.New("directives: duplicate definition")
	// ErrInvalidDefinition occurs when a definition fails validation.
	ErrInvalidDefinition = errors.New("directives: invalid definition")
	// ErrInvalidArguments reports a directive used with the wrong number of arguments.
	ErrInvalidArguments = errors.New("directives: invalid arguments")
	// ErrServiceNotReady is returned when the service has no registry.
	ErrServiceNotReady = errors.New("directives: service not initialised")
)

const textCodeDirectiveInvalid = "DIRECTIVE_INVALID"
