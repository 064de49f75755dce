package resolver

import "errors"

// ErrTypeNameRequired is returned when a root call names no type.
var ErrTypeNameRequired = errors.New("resolver: type name required")
