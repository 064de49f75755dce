package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
	ErrPayloadMalformed = errors.New("payload is not valid JSON")
)

// TypeRefPayloadSchema describes the metadata attached to a typeRef
// annotation by the source generator.
const TypeRefPayloadSchema = `{
  "type": "object",
  "properties": {
    "relPath": {"type": "string", "minLength": 1},
    "isRegistryExport": {"type": "boolean"}
  },
  "required": ["relPath"]
}`

// MetaRecordsSchema describes a meta marker payload: an array of flag
// records.
const MetaRecordsSchema = `{
  "type": "array",
  "items": {"type": "object"}
}`

var (
	// TypeRefPayload validates typeRef annotation payloads.
	TypeRefPayload = MustCompile("typeref.json", TypeRefPayloadSchema)
	// MetaRecords validates meta marker payloads.
	MetaRecords = MustCompile("meta.json", MetaRecordsSchema)
)

// ValidationIssue is one failed keyword, located by JSON pointer.
type ValidationIssue struct {
	Location string
	Message  string
}

func (i ValidationIssue) String() string {
	loc := "#" + strings.TrimPrefix(strings.TrimSpace(i.Location), "#")
	if i.Message == "" {
		return loc
	}
	return loc + ": " + i.Message
}

// PayloadValidationError is returned by ValidateJSON when the payload
// decodes but does not satisfy the schema. It matches ErrSchemaValidation.
type PayloadValidationError struct {
	Schema string
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 && e.Cause != nil {
		return e.Cause.Error()
	}
	if len(e.Issues) == 0 {
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error { return ErrSchemaValidation }

// Issues lists the leaf failures carried by err. Errors of other kinds
// become a single issue with no location.
func Issues(err error) []ValidationIssue {
	var payloadErr *PayloadValidationError
	var schemaErr *jsonschema.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &payloadErr):
		return payloadErr.Issues
	case errors.As(err, &schemaErr):
		return leafIssues(schemaErr, nil)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// Validator checks raw JSON documents against one compiled schema.
type Validator struct {
	name   string
	schema *jsonschema.Schema
}

// Compile builds a Validator from a JSON schema document.
func Compile(name, schema string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Validator{name: name, schema: compiled}, nil
}

// MustCompile is Compile for package-level schemas; it panics on error.
func MustCompile(name, schema string) *Validator {
	v, err := Compile(name, schema)
	if err != nil {
		panic(err)
	}
	return v
}

// Name reports the resource name the schema was compiled under.
func (v *Validator) Name() string {
	return v.name
}

// ValidateJSON decodes raw and validates the decoded value. The decoded value
// is returned so callers can reuse it.
func (v *Validator) ValidateJSON(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMalformed, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: trailing data after value", ErrPayloadMalformed)
	}

	if err := v.schema.Validate(value); err != nil {
		return nil, &PayloadValidationError{
			Schema: v.name,
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return value, nil
}

func leafIssues(node *jsonschema.ValidationError, acc []ValidationIssue) []ValidationIssue {
	if len(node.Causes) == 0 {
		return append(acc, ValidationIssue{
			Location: strings.TrimSpace(node.InstanceLocation),
			Message:  strings.TrimSpace(node.Message),
		})
	}
	for _, cause := range node.Causes {
		acc = leafIssues(cause, acc)
	}
	return acc
}
