// Package fixtures holds test doubles shared by the command packages.
package fixtures

// RecordingRegistry stands in for a go-command registry and keeps every
// handler it is given, in registration order.
type RecordingRegistry struct {
	Handlers []any
	err      error
}

func NewRecordingRegistry() *RecordingRegistry {
	return &RecordingRegistry{}
}

// Fail makes every later RegisterCommand call return err.
func (r *RecordingRegistry) Fail(err error) {
	r.err = err
}

func (r *RecordingRegistry) RegisterCommand(handler any) error {
	if r.err == nil {
		r.Handlers = append(r.Handlers, handler)
	}
	return r.err
}
