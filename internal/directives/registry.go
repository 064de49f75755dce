package directives

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-schemadocs/pkg/interfaces"
)

var directiveNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Registry is the thread-safe in-memory implementation of interfaces.DirectiveRegistry.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]interfaces.DirectiveDefinition
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]interfaces.DirectiveDefinition),
	}
}

// Register stores a definition if it passes validation and the name is not taken.
func (r *Registry) Register(def interfaces.DirectiveDefinition) error {
	if err := ValidateDefinition(def); err != nil {
		return err
	}
	name := strings.ToLower(strings.TrimSpace(def.Name))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[name]; exists {
		return ErrDuplicateDefinition
	}

	r.definitions[name] = def
	return nil
}

// Get returns the stored definition. Lookups ignore case.
func (r *Registry) Get(name string) (interfaces.DirectiveDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.definitions[strings.ToLower(name)]
	return def, ok
}

// List returns all registered definitions in name order.
func (r *Registry) List() []interfaces.DirectiveDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]interfaces.DirectiveDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Remove deletes the definition if it exists.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, strings.ToLower(name))
}

// ValidateDefinition checks a definition before registration.
func ValidateDefinition(def interfaces.DirectiveDefinition) error {
	err := validation.ValidateStruct(&def,
		validation.Field(&def.Name, validation.Required, validation.Match(directiveNamePattern)),
		validation.Field(&def.MinArgs, validation.Min(0)),
		validation.Field(&def.MaxArgs, validation.By(func(value any) error {
			max, _ := value.(int)
			if max >= 0 && max < def.MinArgs {
				return validation.NewError("validation_max_args", "must not be lower than the minimum")
			}
			return nil
		})),
		validation.Field(&def.Handler, validation.By(func(any) error {
			if def.Handler == nil {
				return validation.NewError("validation_required", "cannot be blank")
			}
			return nil
		})),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	if def.RawArgs && def.MaxArgs > 1 {
		return fmt.Errorf("%w: raw argument directives take at most one argument", ErrInvalidDefinition)
	}
	return nil
}

// Ensure Registry implements interfaces.DirectiveRegistry.
var _ interfaces.DirectiveRegistry = (*Registry)(nil)
