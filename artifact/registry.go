package artifact

import "sync"

// Registry manages artifact validators keyed by artifact-type string.
type Registry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

// DefaultRegistry is the global registry with the shipped validators.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry pre-populated with the shipped
// validators.
func NewRegistry() *Registry {
	r := &Registry{
		validators: make(map[string]Validator),
	}

	r.Register(NewRequirementsValidator())
	r.Register(NewDecisionRecordValidator())

	return r
}

// Register adds a validator, replacing any previous one for the same type.
func (r *Registry) Register(v Validator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators[v.ArtifactType()] = v
}

// Get returns the validator for an artifact type, or nil if the type has
// no content-level validation.
func (r *Registry) Get(artifactType string) Validator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.validators[artifactType]
}

// ListTypes returns all registered artifact types.
func (r *Registry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.validators))
	for t := range r.validators {
		types = append(types, t)
	}
	return types
}
