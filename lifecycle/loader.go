package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrorKind classifies configuration loading failures.
type ErrorKind string

const (
	// ErrMalformed means the document could not be parsed at all.
	ErrMalformed ErrorKind = "malformed"

	// ErrSchemaViolation means the document parsed but does not conform
	// to the structural schema.
	ErrSchemaViolation ErrorKind = "schema_violation"
)

// ConfigError describes a structural problem in the configuration document.
// Semantic problems (cycles, dangling references) are reported by the graph
// validator, not here.
type ConfigError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Detail is the human-readable description.
	Detail string

	// Location is the document position ("line:column"), when known.
	Location string
}

// Error implements the error interface.
func (e ConfigError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Location, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// newSchemaError builds a schema violation carrying the node's position.
func newSchemaError(detail string, node *yaml.Node) ConfigError {
	loc := ""
	if node != nil && node.Line > 0 {
		loc = fmt.Sprintf("%d:%d", node.Line, node.Column)
	}
	return ConfigError{Kind: ErrSchemaViolation, Detail: detail, Location: loc}
}

// LoadError aggregates every structural problem found in a document so the
// caller sees all of them at once.
type LoadError struct {
	Path   string
	Errors []ConfigError
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid workflow document %s (%d problems)", e.Path, len(e.Errors))
	for _, ce := range e.Errors {
		sb.WriteString("\n  ")
		sb.WriteString(ce.Error())
	}
	return sb.String()
}

// Load reads, schema-checks, and decodes a workflow configuration document.
// On structural problems it returns a *LoadError listing every violation;
// the returned Configuration is nil so a malformed document can never
// produce a partially-valid in-memory model.
func Load(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow document: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
			return nil, le
		}
		return nil, err
	}
	return cfg, nil
}

// Parse schema-checks and decodes a workflow configuration document from
// raw bytes.
func Parse(data []byte) (*Configuration, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &LoadError{Errors: []ConfigError{{
			Kind:   ErrMalformed,
			Detail: err.Error(),
		}}}
	}
	if root.Kind == 0 {
		return nil, &LoadError{Errors: []ConfigError{{
			Kind:   ErrMalformed,
			Detail: "document is empty",
		}}}
	}

	if errs := DocumentSchema().Check(&root); len(errs) > 0 {
		return nil, &LoadError{Errors: errs}
	}

	cfg := &Configuration{}
	if err := root.Decode(cfg); err != nil {
		// Variant discrimination (validation mode) happens during decode,
		// so a schema-clean document can still fail here.
		return nil, &LoadError{Errors: []ConfigError{{
			Kind:   ErrSchemaViolation,
			Detail: err.Error(),
		}}}
	}

	normalize(cfg)

	if errs := checkModel(cfg); len(errs) > 0 {
		return nil, &LoadError{Errors: errs}
	}

	return cfg, nil
}

// normalize fills defaulted fields after decoding.
func normalize(cfg *Configuration) {
	for i := range cfg.Transitions {
		if cfg.Transitions[i].Validation.Kind == "" {
			cfg.Transitions[i].Validation.Kind = ApprovalNone
		}
	}
}

// checkModel runs the structural invariants the schema cannot express:
// name uniqueness and non-empty collections. Reference integrity is the
// graph validator's job.
func checkModel(cfg *Configuration) []ConfigError {
	var errs []ConfigError

	seen := make(map[string]bool)
	for _, s := range cfg.States {
		if s.Name == "" {
			errs = append(errs, ConfigError{Kind: ErrSchemaViolation, Detail: "state with empty name"})
			continue
		}
		if seen[s.Name] {
			errs = append(errs, ConfigError{
				Kind:   ErrSchemaViolation,
				Detail: fmt.Sprintf("duplicate state name %q", s.Name),
			})
		}
		seen[s.Name] = true
	}

	seenWf := make(map[string]bool)
	for _, w := range cfg.Workflows {
		if seenWf[w.Name] {
			errs = append(errs, ConfigError{
				Kind:   ErrSchemaViolation,
				Detail: fmt.Sprintf("duplicate workflow name %q", w.Name),
			})
		}
		seenWf[w.Name] = true
	}

	for i, t := range cfg.Transitions {
		if len(t.From) == 0 {
			errs = append(errs, ConfigError{
				Kind:   ErrSchemaViolation,
				Detail: fmt.Sprintf("transitions[%d]: empty from set", i),
			})
		}
	}

	return errs
}
