// Package lifecycle provides the typed workflow configuration model for
// taskgate: states, transitions, artifact descriptors, and workflow
// definitions loaded from a declarative YAML document.
package lifecycle

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// State is a named point in a task's lifecycle.
type State struct {
	// Name uniquely identifies the state within a configuration
	Name string `yaml:"name" json:"name"`

	// Description is the human-readable explanation of the state
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ApprovalKind identifies the approval gate variant on a transition.
type ApprovalKind string

const (
	// ApprovalNone means the transition occurs automatically once all
	// artifact gates pass.
	ApprovalNone ApprovalKind = "none"

	// ApprovalKeyword requires the caller to supply an exact confirmation
	// string before the transition is allowed.
	ApprovalKeyword ApprovalKind = "keyword"

	// ApprovalPullRequest blocks the transition until an associated
	// external change request is merged.
	ApprovalPullRequest ApprovalKind = "pull_request"
)

// String returns the string representation of the approval kind.
func (k ApprovalKind) String() string {
	return string(k)
}

// IsValid returns true if the approval kind is a known variant.
func (k ApprovalKind) IsValid() bool {
	switch k {
	case ApprovalNone, ApprovalKeyword, ApprovalPullRequest:
		return true
	default:
		return false
	}
}

// ValidationMode is the closed tagged variant describing how a transition
// is approved. The zero value is ApprovalNone.
//
// YAML forms accepted:
//
//	validation: none
//	validation:
//	  mode: keyword
//	  keyword: CONFIRM
//	validation:
//	  mode: pull_request
type ValidationMode struct {
	// Kind selects the variant.
	Kind ApprovalKind

	// Keyword is the exact confirmation string for ApprovalKeyword.
	// Empty for other kinds.
	Keyword string
}

// validationModeDoc is the YAML wire form of ValidationMode.
type validationModeDoc struct {
	Mode    string `yaml:"mode"`
	Keyword string `yaml:"keyword,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler. It accepts either a bare
// scalar ("none", "pull_request") or a mapping with mode and keyword.
func (m *ValidationMode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		kind := ApprovalKind(node.Value)
		if !kind.IsValid() {
			return fmt.Errorf("unknown validation mode %q", node.Value)
		}
		if kind == ApprovalKeyword {
			return fmt.Errorf("validation mode %q requires a keyword field", node.Value)
		}
		m.Kind = kind
		return nil
	}

	var doc validationModeDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}

	kind := ApprovalKind(doc.Mode)
	if !kind.IsValid() {
		return fmt.Errorf("unknown validation mode %q", doc.Mode)
	}
	if kind == ApprovalKeyword && doc.Keyword == "" {
		return fmt.Errorf("validation mode %q requires a non-empty keyword", doc.Mode)
	}
	if kind != ApprovalKeyword && doc.Keyword != "" {
		return fmt.Errorf("validation mode %q does not take a keyword", doc.Mode)
	}

	m.Kind = kind
	m.Keyword = doc.Keyword
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m ValidationMode) MarshalYAML() (any, error) {
	if m.Kind == "" {
		return string(ApprovalNone), nil
	}
	if m.Kind == ApprovalKeyword {
		return validationModeDoc{Mode: string(m.Kind), Keyword: m.Keyword}, nil
	}
	return string(m.Kind), nil
}

// ArtifactDescriptor declares a file (or set of files) a transition
// requires as input or produces as output.
type ArtifactDescriptor struct {
	// Type is the artifact type key (e.g., "requirements", "decision_record").
	// Types with a registered content validator get structural validation
	// beyond existence checks.
	Type string `yaml:"type" json:"type"`

	// PathPattern is the path the artifact is expected at, relative to the
	// task workspace. May contain placeholder tokens ({slug}, {seq}) and
	// glob patterns (*, **) when Multiple is true.
	PathPattern string `yaml:"path" json:"path"`

	// Required indicates the artifact must exist for the gate to pass.
	// With Multiple, required means at least one match.
	Required bool `yaml:"required" json:"required"`

	// Multiple indicates the pattern may match zero or more files.
	Multiple bool `yaml:"multiple,omitempty" json:"multiple,omitempty"`
}

// StateSet is a list of state names. It decodes from either a single
// scalar or a YAML sequence, so single-source transitions can be written
// as `from: Planned`.
type StateSet []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StateSet) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = StateSet{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*s = StateSet(list)
	return nil
}

// Transition is a permitted move from one or more source states to a
// destination state, gated by artifacts and an approval mode.
type Transition struct {
	// From lists the source states this transition applies to.
	From StateSet `yaml:"from" json:"from"`

	// To is the destination state.
	To string `yaml:"to" json:"to"`

	// Via is the name of the workflow command that performs the transition.
	Via string `yaml:"via" json:"via"`

	// Validation selects the approval gate for the transition.
	Validation ValidationMode `yaml:"validation,omitempty" json:"validation"`

	// InputArtifacts must exist before the transition can run.
	InputArtifacts []ArtifactDescriptor `yaml:"input_artifacts,omitempty" json:"input_artifacts,omitempty"`

	// OutputArtifacts must exist for the transition to complete.
	OutputArtifacts []ArtifactDescriptor `yaml:"output_artifacts,omitempty" json:"output_artifacts,omitempty"`
}

// HasFrom returns true if the transition's source set contains state.
func (t *Transition) HasFrom(state string) bool {
	for _, f := range t.From {
		if f == state {
			return true
		}
	}
	return false
}

// LoopKind classifies where a workflow runs relative to the agent loop.
type LoopKind string

const (
	// LoopInner workflows run inside the agent's working loop.
	LoopInner LoopKind = "inner"

	// LoopOuter workflows run in the outer orchestration loop.
	LoopOuter LoopKind = "outer"
)

// IsValid returns true if the loop kind is a known variant.
func (k LoopKind) IsValid() bool {
	return k == LoopInner || k == LoopOuter
}

// WorkflowDefinition describes a named workflow command that transitions
// reference via their Via field.
type WorkflowDefinition struct {
	// Name uniquely identifies the workflow within a configuration.
	Name string `yaml:"name" json:"name"`

	// Command is the command string the caller invokes to run the workflow.
	Command string `yaml:"command" json:"command"`

	// Agent names the agent expected to perform the work. Advisory only:
	// unrecognized agents produce a warning, not an error.
	Agent string `yaml:"agent,omitempty" json:"agent,omitempty"`

	// Loop places the workflow in the inner or outer agent loop.
	Loop LoopKind `yaml:"loop" json:"loop"`
}

// Configuration is the root aggregate owning states, transitions, and
// workflow definitions. It is loaded once per process invocation,
// validated immediately, and treated as immutable afterwards.
type Configuration struct {
	// Version is the document format version.
	Version string `yaml:"version,omitempty" json:"version,omitempty"`

	// States declares every lifecycle state.
	States []State `yaml:"states" json:"states"`

	// Transitions declares every permitted state change.
	Transitions []Transition `yaml:"transitions" json:"transitions"`

	// Workflows declares the commands transitions reference.
	Workflows []WorkflowDefinition `yaml:"workflows" json:"workflows"`
}

// HasState returns true if name is a declared state.
func (c *Configuration) HasState(name string) bool {
	for _, s := range c.States {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Workflow returns the workflow definition with the given name, or nil.
func (c *Configuration) Workflow(name string) *WorkflowDefinition {
	for i := range c.Workflows {
		if c.Workflows[i].Name == name {
			return &c.Workflows[i]
		}
	}
	return nil
}

// TransitionsFrom returns the transitions whose source set contains state,
// in declaration order. This is the workflow assessor: callers use it to
// present legal next commands for a task without re-running graph
// validation (validation happens once at load time).
func (c *Configuration) TransitionsFrom(state string) []Transition {
	var out []Transition
	for _, t := range c.Transitions {
		if t.HasFrom(state) {
			out = append(out, t)
		}
	}
	return out
}

// FindTransition returns the transition out of state invoked by the named
// workflow command, or nil if no such transition exists.
func (c *Configuration) FindTransition(state, via string) *Transition {
	for i := range c.Transitions {
		t := &c.Transitions[i]
		if t.Via == via && t.HasFrom(state) {
			return t
		}
	}
	return nil
}

// InitialStates returns the states with no incoming transitions, in
// declaration order. These are the entry points of the lifecycle.
func (c *Configuration) InitialStates() []string {
	incoming := make(map[string]bool)
	for _, t := range c.Transitions {
		incoming[t.To] = true
	}

	var initial []string
	for _, s := range c.States {
		if !incoming[s.Name] {
			initial = append(initial, s.Name)
		}
	}
	return initial
}

// IsTerminal returns true if the state has no outgoing transitions.
// Terminal states are where acceptance-criteria coverage gates apply.
func (c *Configuration) IsTerminal(state string) bool {
	for _, t := range c.Transitions {
		if t.HasFrom(state) {
			return false
		}
	}
	return true
}
