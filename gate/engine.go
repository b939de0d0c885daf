// Package gate evaluates whether a task may take a requested transition.
// It checks the transition's source state, its declared input and output
// artifacts, content-level artifact validity, the approval mode, and
// acceptance-criteria coverage on terminal transitions. All failures are
// collected so the caller sees every gap at once.
package gate

import (
	"fmt"

	"github.com/c360studio/taskgate/artifact"
	"github.com/c360studio/taskgate/lifecycle"
	"github.com/c360studio/taskgate/task"
)

// ReasonCode classifies why a gate check failed.
type ReasonCode string

const (
	// InvalidSourceState means the task's state is not in the
	// transition's from set.
	InvalidSourceState ReasonCode = "INVALID_SOURCE_STATE"

	// MissingInputArtifact means a required input artifact does not exist.
	MissingInputArtifact ReasonCode = "MISSING_INPUT_ARTIFACT"

	// MissingOutputArtifact means a required output artifact does not exist.
	MissingOutputArtifact ReasonCode = "MISSING_OUTPUT_ARTIFACT"

	// ArtifactInvalid means an artifact exists but fails its content
	// validator.
	ArtifactInvalid ReasonCode = "ARTIFACT_INVALID"

	// ApprovalRequired means the keyword approval gate was not satisfied.
	ApprovalRequired ReasonCode = "APPROVAL_REQUIRED"

	// PRNotMerged means the pull-request gate was not satisfied.
	PRNotMerged ReasonCode = "PR_NOT_MERGED"

	// IncompleteAcceptanceCriteria means the destination is terminal and
	// the task's acceptance criteria are not fully checked. Advisory by
	// default; fatal in strict mode.
	IncompleteAcceptanceCriteria ReasonCode = "INCOMPLETE_ACCEPTANCE_CRITERIA"
)

// Reason is one collected gate failure.
type Reason struct {
	// Code classifies the failure.
	Code ReasonCode `json:"code"`

	// Detail is the human-readable description with enough context to
	// act on without re-deriving it.
	Detail string `json:"detail"`

	// Artifact is the artifact path or pattern involved, when applicable.
	Artifact string `json:"artifact,omitempty"`

	// Advisory reasons do not block the transition.
	Advisory bool `json:"advisory,omitempty"`
}

// Result is the outcome of a gate evaluation.
type Result struct {
	// Allowed is true when no fatal reasons were collected.
	Allowed bool `json:"allowed"`

	// Reasons lists every failed check, fatal and advisory.
	Reasons []Reason `json:"reasons,omitempty"`
}

// Request carries everything the engine needs to evaluate one transition
// attempt. The engine reads the task snapshot; it never mutates it.
type Request struct {
	// Task is the task snapshot from the external tracker.
	Task *task.Task

	// Transition is the requested transition from the validated
	// configuration.
	Transition *lifecycle.Transition

	// Approval is the caller-supplied confirmation string for keyword
	// gates. Compared case-sensitively, no fuzzy matching.
	Approval string

	// PRMerged reports whether the associated external change request is
	// merged. Nil means the caller supplied no PR status.
	PRMerged *bool
}

// Engine evaluates transition gates against a validated configuration.
type Engine struct {
	config     *lifecycle.Configuration
	validators *artifact.Registry
	artifacts  Checker

	// StrictCriteria makes IncompleteAcceptanceCriteria fatal instead of
	// advisory.
	StrictCriteria bool

	// Metrics, when set, counts evaluations and denial reasons.
	Metrics *Metrics
}

// NewEngine creates an engine over a validated configuration. The
// validator registry may be nil to use the default registry; the checker
// decides where artifact paths resolve.
func NewEngine(cfg *lifecycle.Configuration, validators *artifact.Registry, artifacts Checker) *Engine {
	if validators == nil {
		validators = artifact.DefaultRegistry
	}
	return &Engine{
		config:     cfg,
		validators: validators,
		artifacts:  artifacts,
	}
}

// Evaluate runs the gate checks for one transition attempt. Failures are
// collected, not short-circuited, except that a wrong source state makes
// the remaining checks meaningless and returns immediately.
func (e *Engine) Evaluate(req Request) *Result {
	result := &Result{}

	t := req.Transition
	if !t.HasFrom(req.Task.State) {
		result.Reasons = append(result.Reasons, Reason{
			Code: InvalidSourceState,
			Detail: fmt.Sprintf("task %q is in state %q; transition %q requires one of %v",
				req.Task.ID, req.Task.State, t.Via, []string(t.From)),
		})
		return e.finish(result)
	}

	pathCtx := PathContext{Slug: req.Task.Slug, Seq: req.Task.Seq}

	e.checkArtifacts(t.InputArtifacts, MissingInputArtifact, pathCtx, result)
	e.checkArtifacts(t.OutputArtifacts, MissingOutputArtifact, pathCtx, result)

	e.checkApproval(t, req, result)

	if e.config.IsTerminal(t.To) {
		cov := task.CriteriaCoverage(req.Task)
		if !cov.Complete() {
			result.Reasons = append(result.Reasons, Reason{
				Code: IncompleteAcceptanceCriteria,
				Detail: fmt.Sprintf("acceptance criteria %d/%d checked (%.0f%%)",
					cov.Checked, cov.Total, cov.Ratio*100),
				Advisory: !e.StrictCriteria,
			})
		}
	}

	return e.finish(result)
}

// checkArtifacts verifies existence for each descriptor and dispatches
// content validators for artifact types that register one.
func (e *Engine) checkArtifacts(descriptors []lifecycle.ArtifactDescriptor, missingCode ReasonCode, pathCtx PathContext, result *Result) {
	for _, desc := range descriptors {
		pattern := ResolvePattern(desc.PathPattern, pathCtx)

		matches, err := e.artifacts.Matches(pattern)
		if err != nil {
			result.Reasons = append(result.Reasons, Reason{
				Code:     missingCode,
				Detail:   fmt.Sprintf("check %s artifact: %v", desc.Type, err),
				Artifact: pattern,
			})
			continue
		}

		if len(matches) == 0 {
			if desc.Required {
				what := "artifact"
				if desc.Multiple {
					what = "at least one artifact"
				}
				result.Reasons = append(result.Reasons, Reason{
					Code:     missingCode,
					Detail:   fmt.Sprintf("%s of type %q expected at %q", what, desc.Type, pattern),
					Artifact: pattern,
				})
			}
			continue
		}

		validator := e.validators.Get(desc.Type)
		if validator == nil {
			continue
		}

		for _, path := range matches {
			content, err := e.artifacts.Read(path)
			if err != nil {
				result.Reasons = append(result.Reasons, Reason{
					Code:     ArtifactInvalid,
					Detail:   fmt.Sprintf("read %s artifact: %v", desc.Type, err),
					Artifact: path,
				})
				continue
			}

			vr := validator.Validate(content)
			if !vr.OK {
				result.Reasons = append(result.Reasons, Reason{
					Code: ArtifactInvalid,
					Detail: fmt.Sprintf("%s artifact %s is structurally incomplete: missing %v",
						desc.Type, path, vr.MissingSections),
					Artifact: path,
				})
			}
		}
	}
}

// checkApproval applies the transition's validation mode.
func (e *Engine) checkApproval(t *lifecycle.Transition, req Request, result *Result) {
	switch t.Validation.Kind {
	case lifecycle.ApprovalNone, "":
		// Passes automatically once artifact gates are satisfied.

	case lifecycle.ApprovalKeyword:
		if req.Approval != t.Validation.Keyword {
			result.Reasons = append(result.Reasons, Reason{
				Code: ApprovalRequired,
				Detail: fmt.Sprintf("transition %q requires the exact confirmation keyword %q",
					t.Via, t.Validation.Keyword),
			})
		}

	case lifecycle.ApprovalPullRequest:
		if req.PRMerged == nil || !*req.PRMerged {
			result.Reasons = append(result.Reasons, Reason{
				Code:   PRNotMerged,
				Detail: fmt.Sprintf("transition %q is blocked until the associated pull request is merged", t.Via),
			})
		}
	}
}

// finish computes Allowed from the collected reasons and records metrics.
func (e *Engine) finish(result *Result) *Result {
	result.Allowed = true
	for _, r := range result.Reasons {
		if !r.Advisory {
			result.Allowed = false
			break
		}
	}

	if e.Metrics != nil {
		e.Metrics.observe(result)
	}

	return result
}
