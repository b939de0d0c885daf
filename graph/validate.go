// Package graph validates the state graph of a loaded workflow
// configuration: cycle detection, reachability from the initial states,
// and reference integrity. Validation runs once at load time; gate
// evaluation at task time relies on the configuration having passed.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/taskgate/lifecycle"
)

// ErrorCode classifies graph validation errors.
type ErrorCode string

const (
	// ErrCycle means the transition graph contains a cycle. A task on the
	// cycle could loop forever without reaching a terminal state.
	ErrCycle ErrorCode = "cycle"

	// ErrDanglingState means a transition references an undeclared state.
	ErrDanglingState ErrorCode = "dangling_state"

	// ErrDanglingWorkflow means a transition's via references an
	// undeclared workflow.
	ErrDanglingWorkflow ErrorCode = "dangling_workflow"

	// ErrNoInitialState means every state has incoming transitions, so
	// there is no entry point into the lifecycle.
	ErrNoInitialState ErrorCode = "no_initial_state"
)

// Error is a fatal graph defect. A configuration with any Error must not
// be used for gate evaluation.
type Error struct {
	// Code classifies the defect.
	Code ErrorCode

	// Detail is the human-readable description.
	Detail string

	// States lists the states involved. For ErrCycle it is the full cycle
	// path, first state repeated at the end.
	States []string
}

// Error implements the error interface.
func (e Error) Error() string {
	if len(e.States) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Detail, strings.Join(e.States, " -> "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// WarningCode classifies advisory graph findings.
type WarningCode string

const (
	// WarnUnreachable means a declared state cannot be reached from any
	// initial state. It may be an intentionally optional state.
	WarnUnreachable WarningCode = "unreachable_state"

	// WarnUnknownAgent means a workflow's advisory agent reference is not
	// in the recognized set.
	WarnUnknownAgent WarningCode = "unknown_agent"
)

// Warning is an advisory finding returned to the caller for display.
type Warning struct {
	Code   WarningCode
	Detail string
}

// Report is the outcome of validating a configuration. Errors block use of
// the configuration entirely; warnings are advisory. Running Validate
// twice over the same configuration produces identical reports.
type Report struct {
	Errors   []Error
	Warnings []Warning
}

// OK returns true if the report contains no fatal errors.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// Validator validates workflow configurations. KnownAgents, when
// non-empty, is the recognized set for advisory agent-reference checks.
type Validator struct {
	KnownAgents []string
}

// Validate runs reference integrity, cycle detection, and reachability
// analysis over the configuration's state graph.
func (v *Validator) Validate(cfg *lifecycle.Configuration) *Report {
	report := &Report{}

	v.checkReferences(cfg, report)

	// Graph traversals only make sense over clean references.
	if len(report.Errors) > 0 {
		return report
	}

	edges := buildEdges(cfg)

	v.checkCycles(cfg, edges, report)
	v.checkReachability(cfg, edges, report)

	return report
}

// buildEdges expands each transition into one directed edge per member of
// its from set. Edge targets are kept in deterministic order.
func buildEdges(cfg *lifecycle.Configuration) map[string][]string {
	edges := make(map[string][]string)
	for _, t := range cfg.Transitions {
		for _, from := range t.From {
			edges[from] = append(edges[from], t.To)
		}
	}
	return edges
}

// checkReferences confirms every from/to resolves to a declared state and
// every via resolves to a declared workflow. Agent references are advisory
// and produce warnings only.
func (v *Validator) checkReferences(cfg *lifecycle.Configuration, report *Report) {
	for i, t := range cfg.Transitions {
		for _, from := range t.From {
			if !cfg.HasState(from) {
				report.Errors = append(report.Errors, Error{
					Code:   ErrDanglingState,
					Detail: fmt.Sprintf("transitions[%d]: from state %q is not declared", i, from),
					States: []string{from},
				})
			}
		}
		if !cfg.HasState(t.To) {
			report.Errors = append(report.Errors, Error{
				Code:   ErrDanglingState,
				Detail: fmt.Sprintf("transitions[%d]: to state %q is not declared", i, t.To),
				States: []string{t.To},
			})
		}
		if cfg.Workflow(t.Via) == nil {
			report.Errors = append(report.Errors, Error{
				Code:   ErrDanglingWorkflow,
				Detail: fmt.Sprintf("transitions[%d]: via %q is not a declared workflow", i, t.Via),
			})
		}
	}

	if len(v.KnownAgents) == 0 {
		return
	}
	known := make(map[string]bool, len(v.KnownAgents))
	for _, a := range v.KnownAgents {
		known[a] = true
	}
	for _, w := range cfg.Workflows {
		if w.Agent != "" && !known[w.Agent] {
			report.Warnings = append(report.Warnings, Warning{
				Code:   WarnUnknownAgent,
				Detail: fmt.Sprintf("workflow %q references unrecognized agent %q", w.Name, w.Agent),
			})
		}
	}
}

// checkCycles runs an iterative depth-first traversal with an on-stack
// marker set. Any edge back to a state on the current stack is reported
// as a cycle with the full path.
func (v *Validator) checkCycles(cfg *lifecycle.Configuration, edges map[string][]string, report *Report) {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS stack
		black = 2 // fully explored
	)

	color := make(map[string]int, len(cfg.States))
	var stack []string
	seenCycles := make(map[string]bool)

	var dfs func(state string)
	dfs = func(state string) {
		color[state] = gray
		stack = append(stack, state)

		for _, next := range edges[state] {
			switch color[next] {
			case white:
				dfs(next)
			case gray:
				// Slice the stack from the first occurrence of next to
				// recover the full cycle path.
				start := 0
				for i, s := range stack {
					if s == next {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, stack[start:]...), next)
				key := cycleKey(cycle)
				if !seenCycles[key] {
					seenCycles[key] = true
					report.Errors = append(report.Errors, Error{
						Code:   ErrCycle,
						Detail: "transition graph contains a cycle",
						States: cycle,
					})
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[state] = black
	}

	// Visit in declaration order for a stable report.
	for _, s := range cfg.States {
		if color[s.Name] == white {
			dfs(s.Name)
		}
	}
}

// cycleKey canonicalizes a cycle path so the same cycle discovered from
// different entry points is reported once.
func cycleKey(cycle []string) string {
	// Drop the repeated closing state, sort the rest.
	members := append([]string{}, cycle[:len(cycle)-1]...)
	sort.Strings(members)
	return strings.Join(members, "\x00")
}

// checkReachability runs a breadth-first traversal from the initial state
// set. States never visited are reported as unreachable, once each, in
// declaration order.
func (v *Validator) checkReachability(cfg *lifecycle.Configuration, edges map[string][]string, report *Report) {
	initial := cfg.InitialStates()
	if len(initial) == 0 {
		report.Errors = append(report.Errors, Error{
			Code:   ErrNoInitialState,
			Detail: "every state has incoming transitions; the lifecycle has no entry point",
		})
		return
	}

	visited := make(map[string]bool, len(cfg.States))
	queue := append([]string{}, initial...)
	for _, s := range initial {
		visited[s] = true
	}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		for _, next := range edges[state] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, s := range cfg.States {
		if !visited[s.Name] {
			report.Warnings = append(report.Warnings, Warning{
				Code:   WarnUnreachable,
				Detail: fmt.Sprintf("state %q is unreachable from the initial states", s.Name),
			})
		}
	}
}
