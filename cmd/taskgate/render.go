package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/c360studio/taskgate/gate"
	"github.com/c360studio/taskgate/graph"
	"github.com/c360studio/taskgate/lifecycle"
)

var (
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	advisoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

// renderReport formats a graph validation report for terminal display.
func renderReport(report *graph.Report) string {
	var sb strings.Builder

	if report.OK() {
		sb.WriteString(okStyle.Render("✓ workflow document is valid"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %d graph errors", len(report.Errors))))
		sb.WriteString("\n")
		for _, e := range report.Errors {
			fmt.Fprintf(&sb, "  %s %s\n", errorStyle.Render("error:"), e.Error())
		}
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(&sb, "  %s %s\n", warnStyle.Render("warning:"), w.Detail)
	}

	return sb.String()
}

// renderGateResult formats a gate evaluation for terminal display.
func renderGateResult(result *gate.Result) string {
	var sb strings.Builder

	if result.Allowed {
		sb.WriteString(okStyle.Render("✓ transition allowed"))
	} else {
		sb.WriteString(errorStyle.Render("✗ transition denied"))
	}
	sb.WriteString("\n")

	for _, r := range result.Reasons {
		if r.Advisory {
			fmt.Fprintf(&sb, "  %s [%s] %s\n", advisoryStyle.Render("advisory:"), r.Code, r.Detail)
		} else {
			fmt.Fprintf(&sb, "  %s [%s] %s\n", errorStyle.Render("blocked:"), r.Code, r.Detail)
		}
	}

	return sb.String()
}

// renderTransitions formats the legal next transitions for a task state.
func renderTransitions(state string, transitions []lifecycle.Transition) string {
	var sb strings.Builder

	if len(transitions) == 0 {
		fmt.Fprintf(&sb, "state %s is terminal: no transitions available\n", headerStyle.Render(state))
		return sb.String()
	}

	fmt.Fprintf(&sb, "from state %s:\n", headerStyle.Render(state))
	for _, t := range transitions {
		gates := describeGates(&t)
		fmt.Fprintf(&sb, "  %s -> %s%s\n", headerStyle.Render(t.Via), t.To, gates)
	}

	return sb.String()
}

// describeGates summarizes a transition's gates inline.
func describeGates(t *lifecycle.Transition) string {
	var parts []string
	if n := len(t.InputArtifacts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d inputs", n))
	}
	if n := len(t.OutputArtifacts); n > 0 {
		parts = append(parts, fmt.Sprintf("%d outputs", n))
	}
	switch t.Validation.Kind {
	case lifecycle.ApprovalKeyword:
		parts = append(parts, "keyword approval")
	case lifecycle.ApprovalPullRequest:
		parts = append(parts, "PR gate")
	}
	if len(parts) == 0 {
		return ""
	}
	return advisoryStyle.Render(" (" + strings.Join(parts, ", ") + ")")
}
