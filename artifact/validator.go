// Package artifact provides structural validation for artifact content.
// Artifact types with a registered validator get content-level checks
// (required sections, minimum content) beyond the existence checks the
// gate engine performs; unknown types pass on existence alone.
package artifact

import (
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled regex patterns shared by the section validators.
var (
	// nextSectionRe matches markdown section headers (# or ##)
	nextSectionRe = regexp.MustCompile(`(?m)^#{1,2}\s+`)
	// emptySectionRe matches empty sections (## header followed immediately by another ##)
	emptySectionRe = regexp.MustCompile(`(?m)^##\s+[^\n]+\n\s*\n##`)
)

// Result contains the outcome of validating one artifact's content.
type Result struct {
	OK              bool              `json:"ok"`
	ArtifactType    string            `json:"artifact_type"`
	MissingSections []string          `json:"missing_sections,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
	SectionDetails  map[string]string `json:"section_details,omitempty"`
}

// Validator is the capability an artifact type implements to get
// content-level validation. This is the engine's only extension point:
// new artifact types register a Validator without touching the gate
// engine.
type Validator interface {
	// ArtifactType returns the artifact-type key this validator handles.
	ArtifactType() string

	// Validate checks the artifact content and reports missing sections.
	Validate(content string) *Result
}

// SectionRequirement defines one required section of a document artifact.
type SectionRequirement struct {
	Name        string         // Human-readable name
	Pattern     *regexp.Regexp // Regex pattern to match the section header
	MinContent  int            // Minimum content length after header (0 = header only)
	Description string         // Description for feedback
}

// sectionValidator is the shared implementation behind the document
// validators: it checks an ordered list of section requirements.
type sectionValidator struct {
	artifactType string
	sections     []SectionRequirement
	minLength    int
}

// ArtifactType implements Validator.
func (v *sectionValidator) ArtifactType() string {
	return v.artifactType
}

// Validate implements Validator.
func (v *sectionValidator) Validate(content string) *Result {
	result := &Result{
		OK:             true,
		ArtifactType:   v.artifactType,
		SectionDetails: make(map[string]string),
	}

	for _, req := range v.sections {
		match := req.Pattern.FindStringIndex(content)
		if match == nil {
			result.OK = false
			result.MissingSections = append(result.MissingSections,
				fmt.Sprintf("%s: %s", req.Name, req.Description))
			continue
		}

		if req.MinContent > 0 {
			sectionStart := match[1]
			sectionContent := content[sectionStart:]
			if next := nextSectionRe.FindStringIndex(sectionContent); next != nil {
				sectionContent = sectionContent[:next[0]]
			}

			trimmed := strings.TrimSpace(sectionContent)
			if len(trimmed) < req.MinContent {
				result.OK = false
				result.MissingSections = append(result.MissingSections,
					fmt.Sprintf("%s: Section too short (min %d chars, got %d)",
						req.Name, req.MinContent, len(trimmed)))
			} else {
				result.SectionDetails[req.Name] = fmt.Sprintf("OK (%d chars)", len(trimmed))
			}
		} else {
			result.SectionDetails[req.Name] = "OK"
		}
	}

	result.Warnings = append(result.Warnings, checkCommonIssues(content, v.minLength)...)

	return result
}

// checkCommonIssues reports quality warnings that do not fail validation.
func checkCommonIssues(content string, minLength int) []string {
	var warnings []string

	placeholders := []string{
		"TODO", "FIXME", "XXX", "TBD",
		"[placeholder]", "[insert", "[add",
		"Lorem ipsum", "example text",
	}
	lower := strings.ToLower(content)
	for _, p := range placeholders {
		if strings.Contains(lower, strings.ToLower(p)) {
			warnings = append(warnings, fmt.Sprintf("Contains placeholder text: %s", p))
		}
	}

	if minLength > 0 && len(content) < minLength {
		warnings = append(warnings,
			fmt.Sprintf("Document may be too short (%d chars, recommend at least %d)",
				len(content), minLength))
	}

	if emptySectionRe.MatchString(content) {
		warnings = append(warnings, "Contains empty sections")
	}

	return warnings
}

// FormatFeedback formats a failed result as feedback the caller can hand
// to whoever produces the artifact.
func (r *Result) FormatFeedback() string {
	if r.OK {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Validation Failed\n\n")
	fmt.Fprintf(&sb, "The %s artifact is missing required sections or content.\n\n", r.ArtifactType)

	if len(r.MissingSections) > 0 {
		sb.WriteString("### Missing or Incomplete Sections\n\n")
		for _, section := range r.MissingSections {
			fmt.Fprintf(&sb, "- %s\n", section)
		}
		sb.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		sb.WriteString("### Warnings\n\n")
		for _, warning := range r.Warnings {
			fmt.Fprintf(&sb, "- %s\n", warning)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Please update the artifact addressing these issues.\n")

	return sb.String()
}
