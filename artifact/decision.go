package artifact

import "regexp"

// TypeDecisionRecord is the artifact-type key for decision records.
const TypeDecisionRecord = "decision_record"

// NewDecisionRecordValidator returns the validator for architecture
// decision records. A decision record needs status, context, decision,
// and consequences sections.
func NewDecisionRecordValidator() Validator {
	return &sectionValidator{
		artifactType: TypeDecisionRecord,
		minLength:    400,
		sections: []SectionRequirement{
			{
				Name:        "Title",
				Pattern:     regexp.MustCompile(`(?m)^#\s+.+`),
				MinContent:  0,
				Description: "Decision record title (# heading)",
			},
			{
				Name:        "Status",
				Pattern:     regexp.MustCompile(`(?mi)^##\s+status\b`),
				MinContent:  0,
				Description: "Status section (proposed, accepted, superseded)",
			},
			{
				Name:        "Context",
				Pattern:     regexp.MustCompile(`(?mi)^##\s+context\b`),
				MinContent:  50,
				Description: "Context section describing the forces at play",
			},
			{
				Name:        "Decision",
				Pattern:     regexp.MustCompile(`(?mi)^##\s+decision\b`),
				MinContent:  30,
				Description: "Decision section stating what was decided",
			},
			{
				Name:        "Consequences",
				Pattern:     regexp.MustCompile(`(?mi)^##\s+consequences\b`),
				MinContent:  30,
				Description: "Consequences section describing the resulting tradeoffs",
			},
		},
	}
}
