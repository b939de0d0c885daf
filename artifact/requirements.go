package artifact

import "regexp"

// TypeRequirements is the artifact-type key for requirements documents.
const TypeRequirements = "requirements"

// NewRequirementsValidator returns the validator for requirements
// documents (PRDs). A requirements document needs a title, a problem
// statement, user stories, and acceptance criteria.
func NewRequirementsValidator() Validator {
	return &sectionValidator{
		artifactType: TypeRequirements,
		minLength:    600,
		sections: []SectionRequirement{
			{
				Name:        "Title",
				Pattern:     regexp.MustCompile(`(?m)^#\s+.+`),
				MinContent:  0,
				Description: "Document title (# heading)",
			},
			{
				Name:        "Problem Statement",
				Pattern:     regexp.MustCompile(`(?mi)^##\s+problem(\s+statement)?\b`),
				MinContent:  50,
				Description: "Problem Statement section explaining what needs solving",
			},
			{
				Name:        "User Stories",
				Pattern:     regexp.MustCompile(`(?mi)^##\s+(user\s+)?stories\b`),
				MinContent:  50,
				Description: "User Stories section listing who needs what and why",
			},
			{
				Name:        "Acceptance Criteria",
				Pattern:     regexp.MustCompile(`(?mi)^##\s+acceptance\s+criteria\b`),
				MinContent:  30,
				Description: "Acceptance Criteria section with testable conditions",
			},
		},
	}
}
