package task

import (
	"regexp"
	"strings"
)

// criterionLinePattern matches markdown checkbox items: - [ ] or - [x]
var criterionLinePattern = regexp.MustCompile(`^[-*]\s*\[([ xX])\]\s*(.+)$`)

// ParseCriteria parses markdown checkbox lines into acceptance criteria.
// Lines that are not checkbox items are ignored, so a full criteria.md
// with headers and prose can be fed in directly.
func ParseCriteria(content string) []AcceptanceCriterion {
	var criteria []AcceptanceCriterion

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		matches := criterionLinePattern.FindStringSubmatch(trimmed)
		if matches == nil {
			continue
		}

		checkbox := matches[1]
		criteria = append(criteria, AcceptanceCriterion{
			Index:   len(criteria) + 1,
			Text:    strings.TrimSpace(matches[2]),
			Checked: checkbox == "x" || checkbox == "X",
		})
	}

	return criteria
}
