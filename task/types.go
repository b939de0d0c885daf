// Package task defines the external task entity the gate engine consumes
// and the acceptance-criteria coverage tracker. Tasks are owned by an
// external tracker; the engine reads snapshots and proposes new state
// labels, it never creates, deletes, or persists tasks itself.
package task

import "time"

// AcceptanceCriterion is one declared completion condition on a task.
type AcceptanceCriterion struct {
	// Index is the 1-based position within the task's criteria list.
	Index int `json:"index"`

	// Text is the criterion description.
	Text string `json:"text"`

	// Checked indicates the criterion has been satisfied.
	Checked bool `json:"checked"`
}

// Task is a read-only snapshot of an externally-owned task record.
type Task struct {
	// ID is the tracker-assigned identifier.
	ID string `json:"id"`

	// Slug is the URL-friendly identifier used in artifact path patterns.
	Slug string `json:"slug"`

	// Title is the human-readable title.
	Title string `json:"title"`

	// State is the current lifecycle state label.
	State string `json:"state"`

	// Seq is the task's sequence number, used in artifact path patterns.
	Seq int `json:"seq,omitempty"`

	// AcceptanceCriteria lists the task's declared completion conditions.
	AcceptanceCriteria []AcceptanceCriterion `json:"acceptance_criteria,omitempty"`

	// Metadata carries free-form tracker metadata.
	Metadata map[string]string `json:"metadata,omitempty"`

	// CreatedAt is when the task was created in the tracker.
	CreatedAt time.Time `json:"created_at,omitempty"`

	// UpdatedAt is when the task record last changed.
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Coverage summarizes acceptance-criteria completion for a task.
type Coverage struct {
	// Checked is the number of satisfied criteria.
	Checked int `json:"checked"`

	// Total is the number of declared criteria.
	Total int `json:"total"`

	// Ratio is Checked/Total. Tasks with no declared criteria are
	// vacuously complete (ratio 1.0); callers wanting a minimum criteria
	// count apply that policy upstream.
	Ratio float64 `json:"ratio"`
}

// Complete returns true if every declared criterion is checked.
func (c Coverage) Complete() bool {
	return c.Ratio == 1.0
}

// CriteriaCoverage computes acceptance-criteria coverage for a task.
func CriteriaCoverage(t *Task) Coverage {
	total := len(t.AcceptanceCriteria)
	if total == 0 {
		return Coverage{Checked: 0, Total: 0, Ratio: 1.0}
	}

	checked := 0
	for _, ac := range t.AcceptanceCriteria {
		if ac.Checked {
			checked++
		}
	}

	return Coverage{
		Checked: checked,
		Total:   total,
		Ratio:   float64(checked) / float64(total),
	}
}
