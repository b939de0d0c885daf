package lifecycle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDocument = `version: "1"
states:
  - name: To Do
  - name: In Progress
    description: Work underway
  - name: Done
transitions:
  - from: To Do
    to: In Progress
    via: start
  - from: In Progress
    to: Done
    via: finish
    validation:
      mode: keyword
      keyword: CONFIRM
    output_artifacts:
      - type: requirements
        path: tasks/{slug}/report.md
        required: true
workflows:
  - name: start
    command: /start
    loop: outer
  - name: finish
    command: /finish
    agent: reviewer
    loop: outer
`

func TestParseValidDocument(t *testing.T) {
	cfg, err := Parse([]byte(validDocument))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Len(t, cfg.States, 3)
	assert.Len(t, cfg.Transitions, 2)
	assert.Len(t, cfg.Workflows, 2)

	finish := cfg.FindTransition("In Progress", "finish")
	require.NotNil(t, finish)
	assert.Equal(t, ApprovalKeyword, finish.Validation.Kind)
	assert.Equal(t, "CONFIRM", finish.Validation.Keyword)
	require.Len(t, finish.OutputArtifacts, 1)
	assert.Equal(t, "requirements", finish.OutputArtifacts[0].Type)
	assert.Equal(t, "tasks/{slug}/report.md", finish.OutputArtifacts[0].PathPattern)
	assert.True(t, finish.OutputArtifacts[0].Required)

	// Transitions without an explicit validation default to none.
	start := cfg.FindTransition("To Do", "start")
	require.NotNil(t, start)
	assert.Equal(t, ApprovalNone, start.Validation.Kind)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"broken yaml", "states: [unclosed"},
		{"empty document", ""},
		{"scalar root", "just a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.input))
			assert.Nil(t, cfg)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.NotEmpty(t, le.Errors)
		})
	}
}

func TestParseCollectsAllViolations(t *testing.T) {
	doc := `states:
  - name: A
  - description: missing the name
transitions:
  - from: A
    to: B
workflows:
  - name: w
    command: /w
    loop: sideways
`
	cfg, err := Parse([]byte(doc))
	assert.Nil(t, cfg)

	var le *LoadError
	require.ErrorAs(t, err, &le)

	details := make([]string, 0, len(le.Errors))
	for _, ce := range le.Errors {
		assert.Equal(t, ErrSchemaViolation, ce.Kind)
		details = append(details, ce.Detail)
	}
	joined := strings.Join(details, "\n")

	assert.Contains(t, joined, `missing required field "states[1].name"`)
	assert.Contains(t, joined, `missing required field "transitions[0].via"`)
	assert.Contains(t, joined, `"workflows[0].loop" must be one of [inner, outer]`)

	// Violations carry source positions.
	located := 0
	for _, ce := range le.Errors {
		if ce.Location != "" {
			located++
		}
	}
	assert.Greater(t, located, 0)
}

func TestParseUnknownField(t *testing.T) {
	doc := `states:
  - name: A
    colour: red
transitions:
  - from: A
    to: A
    via: loop
workflows:
  - name: loop
    command: /loop
    loop: inner
`
	_, err := Parse([]byte(doc))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	require.Len(t, le.Errors, 1)
	assert.Contains(t, le.Errors[0].Detail, `unknown field "states[0].colour"`)
}

func TestParseDuplicateNames(t *testing.T) {
	doc := `states:
  - name: A
  - name: A
transitions:
  - from: A
    to: A
    via: w
workflows:
  - name: w
    command: /w
    loop: inner
  - name: w
    command: /w2
    loop: outer
`
	_, err := Parse([]byte(doc))
	var le *LoadError
	require.ErrorAs(t, err, &le)

	joined := le.Error()
	assert.Contains(t, joined, `duplicate state name "A"`)
	assert.Contains(t, joined, `duplicate workflow name "w"`)
}

func TestParseKeywordModeWithoutKeyword(t *testing.T) {
	doc := `states:
  - name: A
  - name: B
transitions:
  - from: A
    to: B
    via: w
    validation:
      mode: keyword
workflows:
  - name: w
    command: /w
    loop: inner
`
	_, err := Parse([]byte(doc))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Error(), "requires a non-empty keyword")
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "workflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validDocument), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.States, 3)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var le *LoadError
	assert.False(t, errors.As(err, &le), "read failures are not LoadErrors")
}

func TestLoadErrorCarriesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("states: 7"), 0o644))

	_, err := Load(path)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, path, le.Path)
	assert.Contains(t, le.Error(), "bad.yaml")
}
