package lifecycle

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValidationModeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ValidationMode
		wantErr bool
	}{
		{
			name:  "bare none",
			input: `none`,
			want:  ValidationMode{Kind: ApprovalNone},
		},
		{
			name:  "bare pull_request",
			input: `pull_request`,
			want:  ValidationMode{Kind: ApprovalPullRequest},
		},
		{
			name:  "keyword mapping",
			input: "mode: keyword\nkeyword: CONFIRM",
			want:  ValidationMode{Kind: ApprovalKeyword, Keyword: "CONFIRM"},
		},
		{
			name:    "bare keyword without keyword field",
			input:   `keyword`,
			wantErr: true,
		},
		{
			name:    "keyword mapping missing keyword",
			input:   "mode: keyword",
			wantErr: true,
		},
		{
			name:    "keyword on none mode",
			input:   "mode: none\nkeyword: CONFIRM",
			wantErr: true,
		},
		{
			name:    "unknown mode",
			input:   `fuzzy`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ValidationMode
			err := yaml.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestStateSetUnmarshal(t *testing.T) {
	var scalar struct {
		From StateSet `yaml:"from"`
	}
	if err := yaml.Unmarshal([]byte("from: Planned"), &scalar); err != nil {
		t.Fatalf("scalar form: %v", err)
	}
	if len(scalar.From) != 1 || scalar.From[0] != "Planned" {
		t.Errorf("scalar form: got %v", scalar.From)
	}

	var list struct {
		From StateSet `yaml:"from"`
	}
	if err := yaml.Unmarshal([]byte("from: [Planned, Blocked]"), &list); err != nil {
		t.Fatalf("list form: %v", err)
	}
	if len(list.From) != 2 || list.From[0] != "Planned" || list.From[1] != "Blocked" {
		t.Errorf("list form: got %v", list.From)
	}
}

func testConfiguration() *Configuration {
	return &Configuration{
		States: []State{
			{Name: "Planned"},
			{Name: "InProgress"},
			{Name: "Review"},
			{Name: "Done"},
		},
		Transitions: []Transition{
			{From: StateSet{"Planned"}, To: "InProgress", Via: "implement"},
			{From: StateSet{"InProgress"}, To: "Review", Via: "submit"},
			{From: StateSet{"InProgress", "Review"}, To: "Done", Via: "finish"},
		},
		Workflows: []WorkflowDefinition{
			{Name: "implement", Command: "/implement", Loop: LoopInner},
			{Name: "submit", Command: "/submit", Loop: LoopOuter},
			{Name: "finish", Command: "/finish", Loop: LoopOuter},
		},
	}
}

func TestTransitionsFrom(t *testing.T) {
	cfg := testConfiguration()

	got := cfg.TransitionsFrom("InProgress")
	if len(got) != 2 {
		t.Fatalf("expected 2 transitions from InProgress, got %d", len(got))
	}
	// Declaration order is part of the contract.
	if got[0].Via != "submit" || got[1].Via != "finish" {
		t.Errorf("wrong order: %s, %s", got[0].Via, got[1].Via)
	}

	if out := cfg.TransitionsFrom("Done"); len(out) != 0 {
		t.Errorf("expected no transitions from terminal state, got %d", len(out))
	}
}

func TestFindTransition(t *testing.T) {
	cfg := testConfiguration()

	if tr := cfg.FindTransition("Review", "finish"); tr == nil || tr.To != "Done" {
		t.Errorf("expected Review -finish-> Done, got %+v", tr)
	}
	if tr := cfg.FindTransition("Planned", "finish"); tr != nil {
		t.Errorf("finish is not legal from Planned, got %+v", tr)
	}
}

func TestInitialStates(t *testing.T) {
	cfg := testConfiguration()

	initial := cfg.InitialStates()
	if len(initial) != 1 || initial[0] != "Planned" {
		t.Errorf("expected [Planned], got %v", initial)
	}
}

func TestIsTerminal(t *testing.T) {
	cfg := testConfiguration()

	if !cfg.IsTerminal("Done") {
		t.Error("Done should be terminal")
	}
	if cfg.IsTerminal("InProgress") {
		t.Error("InProgress should not be terminal")
	}
}

func TestApprovalKindIsValid(t *testing.T) {
	for _, k := range []ApprovalKind{ApprovalNone, ApprovalKeyword, ApprovalPullRequest} {
		if !k.IsValid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if ApprovalKind("fuzzy").IsValid() {
		t.Error("fuzzy should not be valid")
	}
}
