package task

import (
	"errors"
	"testing"
)

func TestCriteriaCoverage(t *testing.T) {
	tests := []struct {
		name     string
		criteria []AcceptanceCriterion
		want     Coverage
	}{
		{
			name:     "no criteria is vacuously complete",
			criteria: nil,
			want:     Coverage{Checked: 0, Total: 0, Ratio: 1.0},
		},
		{
			name: "all checked",
			criteria: []AcceptanceCriterion{
				{Index: 1, Checked: true},
				{Index: 2, Checked: true},
			},
			want: Coverage{Checked: 2, Total: 2, Ratio: 1.0},
		},
		{
			name: "partially checked",
			criteria: []AcceptanceCriterion{
				{Index: 1, Checked: true},
				{Index: 2},
				{Index: 3},
				{Index: 4},
			},
			want: Coverage{Checked: 1, Total: 4, Ratio: 0.25},
		},
		{
			name:     "none checked",
			criteria: []AcceptanceCriterion{{Index: 1}},
			want:     Coverage{Checked: 0, Total: 1, Ratio: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CriteriaCoverage(&Task{AcceptanceCriteria: tt.criteria})
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
			wantComplete := tt.want.Ratio == 1.0
			if got.Complete() != wantComplete {
				t.Errorf("Complete() = %v, want %v", got.Complete(), wantComplete)
			}
		})
	}
}

func TestParseCriteria(t *testing.T) {
	content := `# Acceptance Criteria

Some prose that is not a checkbox.

- [ ] limiter returns 429 above the limit
- [x] limits load from config
* [X] response carries Retry-After
not a list item [ ] either
  - [ ] indented items count too
`

	criteria := ParseCriteria(content)
	if len(criteria) != 4 {
		t.Fatalf("expected 4 criteria, got %d: %+v", len(criteria), criteria)
	}

	if criteria[0].Index != 1 || criteria[0].Checked || criteria[0].Text != "limiter returns 429 above the limit" {
		t.Errorf("first criterion: %+v", criteria[0])
	}
	if !criteria[1].Checked {
		t.Error("second criterion should be checked")
	}
	if !criteria[2].Checked {
		t.Error("uppercase X counts as checked")
	}
	if criteria[3].Index != 4 {
		t.Errorf("indices are sequential, got %d", criteria[3].Index)
	}
}

func TestParseCriteriaEmpty(t *testing.T) {
	if got := ParseCriteria("just prose\n\nno checkboxes"); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Add rate limiting", "add-rate-limiting"},
		{"Fix: parser crash (issue #42)", "fix-parser-crash-issue-42"},
		{"  already--slugged  ", "already-slugged"},
		{"UPPER Case", "upper-case"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	created, err := store.Create("Add rate limiting", "To Do")
	if err != nil {
		t.Fatal(err)
	}
	if created.Slug != "add-rate-limiting" || created.ID == "" {
		t.Fatalf("unexpected task: %+v", created)
	}

	// Lookup by slug and by ID both work.
	bySlug, err := store.Get("add-rate-limiting")
	if err != nil {
		t.Fatal(err)
	}
	byID, err := store.Get(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if bySlug.ID != created.ID || byID.Slug != created.Slug {
		t.Errorf("lookups disagree: %+v vs %+v", bySlug, byID)
	}

	if err := store.SetState(created.Slug, "In Progress"); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(created.Slug)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != "In Progress" {
		t.Errorf("state not persisted: %q", got.State)
	}

	criteria := ParseCriteria("- [x] done\n- [ ] pending")
	if err := store.SetCriteria(created.Slug, criteria); err != nil {
		t.Fatal(err)
	}
	got, _ = store.Get(created.Slug)
	if len(got.AcceptanceCriteria) != 2 {
		t.Errorf("criteria not persisted: %+v", got.AcceptanceCriteria)
	}
}

func TestFileStoreDuplicateCreate(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := store.Create("Same title", "To Do"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create("Same title", "To Do"); err == nil {
		t.Error("expected duplicate slug to be rejected")
	}
}

func TestFileStoreListSorted(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, title := range []string{"zebra", "apple", "mango"} {
		if _, err := store.Create(title, "To Do"); err != nil {
			t.Fatal(err)
		}
	}

	tasks, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, want := range []string{"apple", "mango", "zebra"} {
		if tasks[i].Slug != want {
			t.Errorf("tasks[%d].Slug = %q, want %q", i, tasks[i].Slug, want)
		}
	}
}

func TestFileStoreNotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Get("ghost")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.ID != "ghost" {
		t.Errorf("ID = %q", nf.ID)
	}

	if err := store.SetState("ghost", "Done"); !errors.As(err, &nf) {
		t.Errorf("SetState on missing task: %v", err)
	}
}
