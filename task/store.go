package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the narrow interface the engine needs from the external task
// tracker: read a snapshot, list known tasks, and record a proposed state.
// The tracker owns durability and single-writer arbitration; two
// concurrent writers racing on the same task is the tracker's problem,
// not the engine's.
type Store interface {
	// Get returns the task snapshot for an ID or slug.
	Get(id string) (*Task, error)

	// List returns all known tasks.
	List() ([]Task, error)

	// SetState records a new state label for the task.
	SetState(id, state string) error
}

// NotFoundError indicates the task does not exist in the store.
type NotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// FileStore is a JSON-file-backed Store for local use. Each task lives in
// {dir}/{slug}.json. It is a reference adapter for the CLI; production
// callers plug in their own tracker behind the Store interface.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create task dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Create adds a new task in the given initial state and returns it.
// The ID is generated; the slug is derived from the title.
func (s *FileStore) Create(title, state string) (*Task, error) {
	now := time.Now().UTC()
	t := &Task{
		ID:        uuid.NewString(),
		Slug:      Slugify(title),
		Title:     title,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := os.Stat(s.path(t.Slug)); err == nil {
		return nil, fmt.Errorf("task already exists: %s", t.Slug)
	}

	if err := s.write(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get implements Store. It accepts either a task ID or a slug.
func (s *FileStore) Get(id string) (*Task, error) {
	// Slug lookup first: the common case for CLI callers.
	if t, err := s.read(s.path(id)); err == nil {
		return t, nil
	}

	tasks, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i], nil
		}
	}
	return nil, &NotFoundError{ID: id}
}

// List implements Store. Tasks are returned sorted by slug for stable
// output.
func (s *FileStore) List() ([]Task, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read task dir: %w", err)
	}

	var tasks []Task
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		t, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Slug < tasks[j].Slug })
	return tasks, nil
}

// SetState implements Store.
func (s *FileStore) SetState(id, state string) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	t.State = state
	t.UpdatedAt = time.Now().UTC()
	return s.write(t)
}

// SetCriteria replaces the task's acceptance criteria.
func (s *FileStore) SetCriteria(id string, criteria []AcceptanceCriterion) error {
	t, err := s.Get(id)
	if err != nil {
		return err
	}
	t.AcceptanceCriteria = criteria
	t.UpdatedAt = time.Now().UTC()
	return s.write(t)
}

func (s *FileStore) path(slug string) string {
	return filepath.Join(s.dir, slug+".json")
}

func (s *FileStore) read(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{ID: strings.TrimSuffix(filepath.Base(path), ".json")}
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	var t Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse task file %s: %w", path, err)
	}
	return &t, nil
}

func (s *FileStore) write(t *Task) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}
	if err := os.WriteFile(s.path(t.Slug), data, 0644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

// Slugify converts a title to a URL-friendly slug.
func Slugify(title string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
