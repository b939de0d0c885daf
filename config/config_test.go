package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "workflow.yaml", cfg.Workflow.Document)
	assert.Equal(t, filepath.Join(".taskgate", "tasks"), cfg.Tasks.Dir)
	assert.False(t, cfg.Gate.StrictCriteria)
	assert.Empty(t, cfg.NATS.URL)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workflow.Document = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Tasks.Dir = ""
	assert.Error(t, cfg.Validate())
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	base.Merge(&Config{
		Workflow:  WorkflowConfig{Document: "custom.yaml", Agents: []string{"reviewer"}},
		Workspace: WorkspaceConfig{Root: "/work"},
		Gate:      GateConfig{StrictCriteria: true},
		NATS:      NATSConfig{URL: "nats://localhost:4222"},
	})

	assert.Equal(t, "custom.yaml", base.Workflow.Document)
	assert.Equal(t, []string{"reviewer"}, base.Workflow.Agents)
	assert.Equal(t, "/work", base.Workspace.Root)
	assert.True(t, base.Gate.StrictCriteria)
	assert.Equal(t, "nats://localhost:4222", base.NATS.URL)

	// Zero values in the overlay do not clobber existing settings.
	base.Merge(&Config{})
	assert.Equal(t, "custom.yaml", base.Workflow.Document)
	assert.True(t, base.Gate.StrictCriteria)

	// Nil is a no-op.
	base.Merge(nil)
	assert.Equal(t, "/work", base.Workspace.Root)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "taskgate.yaml")

	cfg := DefaultConfig()
	cfg.Workflow.Document = "flows/main.yaml"
	cfg.Gate.StrictCriteria = true
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "flows/main.yaml", loaded.Workflow.Document)
	assert.True(t, loaded.Gate.StrictCriteria)
}

func TestLoadFromFilePartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workflow:\n  document: flows/main.yaml\n"), 0o644))

	// Unspecified fields keep their defaults.
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "flows/main.yaml", cfg.Workflow.Document)
	assert.Equal(t, filepath.Join(".taskgate", "tasks"), cfg.Tasks.Dir)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workflow: [broken"), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}
