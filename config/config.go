// Package config provides configuration loading and management for taskgate.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete taskgate configuration
type Config struct {
	Workflow  WorkflowConfig  `yaml:"workflow"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Tasks     TasksConfig     `yaml:"tasks"`
	Gate      GateConfig      `yaml:"gate"`
	NATS      NATSConfig      `yaml:"nats"`
}

// WorkflowConfig locates the workflow document
type WorkflowConfig struct {
	// Document is the path to the workflow configuration document
	Document string `yaml:"document"`
	// Agents lists the recognized agent names for advisory reference checks
	Agents []string `yaml:"agents"`
}

// WorkspaceConfig configures where artifact paths resolve
type WorkspaceConfig struct {
	// Root is the workspace root path (auto-detected from git if empty)
	Root string `yaml:"root"`
}

// TasksConfig configures the local task store
type TasksConfig struct {
	// Dir is the directory holding task records (default: .taskgate/tasks)
	Dir string `yaml:"dir"`
}

// GateConfig configures gate evaluation behavior
type GateConfig struct {
	// StrictCriteria makes incomplete acceptance criteria block terminal
	// transitions instead of warning
	StrictCriteria bool `yaml:"strict_criteria"`
}

// NATSConfig configures the optional audit event connection
type NATSConfig struct {
	// URL is the NATS server URL (empty = audit events disabled)
	URL string `yaml:"url"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Workflow: WorkflowConfig{
			Document: "workflow.yaml",
		},
		Workspace: WorkspaceConfig{
			Root: "", // Auto-detect
		},
		Tasks: TasksConfig{
			Dir: filepath.Join(".taskgate", "tasks"),
		},
		Gate: GateConfig{
			StrictCriteria: false,
		},
		NATS: NATSConfig{
			URL: "",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Workflow.Document == "" {
		return fmt.Errorf("workflow.document is required")
	}
	if c.Tasks.Dir == "" {
		return fmt.Errorf("tasks.dir is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Workflow
	if other.Workflow.Document != "" {
		c.Workflow.Document = other.Workflow.Document
	}
	if len(other.Workflow.Agents) > 0 {
		c.Workflow.Agents = other.Workflow.Agents
	}

	// Workspace
	if other.Workspace.Root != "" {
		c.Workspace.Root = other.Workspace.Root
	}

	// Tasks
	if other.Tasks.Dir != "" {
		c.Tasks.Dir = other.Tasks.Dir
	}

	// Gate
	if other.Gate.StrictCriteria {
		c.Gate.StrictCriteria = true
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
}
