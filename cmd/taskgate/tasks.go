package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/taskgate/task"
)

// tasksCmd manages the local reference task store. Production deployments
// point the engine at their own tracker instead.
func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage local task records",
	}

	cmd.AddCommand(tasksListCmd())
	cmd.AddCommand(tasksCreateCmd())
	cmd.AddCommand(tasksCriteriaCmd())

	return cmd
}

func tasksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List task records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := task.NewFileStore(cfg.Tasks.Dir)
			if err != nil {
				return err
			}

			tasks, err := store.List()
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Println("no tasks")
				return nil
			}

			for _, t := range tasks {
				cov := task.CriteriaCoverage(&t)
				fmt.Printf("%-30s %-20s criteria %d/%d\n",
					t.Slug, headerStyle.Render(t.State), cov.Checked, cov.Total)
			}
			return nil
		},
	}
}

func tasksCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task in the lifecycle's initial state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := NewApp(cfg)
			if err != nil {
				return appError(err)
			}
			defer app.Close()

			initial := app.workflow.InitialStates()
			t, err := app.store.Create(args[0], initial[0])
			if err != nil {
				return err
			}

			fmt.Printf("created task %s (id %s) in state %q\n", t.Slug, t.ID, t.State)
			return nil
		},
	}
}

// tasksCriteriaCmd syncs a task's acceptance criteria from a markdown
// checklist file.
func tasksCriteriaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "criteria <task> <file>",
		Short: "Load acceptance criteria from a markdown checklist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := task.NewFileStore(cfg.Tasks.Dir)
			if err != nil {
				return err
			}

			content, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read criteria file: %w", err)
			}

			criteria := task.ParseCriteria(string(content))
			if err := store.SetCriteria(args[0], criteria); err != nil {
				return err
			}

			checked := 0
			for _, c := range criteria {
				if c.Checked {
					checked++
				}
			}
			fmt.Printf("loaded %d criteria (%d checked) for %s\n", len(criteria), checked, args[0])
			return nil
		},
	}
}
