package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/taskgate/audit"
	"github.com/c360studio/taskgate/gate"
	"github.com/c360studio/taskgate/lifecycle"
)

// nextCmd lists the legal next transitions for a task.
func nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next <task>",
		Short: "List legal next transitions for a task",
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

			t, err := app.store.Get(args[0])
			if err != nil {
				return err
			}

			transitions := app.workflow.TransitionsFrom(t.State)
			fmt.Print(renderTransitions(t.State, transitions))
			return nil
		},
	}
}

// transitionCmd evaluates the gate for one transition attempt and, when
// allowed, records the proposed new state in the task store.
func transitionCmd() *cobra.Command {
	var (
		approval string
		prMerged bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "transition <task> <command>",
		Short: "Attempt a workflow transition for a task",
		Args:  cobra.ExactArgs(2),
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

			t, err := app.store.Get(args[0])
			if err != nil {
				return err
			}

			transition := app.workflow.FindTransition(t.State, args[1])
			if transition == nil {
				// Spell out what would have been legal instead.
				fmt.Print(renderTransitions(t.State, app.workflow.TransitionsFrom(t.State)))
				return fmt.Errorf("no transition %q out of state %q", args[1], t.State)
			}

			req := gate.Request{
				Task:       t,
				Transition: transition,
				Approval:   approval,
			}
			if cmd.Flags().Changed("pr-merged") {
				req.PRMerged = &prMerged
			}

			result := app.engine.Evaluate(req)
			fmt.Print(renderGateResult(result))

			if err := app.auditor.PublishDecision(audit.Event{
				TaskID:    t.ID,
				FromState: t.State,
				ToState:   transition.To,
				Via:       transition.Via,
				Allowed:   result.Allowed,
				Reasons:   result.Reasons,
			}); err != nil {
				fmt.Printf("  %s %v\n", warnStyle.Render("warning:"), err)
			}

			if !result.Allowed {
				return fmt.Errorf("transition denied")
			}

			if dryRun {
				fmt.Printf("dry run: task stays in %q\n", t.State)
				return nil
			}

			if err := app.store.SetState(t.Slug, transition.To); err != nil {
				return fmt.Errorf("record new state: %w", err)
			}
			fmt.Printf("task %s: %s -> %s\n", t.Slug, t.State, transition.To)
			return nil
		},
	}

	cmd.Flags().StringVar(&approval, "approve", "", "Confirmation keyword for keyword-approval gates")
	cmd.Flags().BoolVar(&prMerged, "pr-merged", false, "Report the associated pull request as merged")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate the gate without recording the new state")

	return cmd
}

// appError renders graph validation failures before returning them.
func appError(err error) error {
	if ge, ok := err.(*graphError); ok {
		fmt.Print(renderReport(ge.report))
	}
	if le, ok := err.(*lifecycle.LoadError); ok {
		fmt.Println(errorStyle.Render("✗ document is structurally invalid"))
		for _, ce := range le.Errors {
			fmt.Printf("  %s %s\n", errorStyle.Render("error:"), ce.Error())
		}
	}
	return err
}
