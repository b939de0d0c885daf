package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/taskgate/graph"
	"github.com/c360studio/taskgate/lifecycle"
)

// validateCmd validates a workflow document: structural schema first,
// then graph analysis. Exit code 1 on any fatal problem; warnings print
// but do not fail.
func validateCmd() *cobra.Command {
	var documentPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a workflow document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if documentPath == "" {
				documentPath = cfg.Workflow.Document
			}

			workflow, err := lifecycle.Load(documentPath)
			if err != nil {
				var le *lifecycle.LoadError
				if errors.As(err, &le) {
					fmt.Println(errorStyle.Render("✗ document is structurally invalid"))
					for _, ce := range le.Errors {
						fmt.Printf("  %s %s\n", errorStyle.Render("error:"), ce.Error())
					}
					return fmt.Errorf("%d structural errors", len(le.Errors))
				}
				return err
			}

			validator := &graph.Validator{KnownAgents: cfg.Workflow.Agents}
			report := validator.Validate(workflow)

			fmt.Print(renderReport(report))

			if !report.OK() {
				return fmt.Errorf("%d graph errors", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&documentPath, "document", "d", "", "Workflow document path (default: from config)")

	return cmd
}
