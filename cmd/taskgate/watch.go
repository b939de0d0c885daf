package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/c360studio/taskgate/graph"
	"github.com/c360studio/taskgate/lifecycle"
)

// watchCmd re-validates the workflow document whenever it changes.
// Reload is full re-validation from scratch: there is no incremental
// update of a loaded configuration.
func watchCmd() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-validate the workflow document on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			docPath, err := filepath.Abs(cfg.Workflow.Document)
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer watcher.Close()

			// Watch the directory: editors often replace the file, which
			// drops a watch registered on the file itself.
			if err := watcher.Add(filepath.Dir(docPath)); err != nil {
				return fmt.Errorf("watch %s: %w", filepath.Dir(docPath), err)
			}

			revalidate := func() {
				workflow, err := lifecycle.Load(docPath)
				if err != nil {
					fmt.Println(errorStyle.Render("✗ " + err.Error()))
					return
				}
				validator := &graph.Validator{KnownAgents: cfg.Workflow.Agents}
				fmt.Print(renderReport(validator.Validate(workflow)))
			}

			fmt.Printf("watching %s\n", docPath)
			revalidate()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			var timer *time.Timer
			timerCh := make(chan struct{}, 1)

			for {
				select {
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != docPath {
						continue
					}
					if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					slog.Debug("Workflow document changed", slog.String("op", event.Op.String()))
					// Debounce bursts of editor write events.
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, func() {
						timerCh <- struct{}{}
					})

				case <-timerCh:
					revalidate()

				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					slog.Warn("Watcher error", slog.String("error", err.Error()))

				case <-sigCh:
					fmt.Println("\nstopping watch")
					return nil
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "Delay before re-validating after a change")

	return cmd
}
