package main

import (
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/c360studio/taskgate/audit"
	"github.com/c360studio/taskgate/config"
	"github.com/c360studio/taskgate/gate"
	"github.com/c360studio/taskgate/graph"
	"github.com/c360studio/taskgate/lifecycle"
	"github.com/c360studio/taskgate/task"
)

// App wires the engine components for one CLI invocation: configuration,
// validated workflow document, task store, gate engine, and the optional
// audit publisher.
type App struct {
	cfg      *config.Config
	workflow *lifecycle.Configuration
	report   *graph.Report
	store    *task.FileStore
	engine   *gate.Engine

	natsConn *nats.Conn
	auditor  *audit.Publisher
}

// NewApp loads the workflow document, validates its graph, and builds the
// gate engine. It fails if the document is malformed or the graph has
// fatal defects; warnings are kept on the app for display.
func NewApp(cfg *config.Config) (*App, error) {
	workflow, err := lifecycle.Load(cfg.Workflow.Document)
	if err != nil {
		return nil, err
	}

	validator := &graph.Validator{KnownAgents: cfg.Workflow.Agents}
	report := validator.Validate(workflow)
	if !report.OK() {
		return nil, &graphError{report: report}
	}

	store, err := task.NewFileStore(cfg.Tasks.Dir)
	if err != nil {
		return nil, err
	}

	engine := gate.NewEngine(workflow, nil, &gate.DirChecker{Root: cfg.Workspace.Root})
	engine.StrictCriteria = cfg.Gate.StrictCriteria

	app := &App{
		cfg:      cfg,
		workflow: workflow,
		report:   report,
		store:    store,
		engine:   engine,
	}

	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name(appName))
		if err != nil {
			// Audit is best-effort; a missing broker only costs the trail.
			slog.Warn("Audit events disabled: NATS connect failed",
				slog.String("url", cfg.NATS.URL), slog.String("error", err.Error()))
		} else {
			app.natsConn = nc
			app.auditor = audit.NewPublisher(nc)
		}
	}

	return app, nil
}

// Close releases the app's external connections.
func (a *App) Close() {
	if a.natsConn != nil {
		a.natsConn.Close()
	}
}

// graphError adapts a failed validation report to the error interface so
// command handlers can render it.
type graphError struct {
	report *graph.Report
}

// Error implements the error interface.
func (e *graphError) Error() string {
	return fmt.Sprintf("workflow document has %d graph errors", len(e.report.Errors))
}
