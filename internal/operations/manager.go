package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/saucynandhu/femicideKEanalysis/internal/infrastructure"
)

// Manager runs registered steps one after another against a RunState
type Manager struct {
	registry *Registry
	logger   *slog.Logger
	tracer   *StepTracer
	metrics  *infrastructure.RunMetrics
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithLogger sets the manager logger
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithTracer sets the tracer used for run and step spans
func WithTracer(tracer *StepTracer) ManagerOption {
	return func(m *Manager) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// WithMetrics records step outcomes into metrics
func WithMetrics(metrics *infrastructure.RunMetrics) ManagerOption {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager creates a run manager
func NewManager(registry *Registry, opts ...ManagerOption) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	m := &Manager{
		registry: registry,
		logger:   slog.Default(),
		tracer:   NewStepTracer(nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = infrastructure.WithComponent(m.logger, "operations")
	return m
}

// RegisterStep registers a Step with the manager
func (m *Manager) RegisterStep(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry for accessing registered steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs every registered step in order. A step whose required
// columns are absent is skipped with the reason recorded; a step that
// returns an error stops the run. Cancellation is honoured between steps.
func (m *Manager) Execute(ctx context.Context, state *RunState) error {
	steps := m.registry.List()
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, runSpan := m.tracer.TraceRun(ctx, state.ID, len(steps))
	defer runSpan.End()

	state.Start()
	m.logRunStart(ctx, state.ID, len(steps))

	err := m.executeSequential(ctx, state, steps)

	switch GetErrorType(err) {
	case "":
		state.Complete()
	case ErrorTypeCancellation:
		state.Cancel(err)
	default:
		state.Fail(err)
	}

	m.tracer.RecordRunResult(runSpan, state.Status, state.Duration(), err)
	m.logRunComplete(ctx, state)
	return err
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *RunState, steps []Step) error {
	for i, step := range steps {
		select {
		case <-ctx.Done():
			m.logger.WarnContext(ctx, "run_cancelled",
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "run cancelled")
			return NewCancellationError(step.ID())
		default:
		}

		m.logger.InfoContext(ctx, "executing_step",
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		loaded := state.Dataset() != nil
		if err := m.executeStep(ctx, state, step); err != nil {
			m.logStepError(ctx, step.ID(), err)
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("step %s failed", step.ID()))
			return err
		}
		if !loaded && state.Dataset() != nil {
			m.checkSchema(ctx, state, step.ID())
		}
	}
	return nil
}

// checkSchema runs once the dataset appears and reports every required column
// the sheet lacks, with the steps that will be skipped for it. The list is
// stored as missing_columns metadata on the step that loaded the dataset.
func (m *Manager) checkSchema(ctx context.Context, state *RunState, loaderID string) {
	deps := m.registry.ColumnDependents()
	columns := make([]string, 0, len(deps))
	for col := range deps {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	missing := state.Dataset().MissingColumns(columns...)
	if len(missing) == 0 {
		return
	}
	for _, col := range missing {
		m.logger.WarnContext(ctx, "required_column_missing",
			slog.String("column", col),
			slog.Any("dependent_steps", deps[col]))
	}
	if loader := state.GetStep(loaderID); loader != nil {
		loader.SetMetadata("missing_columns", missing)
	}
}

// executeStep runs a single step after its capability check
func (m *Manager) executeStep(ctx context.Context, state *RunState, step Step) error {
	stepState := state.GetStep(step.ID())
	if stepState == nil {
		return NewFatalError(fmt.Sprintf("state for step %s not found", step.ID()), nil)
	}

	stepCtx, span := m.tracer.TraceStep(ctx, state.ID, step)
	defer span.End()

	if reason := skipReason(step, state); reason != "" {
		stepState.Skip(reason)
		m.logger.WarnContext(ctx, "step_skipped",
			slog.String("step", step.ID()),
			slog.String("reason", reason))
		m.recordStep(step.ID(), StepStatusSkipped, 0)
		m.tracer.RecordStepResult(span, StepStatusSkipped, 0, reason, nil)
		return nil
	}

	stepState.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	if err != nil {
		wrapped := WrapError(err, step.ID(), "step execution failed")
		stepState.Fail(wrapped)
		m.recordStep(step.ID(), StepStatusFailed, duration)
		m.tracer.RecordStepResult(span, StepStatusFailed, duration, "", wrapped)
		return wrapped
	}

	stepState.Complete()
	m.logStepComplete(ctx, step.ID(), duration)
	m.recordStep(step.ID(), StepStatusCompleted, duration)
	m.tracer.RecordStepResult(span, StepStatusCompleted, duration, "", nil)
	return nil
}

// skipRemaining marks steps that will not run after a failure or cancellation
func (m *Manager) skipRemaining(state *RunState, steps []Step, reason string) {
	for _, step := range steps {
		stepState := state.GetStep(step.ID())
		if stepState == nil {
			continue
		}
		if status, _, _ := stepState.Snapshot(); status == StepStatusPending {
			stepState.Skip(reason)
			m.recordStep(step.ID(), StepStatusSkipped, 0)
		}
	}
}

func (m *Manager) recordStep(stepID string, status StepStatus, duration time.Duration) {
	if m.metrics == nil {
		return
	}
	m.metrics.Steps.WithLabelValues(string(status)).Inc()
	m.metrics.StepDuration.WithLabelValues(stepID).Set(duration.Seconds())
}
