package operations

import (
	"context"
	"log/slog"
	"time"

	"github.com/saucynandhu/femicideKEanalysis/internal/infrastructure"
)

// logRunStart logs the start of a run
func (m *Manager) logRunStart(ctx context.Context, runID string, stepCount int) {
	m.logger.InfoContext(ctx, "run_start",
		slog.String("run", runID),
		slog.Int("step_count", stepCount))
}

// logRunComplete logs the end of a run with per-status step counts
func (m *Manager) logRunComplete(ctx context.Context, state *RunState) {
	counts := make(map[StepStatus]int)
	for _, s := range state.Steps() {
		status, _, _ := s.Snapshot()
		counts[status]++
	}
	m.logger.InfoContext(ctx, "run_complete",
		slog.String("run", state.ID),
		slog.String("status", string(state.Status)),
		slog.Duration("duration", state.Duration()),
		slog.Int("completed", counts[StepStatusCompleted]),
		slog.Int("skipped", counts[StepStatusSkipped]),
		slog.Int("failed", counts[StepStatusFailed]))
}

// logStepComplete logs the completion of a step
func (m *Manager) logStepComplete(ctx context.Context, stepID string, duration time.Duration) {
	m.logger.InfoContext(ctx, "step_complete",
		slog.String("step", stepID),
		slog.Duration("duration", duration))
}

// logStepError logs a step error
func (m *Manager) logStepError(ctx context.Context, stepID string, err error) {
	infrastructure.WithError(m.logger, err).ErrorContext(ctx, "step_error",
		slog.String("step", stepID))
}
