package operations_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
	"github.com/saucynandhu/femicideKEanalysis/internal/infrastructure"
	"github.com/saucynandhu/femicideKEanalysis/internal/operations"
	opstest "github.com/saucynandhu/femicideKEanalysis/internal/operations/testutil"
)

func newDataset(t *testing.T, columns ...string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(columns)
	require.NoError(t, err)
	require.NoError(t, ds.AppendRow(make([]dataset.Value, len(columns))))
	return ds
}

func newManager(t *testing.T, steps ...operations.Step) (*operations.Manager, *infrastructure.RunMetrics) {
	t.Helper()
	registry := operations.NewRegistry()
	for _, s := range steps {
		require.NoError(t, registry.Register(s))
	}
	metrics := infrastructure.NewRunMetrics()
	return operations.NewManager(registry, operations.WithMetrics(metrics)), metrics
}

func TestManager_RunsStepsInOrder(t *testing.T) {
	var order []string
	record := func(id string) *opstest.MockStage {
		s := opstest.CreateSuccessfulStage(id, id)
		s.ExecuteFunc = func(ctx context.Context, state *operations.RunState) error {
			order = append(order, id)
			return nil
		}
		return s
	}

	manager, _ := newManager(t, record("first"), record("second"), record("third"))
	state := operations.NewRunState("run-1")

	require.NoError(t, manager.Execute(context.Background(), state))

	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, operations.RunStatusCompleted, state.Status)
	for _, s := range state.Steps() {
		status, _, _ := s.Snapshot()
		assert.Equal(t, operations.StepStatusCompleted, status, s.ID)
	}
}

func TestManager_SkipsStepWithMissingColumn(t *testing.T) {
	ds := newDataset(t, "Verdict", "year")
	load := opstest.CreateDatasetStage("load", ds)
	needsMode := opstest.CreateSuccessfulStage("modes", "Modes", "Mode of killing")
	needsVerdict := opstest.CreateSuccessfulStage("verdicts", "Verdicts", "Verdict")

	manager, metrics := newManager(t, load, needsMode, needsVerdict)
	state := operations.NewRunState("run-2")

	require.NoError(t, manager.Execute(context.Background(), state))

	assert.Equal(t, 0, needsMode.Calls())
	assert.Equal(t, 1, needsVerdict.Calls())

	status, reason, _ := state.GetStep("modes").Snapshot()
	assert.Equal(t, operations.StepStatusSkipped, status)
	assert.Equal(t, "missing column: Mode of killing", reason)
	assert.Equal(t, []string{"modes"}, state.SkippedSteps())
	assert.Equal(t, operations.RunStatusCompleted, state.Status)

	_, _, loadMeta := state.GetStep("load").Snapshot()
	assert.Equal(t, []string{"Mode of killing"}, loadMeta["missing_columns"])

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Steps.WithLabelValues("skipped")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Steps.WithLabelValues("completed")))
}

func TestManager_SkipReasonListsAllMissingColumns(t *testing.T) {
	ds := newDataset(t, "medium")
	step := opstest.CreateSuccessfulStage("timeline", "Timeline", "medium", "date of murder", "Location")

	manager, _ := newManager(t, opstest.CreateDatasetStage("load", ds), step)
	state := operations.NewRunState("run-3")
	require.NoError(t, manager.Execute(context.Background(), state))

	_, reason, _ := state.GetStep("timeline").Snapshot()
	assert.Equal(t, "missing columns: date of murder, Location", reason)
}

func TestManager_SkipsColumnStepsWithoutDataset(t *testing.T) {
	step := opstest.CreateSuccessfulStage("verdicts", "Verdicts", "Verdict")
	manager, _ := newManager(t, step)
	state := operations.NewRunState("run-4")

	require.NoError(t, manager.Execute(context.Background(), state))

	status, reason, _ := state.GetStep("verdicts").Snapshot()
	assert.Equal(t, operations.StepStatusSkipped, status)
	assert.Equal(t, "dataset not loaded", reason)
}

func TestManager_FailureStopsRun(t *testing.T) {
	before := opstest.CreateSuccessfulStage("before", "Before")
	failing := opstest.CreateFailingStage("render", "Render", "disk full")
	after := opstest.CreateSuccessfulStage("after", "After")

	manager, metrics := newManager(t, before, failing, after)
	state := operations.NewRunState("run-5")

	err := manager.Execute(context.Background(), state)
	require.Error(t, err)

	var opErr *operations.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "render", opErr.Step)
	assert.Equal(t, operations.ErrorTypeExecution, opErr.Type)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, "render", operations.FailedStep(err))

	assert.Equal(t, 0, after.Calls())
	status, reason, _ := state.GetStep("after").Snapshot()
	assert.Equal(t, operations.StepStatusSkipped, status)
	assert.Equal(t, "step render failed", reason)

	failedStatus, _, _ := state.GetStep("render").Snapshot()
	assert.Equal(t, operations.StepStatusFailed, failedStatus)
	assert.Equal(t, operations.RunStatusFailed, state.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Steps.WithLabelValues("failed")))
}

func TestManager_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	first := opstest.CreateSuccessfulStage("first", "First")
	first.ExecuteFunc = func(context.Context, *operations.RunState) error {
		cancel()
		return nil
	}
	second := opstest.CreateSuccessfulStage("second", "Second")

	manager, _ := newManager(t, first, second)
	state := operations.NewRunState("run-6")

	err := manager.Execute(ctx, state)
	require.Error(t, err)
	assert.Equal(t, operations.ErrorTypeCancellation, operations.GetErrorType(err))
	assert.Equal(t, operations.RunStatusCancelled, state.Status)
	assert.Equal(t, 0, second.Calls())

	status, reason, _ := state.GetStep("second").Snapshot()
	assert.Equal(t, operations.StepStatusSkipped, status)
	assert.Equal(t, "run cancelled", reason)
}

func TestManager_TracesSteps(t *testing.T) {
	providers, err := infrastructure.InitializeTracing(&discard{}, slog.Default())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	registry := operations.NewRegistry()
	require.NoError(t, registry.Register(opstest.CreateSuccessfulStage("only", "Only")))
	manager := operations.NewManager(registry, operations.WithTracer(operations.NewStepTracer(providers.Tracer)))

	state := operations.NewRunState("run-7")
	require.NoError(t, manager.Execute(context.Background(), state))
	assert.Equal(t, operations.RunStatusCompleted, state.Status)
}

type discard struct{ n int }

func (d *discard) Write(p []byte) (int, error) {
	d.n += len(p)
	return len(p), nil
}
