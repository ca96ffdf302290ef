package operations_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saucynandhu/femicideKEanalysis/internal/operations"
	opstest "github.com/saucynandhu/femicideKEanalysis/internal/operations/testutil"
)

func TestStepStateTransitions(t *testing.T) {
	tests := []struct {
		name       string
		transition func(*operations.StepState)
		wantStatus operations.StepStatus
		wantEnd    bool
	}{
		{
			name:       "Start",
			transition: func(s *operations.StepState) { s.Start() },
			wantStatus: operations.StepStatusActive,
		},
		{
			name:       "Complete",
			transition: func(s *operations.StepState) { s.Start(); s.Complete() },
			wantStatus: operations.StepStatusCompleted,
			wantEnd:    true,
		},
		{
			name:       "Fail",
			transition: func(s *operations.StepState) { s.Start(); s.Fail(errors.New("boom")) },
			wantStatus: operations.StepStatusFailed,
			wantEnd:    true,
		},
		{
			name:       "Skip",
			transition: func(s *operations.StepState) { s.Skip("missing column: Verdict") },
			wantStatus: operations.StepStatusSkipped,
			wantEnd:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := operations.NewStepState("verdicts", "Verdict Distribution")
			assert.Equal(t, operations.StepStatusPending, state.Status)

			tt.transition(state)

			assert.Equal(t, tt.wantStatus, state.Status)
			assert.NotNil(t, state.StartTime)
			assert.Equal(t, tt.wantEnd, state.EndTime != nil)
			assert.GreaterOrEqual(t, state.Duration().Nanoseconds(), int64(0))
		})
	}
}

func TestStepState_SnapshotCopiesMetadata(t *testing.T) {
	state := operations.NewStepState("load", "Load")
	state.SetMetadata("rows", 4)

	_, _, meta := state.Snapshot()
	meta["rows"] = 99

	_, _, again := state.Snapshot()
	assert.Equal(t, 4, again["rows"])
}

func TestBaseStage_RequiredColumnsIsCopy(t *testing.T) {
	base := operations.NewBaseStage("timeline", "Timeline", "medium", "Location")
	cols := base.RequiredColumns()
	cols[0] = "changed"

	assert.Equal(t, []string{"medium", "Location"}, base.RequiredColumns())
	export := operations.NewBaseStage("export", "Export")
	assert.Empty(t, export.RequiredColumns())
}

func TestRegistry(t *testing.T) {
	registry := operations.NewRegistry()
	assert.Equal(t, 0, registry.Count())
	assert.NotNil(t, registry.List())

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("step%d", i)
		require.NoError(t, registry.Register(opstest.CreateSuccessfulStage(id, id)))
	}

	assert.Equal(t, 3, registry.Count())
	assert.Equal(t, []string{"step1", "step2", "step3"}, registry.ListIDs())
	assert.True(t, registry.Has("step2"))

	got, err := registry.Get("step2")
	require.NoError(t, err)
	assert.Equal(t, "step2", got.ID())

	require.NoError(t, registry.Unregister("step2"))
	assert.Equal(t, []string{"step1", "step3"}, registry.ListIDs())

	_, err = registry.Get("step2")
	assert.Error(t, err)
	assert.Error(t, registry.Unregister("step2"))
}

func TestRegistry_RegisterErrors(t *testing.T) {
	registry := operations.NewRegistry()

	assert.Error(t, registry.Register(nil))
	assert.Error(t, registry.Register(opstest.CreateSuccessfulStage("", "No ID")))

	require.NoError(t, registry.Register(opstest.CreateSuccessfulStage("load", "Load")))
	assert.Error(t, registry.Register(opstest.CreateSuccessfulStage("load", "Load again")))
}

func TestOperationErrors(t *testing.T) {
	cause := errors.New("permission denied")

	exec := operations.NewExecutionError("export_cleaned", cause)
	assert.Equal(t, "[execution] export_cleaned: step execution failed: permission denied", exec.Error())
	assert.ErrorIs(t, exec, cause)

	wrapped := operations.WrapError(cause, "verdicts", "render failed")
	assert.Equal(t, "verdicts", wrapped.Step)
	assert.Equal(t, operations.ErrorTypeExecution, operations.GetErrorType(wrapped))

	again := operations.WrapError(operations.NewCancellationError(""), "load", "")
	assert.Equal(t, "load", again.Step)
	assert.Equal(t, operations.ErrorTypeCancellation, again.Type)

	assert.Nil(t, operations.WrapError(nil, "load", "x"))
	assert.Equal(t, operations.ErrorType(""), operations.GetErrorType(nil))
	assert.Equal(t, "", operations.FailedStep(cause))
	assert.Equal(t, "[fatal] no config", operations.NewFatalError("no config", nil).Error())
}

func TestRegistry_ColumnDependents(t *testing.T) {
	registry := operations.NewRegistry()
	require.NoError(t, registry.Register(opstest.CreateSuccessfulStage("load", "Load")))
	require.NoError(t, registry.Register(opstest.CreateSuccessfulStage("trend", "Trend", "year")))
	require.NoError(t, registry.Register(opstest.CreateSuccessfulStage("timeline", "Timeline", "medium", "year")))

	deps := registry.ColumnDependents()
	assert.Equal(t, map[string][]string{
		"year":   {"trend", "timeline"},
		"medium": {"timeline"},
	}, deps)
}
