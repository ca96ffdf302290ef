package operations

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Step represents a single step of the analysis run
type Step interface {
	// ID returns the unique identifier for this Step
	ID() string

	// Name returns the human-readable name for this Step
	Name() string

	// RequiredColumns lists the dataset columns the Step reads. The manager
	// skips the Step when any of them is absent from the loaded dataset.
	RequiredColumns() []string

	// Execute runs the Step with the given context and run state
	Execute(ctx context.Context, state *RunState) error
}

// StepStatus represents the current status of a Step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState represents the runtime state of a Step
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Message   string
	Error     error
	Metadata  map[string]any
}

// NewStepState creates a new Step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]any),
	}
}

// Start marks the Step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the Step as completed
func (s *StepState) Complete() { s.finish(StepStatusCompleted, "", nil) }

// Fail marks the Step as failed with err
func (s *StepState) Fail(err error) { s.finish(StepStatusFailed, "", err) }

// Skip marks the Step as skipped; reason ends up in the run manifest.
func (s *StepState) Skip(reason string) { s.finish(StepStatusSkipped, reason, nil) }

// finish records a terminal status. A step skipped before it started gets a
// zero-length run.
func (s *StepState) finish(status StepStatus, message string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.StartTime == nil {
		s.StartTime = &now
	}
	s.EndTime = &now
	s.Status = status
	s.Message = message
	s.Error = err
}

// SetMetadata records a step-specific detail for the run manifest
func (s *StepState) SetMetadata(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Metadata[key] = value
}

// Snapshot returns status, message and a copy of the metadata
func (s *StepState) Snapshot() (StepStatus, string, map[string]any) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta := make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		meta[k] = v
	}
	return s.Status, s.Message, meta
}

// Duration returns the duration of the Step execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// BaseStage provides common functionality for Step implementations
type BaseStage struct {
	id      string
	name    string
	columns []string
}

// NewBaseStage creates a new base Step reading the given columns
func NewBaseStage(id, name string, columns ...string) BaseStage {
	return BaseStage{
		id:      id,
		name:    name,
		columns: columns,
	}
}

// ID returns the Step ID
func (b *BaseStage) ID() string {
	if b == nil {
		return ""
	}
	return b.id
}

// Name returns the Step name
func (b *BaseStage) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// RequiredColumns returns the columns the Step reads
func (b *BaseStage) RequiredColumns() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.columns))
	copy(out, b.columns)
	return out
}

// skipReason describes why a step cannot run against the current dataset,
// or returns "" when it can.
func skipReason(step Step, state *RunState) string {
	required := step.RequiredColumns()
	if len(required) == 0 {
		return ""
	}
	ds := state.Dataset()
	if ds == nil {
		return "dataset not loaded"
	}
	missing := ds.MissingColumns(required...)
	if len(missing) == 0 {
		return ""
	}
	label := "column"
	if len(missing) > 1 {
		label = "columns"
	}
	return fmt.Sprintf("missing %s: %s", label, strings.Join(missing, ", "))
}
