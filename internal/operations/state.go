package operations

import (
	"sync"
	"time"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
)

// Artifact is an output file written by a step
type Artifact struct {
	Step string `json:"step"`
	Path string `json:"path"`
}

// RunState is the complete state of one analysis run: the dataset being
// cleaned, the step states in run order, intermediate results and the files
// written so far.
type RunState struct {
	mu sync.RWMutex

	ID        string
	Status    RunStatus
	StartTime time.Time
	EndTime   *time.Time
	Error     error

	steps     map[string]*StepState
	order     []string
	dataset   *dataset.Dataset
	results   map[string]interface{}
	artifacts []Artifact
}

// NewRunState creates a new run state
func NewRunState(id string) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		steps:     make(map[string]*StepState),
		results:   make(map[string]interface{}),
	}
}

// Start marks the run as running
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Error = err
}

// Cancel marks the run as cancelled
func (r *RunState) Cancel(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCancelled
	r.Error = err
}

// Duration returns how long the run took, or has taken so far
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}

// GetStep returns the state of a specific Step
func (r *RunState) GetStep(stepID string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.steps[stepID]
}

// SetStep records the state of a Step, keeping first-set order
func (r *RunState) SetStep(stepID string, state *StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.steps[stepID]; !exists {
		r.order = append(r.order, stepID)
	}
	r.steps[stepID] = state
}

// Steps returns the step states in run order
func (r *RunState) Steps() []*StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*StepState, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.steps[id])
	}
	return out
}

// SkippedSteps returns the IDs of steps that were skipped
func (r *RunState) SkippedSteps() []string {
	var skipped []string
	for _, s := range r.Steps() {
		if status, _, _ := s.Snapshot(); status == StepStatusSkipped {
			skipped = append(skipped, s.ID)
		}
	}
	return skipped
}

// Dataset returns the loaded dataset, or nil before the load step
func (r *RunState) Dataset() *dataset.Dataset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dataset
}

// SetDataset installs the loaded dataset
func (r *RunState) SetDataset(ds *dataset.Dataset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dataset = ds
}

// GetResult retrieves an intermediate result
func (r *RunState) GetResult(key string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.results[key]
	return val, ok
}

// SetResult stores an intermediate result for later steps
func (r *RunState) SetResult(key string, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[key] = value
}

// AddArtifact records a file written by step
func (r *RunState) AddArtifact(step, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = append(r.artifacts, Artifact{Step: step, Path: path})
}

// Artifacts returns the files written so far, in write order
func (r *RunState) Artifacts() []Artifact {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Artifact, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}
