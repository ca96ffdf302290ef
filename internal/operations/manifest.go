package operations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunManifest is the machine-readable record of a run written next to the
// artifacts: every step with its final status and every file produced.
type RunManifest struct {
	RunID     string          `json:"run_id"`
	Version   string          `json:"version"`
	InputFile string          `json:"input_file"`
	OutputDir string          `json:"output_dir"`
	StartTime time.Time       `json:"start_time"`
	EndTime   time.Time       `json:"end_time"`
	Duration  string          `json:"duration"`
	Status    RunStatus       `json:"status"`
	Rows      int             `json:"rows"`
	Columns   []string        `json:"columns,omitempty"`
	Steps     []StepExecution `json:"steps"`
	Artifacts []Artifact      `json:"artifacts"`
	Error     string          `json:"error,omitempty"`
}

// StepExecution tracks the execution of a single step
type StepExecution struct {
	StepID   string                 `json:"step_id"`
	StepName string                 `json:"step_name"`
	Status   StepStatus             `json:"status"`
	Duration string                 `json:"duration"`
	Reason   string                 `json:"reason,omitempty"`
	Error    string                 `json:"error,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NewRunManifest snapshots state into a manifest
func NewRunManifest(state *RunState, version, inputFile, outputDir string) *RunManifest {
	m := &RunManifest{
		RunID:     state.ID,
		Version:   version,
		InputFile: inputFile,
		OutputDir: outputDir,
		StartTime: state.StartTime,
		Status:    state.Status,
		Duration:  state.Duration().Round(time.Millisecond).String(),
		Steps:     []StepExecution{},
		Artifacts: state.Artifacts(),
	}
	if state.EndTime != nil {
		m.EndTime = *state.EndTime
	} else {
		m.EndTime = time.Now()
	}
	if state.Error != nil {
		m.Error = state.Error.Error()
	}
	if ds := state.Dataset(); ds != nil {
		m.Rows = ds.Len()
		m.Columns = ds.Columns()
	}

	for _, s := range state.Steps() {
		status, message, meta := s.Snapshot()
		exec := StepExecution{
			StepID:   s.ID,
			StepName: s.Name,
			Status:   status,
			Duration: s.Duration().Round(time.Millisecond).String(),
		}
		if len(meta) > 0 {
			exec.Metadata = meta
		}
		switch status {
		case StepStatusSkipped:
			exec.Reason = message
		case StepStatusFailed:
			if s.Error != nil {
				exec.Error = s.Error.Error()
			}
		}
		m.Steps = append(m.Steps, exec)
	}
	return m
}

// SaveToFile writes the manifest as indented JSON, replacing any previous file
func (m *RunManifest) SaveToFile(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace manifest file: %w", err)
	}

	return nil
}
