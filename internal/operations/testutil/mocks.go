package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/saucynandhu/femicideKEanalysis/internal/operations"
	"github.com/saucynandhu/femicideKEanalysis/internal/render"
)

// MockStage is a configurable mock implementation of the step interface
type MockStage struct {
	IDValue      string
	NameValue    string
	ColumnsValue []string

	// Configurable functions
	ExecuteFunc func(ctx context.Context, state *operations.RunState) error

	// Call tracking
	mu           sync.Mutex
	ExecuteCalls int
}

// ID returns the step ID
func (m *MockStage) ID() string {
	return m.IDValue
}

// Name returns the step name
func (m *MockStage) Name() string {
	return m.NameValue
}

// RequiredColumns returns the configured columns
func (m *MockStage) RequiredColumns() []string {
	return m.ColumnsValue
}

// Execute runs the mock execute function
func (m *MockStage) Execute(ctx context.Context, state *operations.RunState) error {
	m.mu.Lock()
	m.ExecuteCalls++
	m.mu.Unlock()

	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, state)
	}
	return nil
}

// Calls returns how many times Execute ran
func (m *MockStage) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ExecuteCalls
}

// MockRenderer records chart specs and writes a placeholder file per chart
// instead of drawing.
type MockRenderer struct {
	mu sync.Mutex

	Lines      map[string]render.LineChart
	Bars       map[string]render.BarChart
	Histograms map[string]render.Histogram
	Clouds     map[string]render.WordCloud
	Timelines  map[string]render.Timeline

	// FailOn makes the chart written to a path with this base name fail.
	FailOn string
}

// NewMockRenderer creates an empty recording renderer
func NewMockRenderer() *MockRenderer {
	return &MockRenderer{
		Lines:      make(map[string]render.LineChart),
		Bars:       make(map[string]render.BarChart),
		Histograms: make(map[string]render.Histogram),
		Clouds:     make(map[string]render.WordCloud),
		Timelines:  make(map[string]render.Timeline),
	}
}

func (r *MockRenderer) write(path string) error {
	if r.FailOn != "" && filepath.Base(path) == r.FailOn {
		return fmt.Errorf("mock render failure for %s", r.FailOn)
	}
	return os.WriteFile(path, []byte("png"), 0644)
}

// LineChart records the chart
func (r *MockRenderer) LineChart(path string, c render.LineChart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines[filepath.Base(path)] = c
	return r.write(path)
}

// BarChart records the chart
func (r *MockRenderer) BarChart(path string, c render.BarChart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Bars[filepath.Base(path)] = c
	return r.write(path)
}

// Histogram records the chart
func (r *MockRenderer) Histogram(path string, c render.Histogram) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Histograms[filepath.Base(path)] = c
	return r.write(path)
}

// WordCloud records the chart
func (r *MockRenderer) WordCloud(path string, c render.WordCloud) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Clouds[filepath.Base(path)] = c
	return r.write(path)
}

// Timeline records the chart
func (r *MockRenderer) Timeline(path string, c render.Timeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Timelines[filepath.Base(path)] = c
	return r.write(path)
}
