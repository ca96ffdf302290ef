package testutil

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saucynandhu/femicideKEanalysis/internal/config"
	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
	"github.com/saucynandhu/femicideKEanalysis/internal/exporter"
	"github.com/saucynandhu/femicideKEanalysis/internal/infrastructure"
	"github.com/saucynandhu/femicideKEanalysis/internal/operations"
)

// CaseHeader is the header row of the sample case sheet
var CaseHeader = []string{
	config.ColumnPublishedDate,
	config.ColumnMurderDate,
	config.ColumnVictimName,
	config.ColumnLocation,
	config.ColumnMedium,
	config.ColumnRelationship,
	config.ColumnModeOfKilling,
	config.ColumnFemicideType,
	config.ColumnCircumstance,
	config.ColumnCourtDate,
	config.ColumnVerdict,
	config.ColumnVerdictDate,
	config.ColumnSentenceYears,
}

// CaseRows is a small case sheet exercising every cleaning rule: synonym
// collapse, placeholders, an ordinal date, an unreadable date and a
// non-numeric sentence.
var CaseRows = [][]string{
	{"2016-03-15", "2016-03-14", "Jane", "Nairobi", "Daily Nation", "Ex-Husband", "Stabbing", "Intimate",
		"stabbed after a quarrel over money", "2016-04-01", "Convicted", "2017-01-01", "15"},
	{"2016-07-02", "July 1st 2016", "Mary", "Mombasa", "The Star", "boyfriend", "strangulation", "intimate",
		"strangled by her boyfriend", "", "nan", "", "life"},
	{"2017-02-02", "2017-02-01", "Ann", "Kisumu", "BBC News", "unknown", "stabbing", "non-intimate",
		"stabbed by a stranger", "", "acquitted", "", ""},
	{"", "not a date", "Grace", "Nakuru", "Citizen Digital", "known to victim", "", "", "", "", "", "", "12.5"},
}

// WriteCaseCSV writes header and rows to a CSV file in dir and returns its path
func WriteCaseCSV(t *testing.T, dir string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, "cases.csv")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := csv.NewWriter(file)
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(rows))
	return path
}

// DropColumn returns header and rows without the named column
func DropColumn(header []string, rows [][]string, name string) ([]string, [][]string) {
	idx := -1
	for i, h := range header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return header, rows
	}

	outHeader := append(append([]string(nil), header[:idx]...), header[idx+1:]...)
	outRows := make([][]string, len(rows))
	for i, row := range rows {
		outRows[i] = append(append([]string(nil), row[:idx]...), row[idx+1:]...)
	}
	return outHeader, outRows
}

// CreateStageOptions wires real loader and writers, a recording renderer and
// fresh metrics around inputFile, with outputs going to outputDir.
func CreateStageOptions(cfg *config.Config, inputFile, outputDir string, renderer *MockRenderer) *operations.StageOptions {
	return &operations.StageOptions{
		Config:    cfg,
		InputFile: inputFile,
		OutputDir: outputDir,
		Loader:    dataset.NewLoader(),
		Renderer:  renderer,
		CSV:       exporter.NewCSVWriter(outputDir, nil),
		Workbook:  exporter.NewWorkbookWriter(outputDir, nil),
		Metrics:   infrastructure.NewRunMetrics(),
	}
}

// CreateSuccessfulStage creates a step that always succeeds
func CreateSuccessfulStage(id, name string, columns ...string) *MockStage {
	return &MockStage{
		IDValue:      id,
		NameValue:    name,
		ColumnsValue: columns,
	}
}

// CreateFailingStage creates a step that always returns an error
func CreateFailingStage(id, name string, errMsg string) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: name,
		ExecuteFunc: func(ctx context.Context, state *operations.RunState) error {
			return errors.New(errMsg)
		},
	}
}

// CreateDatasetStage creates a step that installs ds as the loaded dataset
func CreateDatasetStage(id string, ds *dataset.Dataset) *MockStage {
	return &MockStage{
		IDValue:   id,
		NameValue: "Load " + id,
		ExecuteFunc: func(ctx context.Context, state *operations.RunState) error {
			state.SetDataset(ds)
			return nil
		},
	}
}
