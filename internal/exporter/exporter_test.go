package exporter

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/saucynandhu/femicideKEanalysis/internal/analysis"
	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
	apperrors "github.com/saucynandhu/femicideKEanalysis/internal/errors"
)

func TestCSVWriter_WriteCSV(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewCSVWriter(tempDir, nil)

	tests := []struct {
		name     string
		filePath string
		options  WriteOptions
		validate func(t *testing.T, content []byte)
	}{
		{
			name:     "basic write with headers",
			filePath: "test_basic.csv",
			options: WriteOptions{
				Headers: []string{"Name", "Verdict"},
				Records: [][]string{{"Jane", "convicted"}, {"Mary", "unknown"}},
			},
			validate: func(t *testing.T, content []byte) {
				lines := strings.Split(strings.TrimSpace(string(content)), "\n")
				assert.Equal(t, []string{"Name,Verdict", "Jane,convicted", "Mary,unknown"}, lines)
			},
		},
		{
			name:     "write with BOM prefix",
			filePath: "test_bom.csv",
			options: WriteOptions{
				Headers:   []string{"Verdict"},
				Records:   [][]string{{"acquitted"}},
				BOMPrefix: true,
			},
			validate: func(t *testing.T, content []byte) {
				assert.True(t, bytes.HasPrefix(content, []byte{0xEF, 0xBB, 0xBF}))
				assert.Equal(t, "Verdict\nacquitted\n", string(content[3:]))
			},
		},
		{
			name:     "quotes special characters",
			filePath: "nested/test_special.csv",
			options: WriteOptions{
				Headers: []string{"Circumstance"},
				Records: [][]string{{`argued, then "attacked"`}},
			},
			validate: func(t *testing.T, content []byte) {
				assert.Contains(t, string(content), `"argued, then ""attacked"""`)
			},
		},
		{
			name:     "empty records",
			filePath: "test_empty.csv",
			options:  WriteOptions{Headers: []string{"Col1", "Col2"}},
			validate: func(t *testing.T, content []byte) {
				assert.Equal(t, "Col1,Col2\n", string(content))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fullPath, err := writer.WriteCSV(tt.filePath, tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(tempDir, tt.filePath), fullPath)

			content, err := os.ReadFile(fullPath)
			require.NoError(t, err)
			tt.validate(t, content)
		})
	}
}

func TestCSVWriter_AbsolutePath(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "abs.csv")

	fullPath, err := NewCSVWriter("/does/not/matter", nil).WriteCSV(abs, WriteOptions{Headers: []string{"a"}})

	require.NoError(t, err)
	assert.Equal(t, abs, fullPath)
}

func TestCSVWriter_Failure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewCSVWriter(blocker, nil).WriteCSV("out.csv", WriteOptions{Headers: []string{"a"}})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}

// stubFile records writes and fails on demand.
type stubFile struct {
	bytes.Buffer
	writeErr error
	closeErr error
	closed   int
}

func (f *stubFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.Buffer.Write(p)
}

func (f *stubFile) Close() error {
	f.closed++
	return f.closeErr
}

func TestCSVWriter_CloseErrors(t *testing.T) {
	diskFull := errors.New("no space left on device")

	tests := []struct {
		name        string
		file        *stubFile
		wantMessage string
	}{
		{name: "close fails", file: &stubFile{closeErr: diskFull}, wantMessage: "failed to close CSV file"},
		{name: "write fails", file: &stubFile{writeErr: diskFull, closeErr: errors.New("ignored")}, wantMessage: "failed to flush csv"},
		{name: "clean close", file: &stubFile{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer := NewCSVWriter(t.TempDir(), nil)
			writer.openFile = func(string) (io.WriteCloser, error) { return tt.file, nil }

			fullPath, err := writer.WriteCSV("out.csv", WriteOptions{Headers: []string{"a"}, Records: [][]string{{"1"}}})

			assert.Equal(t, 1, tt.file.closed)
			if tt.wantMessage == "" {
				require.NoError(t, err)
				assert.Equal(t, "a\n1\n", tt.file.String())
				return
			}
			require.Error(t, err)
			assert.Empty(t, fullPath)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
			assert.Contains(t, err.Error(), tt.wantMessage)
			assert.ErrorIs(t, err, diskFull)
		})
	}
}

func TestCSVWriter_WriteDataset(t *testing.T) {
	ds, err := dataset.New([]string{"date of murder", "Verdict", "Years of sentence"})
	require.NoError(t, err)
	require.NoError(t, ds.AppendRow([]dataset.Value{
		dataset.Date(time.Date(2016, 3, 14, 0, 0, 0, 0, time.UTC)), dataset.Text("convicted"), dataset.Number(15),
	}))
	require.NoError(t, ds.AppendRow([]dataset.Value{
		dataset.Missing(), dataset.Text("unknown"), dataset.Number(12.5),
	}))
	require.NoError(t, ds.AddColumn("year", []dataset.Value{dataset.Number(2016), dataset.Missing()}))

	fullPath, err := NewCSVWriter(t.TempDir(), nil).WriteDataset("cleaned.csv", ds)
	require.NoError(t, err)

	content, err := os.ReadFile(fullPath)
	require.NoError(t, err)
	assert.Equal(t,
		"date of murder,Verdict,Years of sentence,year\n"+
			"2016-03-14,convicted,15,2016\n"+
			",unknown,12.5,\n",
		string(content))
}

func TestWorkbookWriter_Write(t *testing.T) {
	dir := t.TempDir()
	trend := analysis.Trend{Years: []analysis.YearCount{{Year: 2016, Count: 2}, {Year: 2017, Count: 1}}, Missing: 1}
	verdicts := analysis.FrequencyTable{{Label: "unknown", Count: 3}, {Label: "convicted", Count: 1}}
	cases := []analysis.HighProfileCase{{Date: time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC), Victim: "Jane", Location: "Nairobi"}}

	fullPath, err := NewWorkbookWriter(dir, nil).Write("summary.xlsx", []Table{
		TrendTable("Cases per year", trend),
		FrequencyTable("Verdicts", "verdict", verdicts),
		SummaryStatsTable("Sentence lengths", analysis.Summarize([]float64{5, 12.5})),
		HighProfileTable("High-profile cases", cases),
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(fullPath)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Cases per year", "Verdicts", "Sentence lengths", "High-profile cases"}, f.GetSheetList())

	rows, err := f.GetRows("Cases per year")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"year", "count"}, {"2016", "2"}, {"2017", "1"}, {"missing", "1"}}, rows)

	rows, err = f.GetRows("Verdicts")
	require.NoError(t, err)
	assert.Equal(t, []string{"unknown", "3"}, rows[1])

	rows, err = f.GetRows("High-profile cases")
	require.NoError(t, err)
	assert.Equal(t, []string{"2018-01-02", "Jane", "Nairobi"}, rows[1])
}

func TestWorkbookWriter_NoTables(t *testing.T) {
	_, err := NewWorkbookWriter(t.TempDir(), nil).Write("empty.xlsx", nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{}

	assert.Equal(t, "Verdicts", sheetName("Verdicts", 0, used))
	assert.Equal(t, "Verdicts 2", sheetName("Verdicts", 1, used))
	assert.Equal(t, "Sheet3", sheetName("", 2, used))

	long := strings.Repeat("x", 40)
	name := sheetName(long, 3, used)
	assert.Len(t, name, maxSheetNameLength)
	again := sheetName(long, 4, used)
	assert.Len(t, again, maxSheetNameLength)
	assert.NotEqual(t, name, again)
}
