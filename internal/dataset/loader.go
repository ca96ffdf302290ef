package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/saucynandhu/femicideKEanalysis/internal/errors"
)

// Loader reads a spreadsheet into a Dataset.
type Loader struct {
	sheetName string
	logger    *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithSheet selects a worksheet by name instead of the first sheet with data.
func WithSheet(name string) LoaderOption {
	return func(l *Loader) { l.sheetName = name }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the file at path. .xlsx/.xlsm workbooks go through excelize,
// .csv files through encoding/csv.
func (l *Loader) Load(path string) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewNotFoundError(path)
		}
		return nil, apperrors.NewStorageError("failed to stat input file", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx":
		return l.loadWorkbook(path)
	case ".csv":
		return l.loadCSV(path)
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported input format %q", filepath.Ext(path))).
			WithContext("path", path)
	}
}

func (l *Loader) loadWorkbook(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open workbook", err).WithContext("path", path)
	}
	defer f.Close()

	sheet, rows, err := l.findSheet(f)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Found case data in sheet",
		slog.String("sheet_name", sheet),
		slog.Int("total_rows", len(rows)))

	return l.build(rows, path, workbookCell(f, sheet))
}

// workbookCell keeps cells stored as strings as text, so "2016" typed as text
// is not read as a number. Other cells go through InferValue.
func workbookCell(f *excelize.File, sheet string) func(row, col int, raw string) Value {
	return func(row, col int, raw string) Value {
		if raw == "" {
			return Missing()
		}
		ref, err := excelize.CoordinatesToCellName(col+1, row+1)
		if err != nil {
			return InferValue(raw)
		}
		cellType, err := f.GetCellType(sheet, ref)
		if err != nil {
			return InferValue(raw)
		}
		switch cellType {
		case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeBool:
			return Text(raw)
		default:
			return InferValue(raw)
		}
	}
}

// inferCell types a cell from its text alone.
func inferCell(_, _ int, raw string) Value {
	return InferValue(raw)
}

// findSheet returns the configured sheet, or the first sheet with at least one non-empty row.
func (l *Loader) findSheet(f *excelize.File) (string, [][]string, error) {
	// Raw values keep date cells as serial numbers; the temporal parser converts them.
	opts := excelize.Options{RawCellValue: true}

	if l.sheetName != "" {
		rows, err := f.GetRows(l.sheetName, opts)
		if err != nil {
			return "", nil, apperrors.NewParsingError(fmt.Sprintf("could not read sheet %q", l.sheetName), err)
		}
		return l.sheetName, rows, nil
	}

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, opts)
		if err != nil {
			l.logger.Warn("Skipping unreadable sheet",
				slog.String("sheet_name", name),
				slog.String("error", err.Error()))
			continue
		}
		if headerIndex(rows) >= 0 {
			return name, rows, nil
		}
	}

	return "", nil, apperrors.NewParsingError("could not find a sheet with case data in workbook", nil)
}

func (l *Loader) loadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open csv", err).WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read csv", err).WithContext("path", path)
		}
		rows = append(rows, record)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}

	return l.build(rows, path, inferCell)
}

// build turns raw rows into a Dataset. The first non-empty row is the header;
// blank rows after it are dropped. cell types each data cell by its position
// in rows.
func (l *Loader) build(rows [][]string, path string, cell func(row, col int, raw string) Value) (*Dataset, error) {
	header := headerIndex(rows)
	if header < 0 {
		return nil, apperrors.NewParsingError("could not find header row", nil).WithContext("path", path)
	}

	names := headerNames(rows[header])
	ds, err := New(names)
	if err != nil {
		return nil, apperrors.NewParsingError("invalid header row", err).WithContext("path", path)
	}

	skipped := 0
	for i := header + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			skipped++
			continue
		}
		if len(row) > len(names) {
			// Cells to the right of the header carry no column name.
			row = row[:len(names)]
		}
		values := make([]Value, len(row))
		for j, raw := range row {
			values[j] = cell(i, j, raw)
		}
		if err := ds.AppendRow(values); err != nil {
			return nil, apperrors.NewParsingError("invalid data row", err).WithContext("row", i+1)
		}
	}

	l.logger.Info("Dataset loaded",
		slog.String("path", path),
		slog.Int("columns", len(names)),
		slog.Int("rows", ds.Len()),
		slog.Int("blank_rows_skipped", skipped))

	return ds, nil
}

func headerIndex(rows [][]string) int {
	for i, row := range rows {
		if !isBlank(row) {
			return i
		}
	}
	return -1
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// headerNames trims header cells, names empty ones "Unnamed: N" and
// suffixes duplicates with ".1", ".2", ...
func headerNames(row []string) []string {
	// Trailing empty header cells are layout noise, not columns.
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}

	names := make([]string, 0, end)
	used := make(map[string]bool, end)
	for i := 0; i < end; i++ {
		base := strings.TrimSpace(row[i])
		if base == "" {
			base = fmt.Sprintf("Unnamed: %d", i)
		}
		name := base
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", base, n)
		}
		used[name] = true
		names = append(names, name)
	}
	return names
}
