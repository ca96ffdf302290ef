package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/saucynandhu/femicideKEanalysis/internal/errors"
)

const (
	maxSheetNameLength = 31
	minColumnWidth     = 8
	maxColumnWidth     = 60
)

// Table is one worksheet of the summary workbook.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]interface{}
}

// WorkbookWriter writes summary tables into an .xlsx file, one sheet each.
type WorkbookWriter struct {
	outputDir string
	logger    *slog.Logger
}

// NewWorkbookWriter creates a writer resolving relative names against outputDir.
func NewWorkbookWriter(outputDir string, logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{outputDir: outputDir, logger: logger}
}

// Write saves tables to filePath and returns the full path. The header row is
// bold and frozen; column widths follow the longest cell.
func (w *WorkbookWriter) Write(filePath string, tables []Table) (string, error) {
	if len(tables) == 0 {
		return "", apperrors.NewValidationError("summary workbook needs at least one table")
	}

	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(w.outputDir, filePath)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return "", apperrors.NewStorageError("failed to create header style", err)
	}

	defaultSheet := f.GetSheetName(0)
	used := make(map[string]bool, len(tables))
	for i, table := range tables {
		name := sheetName(table.Sheet, i, used)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return "", apperrors.NewStorageError("failed to rename sheet", err).WithContext("sheet", name)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return "", apperrors.NewStorageError("failed to add sheet", err).WithContext("sheet", name)
		}

		if err := writeTable(f, name, table, headerStyle); err != nil {
			return "", err
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(fullPath); err != nil {
		return "", apperrors.NewStorageError("failed to save workbook", err).WithContext("path", fullPath)
	}

	w.logger.Info("Summary workbook written",
		slog.String("full_path", fullPath),
		slog.Int("sheets", len(tables)))
	return fullPath, nil
}

func writeTable(f *excelize.File, sheet string, table Table, headerStyle int) error {
	widths := make([]int, len(table.Headers))
	for i, h := range table.Headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewStorageError("failed to write header row", err).WithContext("sheet", sheet)
	}

	for r, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return apperrors.NewStorageError("invalid cell reference", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write row %d", r+1), err).WithContext("sheet", sheet)
		}
		for c, v := range row {
			if c < len(widths) {
				if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[c] {
					widths[c] = n
				}
			}
		}
	}

	if len(table.Headers) == 0 {
		return nil
	}

	last, err := excelize.CoordinatesToCellName(len(table.Headers), 1)
	if err != nil {
		return apperrors.NewStorageError("invalid cell reference", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return apperrors.NewStorageError("failed to style header", err).WithContext("sheet", sheet)
	}

	for c, width := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return apperrors.NewStorageError("invalid column", err)
		}
		if err := f.SetColWidth(sheet, col, col, clampWidth(width+2)); err != nil {
			return apperrors.NewStorageError("failed to size column", err).WithContext("sheet", sheet)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// sheetName trims a requested name to Excel's limit and makes it unique.
func sheetName(requested string, index int, used map[string]bool) string {
	name := requested
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	if utf8.RuneCountInString(name) > maxSheetNameLength {
		name = string([]rune(name)[:maxSheetNameLength])
	}
	base := name
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" %d", n)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetNameLength {
			runes = runes[:maxSheetNameLength-len(suffix)]
		}
		name = string(runes) + suffix
	}
	used[name] = true
	return name
}

func clampWidth(w int) float64 {
	switch {
	case w < minColumnWidth:
		return minColumnWidth
	case w > maxColumnWidth:
		return maxColumnWidth
	default:
		return float64(w)
	}
}
