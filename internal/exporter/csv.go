package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
	apperrors "github.com/saucynandhu/femicideKEanalysis/internal/errors"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	outputDir string
	logger    *slog.Logger
	openFile  func(path string) (io.WriteCloser, error)
}

// NewCSVWriter creates a writer resolving relative file names against outputDir
func NewCSVWriter(outputDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{outputDir: outputDir, logger: logger, openFile: createFile}
}

func createFile(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options and returns the
// full path written.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create directory", err).WithContext("path", fullPath)
	}

	file, err := w.openFile(fullPath)
	if err != nil {
		return "", apperrors.NewStorageError("failed to open file", err).WithContext("path", fullPath)
	}

	if err := writeRecords(file, options); err != nil {
		file.Close()
		return "", err.WithContext("path", fullPath)
	}
	if err := file.Close(); err != nil {
		return "", apperrors.NewStorageError("failed to close CSV file", err).WithContext("path", fullPath)
	}
	return fullPath, nil
}

func writeRecords(out io.Writer, options WriteOptions) *apperrors.AppError {
	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(out)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return apperrors.NewStorageError("failed to write headers", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return apperrors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush csv", err)
	}
	return nil
}

// WriteDataset exports every column of ds, header first, values rendered
// with dataset.Value.String: missing as empty, dates as ISO dates.
func (w *CSVWriter) WriteDataset(filePath string, ds *dataset.Dataset) (string, error) {
	return w.WriteCSV(filePath, WriteOptions{
		Headers: ds.Columns(),
		Records: ds.Records(),
	})
}

// resolvePath keeps absolute paths and places relative ones in the output directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(w.outputDir, filePath)
}
