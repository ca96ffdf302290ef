// Package exporter writes the tabular outputs of an analysis run.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers and an
// optional UTF-8 BOM for Excel compatibility. WriteDataset exports a cleaned
// dataset with missing values as empty cells and dates in ISO form.
//
// WorkbookWriter: Writes summary tables into an .xlsx workbook, one sheet per
// table, with a bold frozen header row.
//
// Example usage:
//
//	csvWriter := exporter.NewCSVWriter(outputDir, logger)
//	path, err := csvWriter.WriteDataset("cleaned_femicide_data.csv", ds)
//
//	books := exporter.NewWorkbookWriter(outputDir, logger)
//	path, err = books.Write("summary_tables.xlsx", []exporter.Table{
//	    exporter.TrendTable("Cases per year", trend),
//	    exporter.FrequencyTable("Verdicts", "verdict", verdicts),
//	})
package exporter
