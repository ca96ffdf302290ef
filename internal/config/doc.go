// Package config provides centralized configuration management for femstats.
// It handles loading configuration from multiple sources, validation, and
// path resolution for the input workbook and the output directory.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags (applied by cmd/femstats)
//	2. Environment variables
//	3. YAML configuration file
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FEMSTATS_* for namespacing:
//
//	FEMSTATS_PATHS_INPUT_FILE=/data/dataset.xlsx
//	FEMSTATS_PATHS_OUTPUT_DIR=out
//	FEMSTATS_LOGGING_LEVEL=debug
//	FEMSTATS_REPORTS_OUTLET_FILTERS=Nation,Citizen,BBC,Standard
//
// The synonym table can only be overridden from the YAML file:
//
//	cleaning:
//	  synonym_rules:
//	    - canonical: husband
//	      synonyms: [husband, ex-husband, former husband]
//
// # Column Mapping
//
// ColumnsConfig maps each logical field (relationship, murder date, medium...)
// to the header used in the source sheet, so the pipeline is not tied to one
// spreadsheet layout.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.ResolvePaths(cfg.Paths)
package config
