package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Columns   ColumnsConfig   `yaml:"columns" envconfig:"COLUMNS"`
	Cleaning  CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Reports   ReportsConfig   `yaml:"reports" envconfig:"REPORTS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputFile string `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	SheetName string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// ColumnsConfig maps each logical field to the header used in the source sheet.
type ColumnsConfig struct {
	Relationship  string `yaml:"relationship" envconfig:"RELATIONSHIP" validate:"required"`
	ModeOfKilling string `yaml:"mode_of_killing" envconfig:"MODE_OF_KILLING" validate:"required"`
	FemicideType  string `yaml:"femicide_type" envconfig:"FEMICIDE_TYPE" validate:"required"`
	Verdict       string `yaml:"verdict" envconfig:"VERDICT" validate:"required"`
	PublishedDate string `yaml:"published_date" envconfig:"PUBLISHED_DATE" validate:"required"`
	MurderDate    string `yaml:"murder_date" envconfig:"MURDER_DATE" validate:"required"`
	CourtDate     string `yaml:"court_date" envconfig:"COURT_DATE" validate:"required"`
	VerdictDate   string `yaml:"verdict_date" envconfig:"VERDICT_DATE" validate:"required"`
	SentenceYears string `yaml:"sentence_years" envconfig:"SENTENCE_YEARS" validate:"required"`
	Circumstance  string `yaml:"circumstance" envconfig:"CIRCUMSTANCE" validate:"required"`
	Medium        string `yaml:"medium" envconfig:"MEDIUM" validate:"required"`
	VictimName    string `yaml:"victim_name" envconfig:"VICTIM_NAME" validate:"required"`
	Location      string `yaml:"location" envconfig:"LOCATION" validate:"required"`
	Year          string `yaml:"year" envconfig:"YEAR" validate:"required"`
}

// SynonymRule collapses a group of phrases to one canonical label.
type SynonymRule struct {
	Canonical string   `yaml:"canonical" validate:"required"`
	Synonyms  []string `yaml:"synonyms" validate:"min=1,dive,required"`
}

// CleaningConfig drives the text normalizer, missing-value resolver and date parser.
// The column lists are optional overrides; when empty they follow ColumnsConfig,
// see Config.TextColumns, CategoricalColumns and DateColumns.
type CleaningConfig struct {
	TextColumns        []string      `yaml:"text_columns" envconfig:"TEXT_COLUMNS"`
	CategoricalColumns []string      `yaml:"categorical_columns" envconfig:"CATEGORICAL_COLUMNS"`
	DateColumns        []string      `yaml:"date_columns" envconfig:"DATE_COLUMNS"`
	Sentinel           string        `yaml:"sentinel" envconfig:"SENTINEL" validate:"required"`
	Placeholders       []string      `yaml:"placeholders" envconfig:"PLACEHOLDERS"`
	DayFirst           bool          `yaml:"day_first" envconfig:"DAY_FIRST"`
	SynonymRules       []SynonymRule `yaml:"synonym_rules" ignored:"true" validate:"dive"`
}

// ReportsConfig contains aggregation and artifact options.
type ReportsConfig struct {
	TopN              int      `yaml:"top_n" envconfig:"TOP_N" validate:"min=1"`
	HistogramBins     int      `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS" validate:"min=1"`
	WordCloudMaxWords int      `yaml:"word_cloud_max_words" envconfig:"WORD_CLOUD_MAX_WORDS" validate:"min=1"`
	OutletFilters     []string `yaml:"outlet_filters" envconfig:"OUTLET_FILTERS" validate:"dive,required"`
	SummaryWorkbook   bool     `yaml:"summary_workbook" envconfig:"SUMMARY_WORKBOOK"`
	Strict            bool     `yaml:"strict" envconfig:"STRICT"`
}

// TelemetryConfig names the optional run telemetry files, relative to the output directory.
type TelemetryConfig struct {
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// FEMSTATS_* environment variables, in increasing order of precedence.
// An empty configFile falls back to the well-known locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct constraints and normalizes a few fields.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))

	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if len(c.Cleaning.SynonymRules) == 0 {
		return fmt.Errorf("at least one synonym rule must be configured")
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogsDir + "/" + DefaultLogFile
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"femstats.yaml",
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	columns := ColumnsConfig{
		Relationship:  ColumnRelationship,
		ModeOfKilling: ColumnModeOfKilling,
		FemicideType:  ColumnFemicideType,
		Verdict:       ColumnVerdict,
		PublishedDate: ColumnPublishedDate,
		MurderDate:    ColumnMurderDate,
		CourtDate:     ColumnCourtDate,
		VerdictDate:   ColumnVerdictDate,
		SentenceYears: ColumnSentenceYears,
		Circumstance:  ColumnCircumstance,
		Medium:        ColumnMedium,
		VictimName:    ColumnVictimName,
		Location:      ColumnLocation,
		Year:          ColumnYear,
	}

	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: DefaultLogsDir + "/" + DefaultLogFile,
		},
		Paths: PathsConfig{
			InputFile: DefaultInputFile,
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Columns: columns,
		Cleaning: CleaningConfig{
			Sentinel:     DefaultSentinel,
			Placeholders: append([]string(nil), DefaultPlaceholders...),
			SynonymRules: DefaultSynonymRules(),
		},
		Reports: ReportsConfig{
			TopN:              DefaultTopN,
			HistogramBins:     DefaultHistogramBins,
			WordCloudMaxWords: DefaultWordCloudMaxWords,
			OutletFilters:     append([]string(nil), DefaultOutletFilters...),
			SummaryWorkbook:   true,
		},
		Telemetry: TelemetryConfig{
			MetricsFile: DefaultMetricsFile,
			TraceFile:   DefaultTraceFile,
		},
	}
}

// categoricalColumns are the free-text category fields of the mapped sheet
func (c ColumnsConfig) categoricalColumns() []string {
	return []string{c.Relationship, c.ModeOfKilling, c.FemicideType, c.Verdict}
}

// TextColumns returns the columns to normalize: the explicit cleaning list if
// set, otherwise the mapped categorical columns.
func (c *Config) TextColumns() []string {
	if len(c.Cleaning.TextColumns) > 0 {
		return append([]string(nil), c.Cleaning.TextColumns...)
	}
	return c.Columns.categoricalColumns()
}

// CategoricalColumns returns the columns whose missing values become the
// sentinel: the explicit cleaning list if set, otherwise the mapped categorical columns.
func (c *Config) CategoricalColumns() []string {
	if len(c.Cleaning.CategoricalColumns) > 0 {
		return append([]string(nil), c.Cleaning.CategoricalColumns...)
	}
	return c.Columns.categoricalColumns()
}

// DateColumns returns the columns to parse as dates. The mapped murder date
// is always included because the year is derived from it.
func (c *Config) DateColumns() []string {
	cols := c.Cleaning.DateColumns
	if len(cols) == 0 {
		cols = []string{c.Columns.PublishedDate, c.Columns.MurderDate, c.Columns.CourtDate, c.Columns.VerdictDate}
	}
	out := append([]string(nil), cols...)
	if !slices.Contains(out, c.Columns.MurderDate) {
		out = append(out, c.Columns.MurderDate)
	}
	return out
}
