package config

// Application constants
const (
	AppName    = "femstats"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment override, e.g. FEMSTATS_PATHS_OUTPUT_DIR.
	EnvPrefix = "FEMSTATS"

	// File Paths (input is relative to the working or executable directory)
	DefaultInputFile = "dataset.xlsx"
	DefaultOutputDir = "femicide_analysis_outputs"
	DefaultLogsDir   = "logs"
	DefaultLogFile   = "femstats.log"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Cleaning
	DefaultSentinel = "unknown"

	// Reports
	DefaultTopN              = 10
	DefaultHistogramBins     = 20
	DefaultWordCloudMaxWords = 150
)

// Source column headers of the femicide dataset.
const (
	ColumnRelationship  = "suspect relationship"
	ColumnModeOfKilling = "Mode of killing"
	ColumnFemicideType  = "Type of femicide"
	ColumnVerdict       = "Verdict"
	ColumnPublishedDate = "published_date"
	ColumnMurderDate    = "date of murder"
	ColumnCourtDate     = "Court date (first appearance)"
	ColumnVerdictDate   = "verdict date"
	ColumnSentenceYears = "Years of sentence"
	ColumnCircumstance  = "Circumstance"
	ColumnMedium        = "medium"
	ColumnVictimName    = "name of victim"
	ColumnLocation      = "Location"
	ColumnYear          = "year"
)

// Output artifact file names, all written into the output directory.
const (
	ArtifactCasesPerYear     = "cases_per_year.png"
	ArtifactTopModes         = "top_modes_of_killing.png"
	ArtifactRelationships    = "relationship_distribution.png"
	ArtifactVerdicts         = "verdicts.png"
	ArtifactSentenceLengths  = "sentence_lengths.png"
	ArtifactWordCloud        = "circumstance_wordcloud.png"
	ArtifactTimeline         = "high_profile_timeline.png"
	ArtifactCleanedCSV       = "cleaned_femicide_data.csv"
	ArtifactSummaryWorkbook  = "summary_tables.xlsx"
	ArtifactRunManifest      = "run_manifest.json"
	DefaultMetricsFile       = "metrics.prom"
	DefaultTraceFile         = ""
)

// DefaultPlaceholders are the textual markers treated as missing in categorical columns.
var DefaultPlaceholders = []string{"nan", "none", "null", ""}

// DefaultOutletFilters are the outlet names that mark a case as high profile.
var DefaultOutletFilters = []string{"Nation", "Citizen", "BBC"}

// DefaultSynonymRules is the canonicalization table applied to text columns.
func DefaultSynonymRules() []SynonymRule {
	return []SynonymRule{
		{Canonical: "husband", Synonyms: []string{"husband", "ex-husband", "former husband"}},
		{Canonical: "boyfriend", Synonyms: []string{"boyfriend", "ex-boyfriend", "former boyfriend"}},
		{Canonical: "partner", Synonyms: []string{"partner", "domestic partner"}},
		{Canonical: "acquaintance", Synonyms: []string{"acquaintance", "known", "known to victim"}},
		{Canonical: "stranger", Synonyms: []string{"stranger", "unknown"}},
		{Canonical: "family member", Synonyms: []string{"family member", "relative"}},
		{Canonical: "neighbor", Synonyms: []string{"neighbor", "neighbour"}},
		{Canonical: "friend", Synonyms: []string{"friend", "friends"}},
		{Canonical: "coworker", Synonyms: []string{"co-worker", "colleague"}},
	}
}
