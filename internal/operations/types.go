package operations

// Step identifiers, in run order
const (
	StepIDLoad            = "load"
	StepIDNormalizeText   = "normalize_text"
	StepIDResolveMissing  = "resolve_missing"
	StepIDParseDates      = "parse_dates"
	StepIDCoerceSentence  = "coerce_sentence"
	StepIDYearlyTrend     = "yearly_trend"
	StepIDTopModes        = "top_modes"
	StepIDRelationships   = "relationships"
	StepIDVerdicts        = "verdicts"
	StepIDSentenceLengths = "sentence_lengths"
	StepIDCircumstances   = "circumstance_cloud"
	StepIDHighProfile     = "high_profile_timeline"
	StepIDExportCleaned   = "export_cleaned"
	StepIDSummaryWorkbook = "summary_workbook"
)

// Step names
const (
	StepNameLoad            = "Load Dataset"
	StepNameNormalizeText   = "Normalize Text Fields"
	StepNameResolveMissing  = "Resolve Missing Categories"
	StepNameParseDates      = "Parse Dates"
	StepNameCoerceSentence  = "Coerce Sentence Lengths"
	StepNameYearlyTrend     = "Cases Per Year"
	StepNameTopModes        = "Top Modes of Killing"
	StepNameRelationships   = "Suspect Relationships"
	StepNameVerdicts        = "Verdict Distribution"
	StepNameSentenceLengths = "Sentence Length Distribution"
	StepNameCircumstances   = "Circumstance Word Cloud"
	StepNameHighProfile     = "High-Profile Timeline"
	StepNameExportCleaned   = "Export Cleaned Dataset"
	StepNameSummaryWorkbook = "Summary Workbook"
)

// Result keys for data passed between steps
const (
	ResultKeyTrend         = "yearly_trend"
	ResultKeyTopModes      = "top_modes"
	ResultKeyRelationships = "relationships"
	ResultKeyVerdicts      = "verdicts"
	ResultKeySentences     = "sentence_summary"
	ResultKeyWords         = "circumstance_words"
	ResultKeyHighProfile   = "high_profile_cases"
)

// RunStatus is the overall status of a run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)
