package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/saucynandhu/femicideKEanalysis/internal/analysis"
	"github.com/saucynandhu/femicideKEanalysis/internal/cleaning"
	"github.com/saucynandhu/femicideKEanalysis/internal/config"
	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
	apperrors "github.com/saucynandhu/femicideKEanalysis/internal/errors"
	"github.com/saucynandhu/femicideKEanalysis/internal/exporter"
	"github.com/saucynandhu/femicideKEanalysis/internal/infrastructure"
	"github.com/saucynandhu/femicideKEanalysis/internal/render"
	"github.com/saucynandhu/femicideKEanalysis/internal/temporal"
)

// StageOptions carries the collaborators every step needs
type StageOptions struct {
	Config    *config.Config
	InputFile string
	OutputDir string
	Loader    *dataset.Loader
	Renderer  render.Renderer
	CSV       *exporter.CSVWriter
	Workbook  *exporter.WorkbookWriter
	Metrics   *infrastructure.RunMetrics
	Logger    *slog.Logger
}

func (o *StageOptions) artifactPath(name string) string {
	return filepath.Join(o.OutputDir, name)
}

func (o *StageOptions) recordArtifact(state *RunState, stepID, path string) {
	state.AddArtifact(stepID, path)
	if o.Metrics != nil {
		o.Metrics.ArtifactsWritten.Inc()
	}
	o.Logger.Info("Artifact written",
		slog.String("step", stepID),
		slog.String("path", path))
}

// column fetches a column the manager already checked for
func column(state *RunState, name string) ([]dataset.Value, error) {
	ds := state.Dataset()
	if ds == nil {
		return nil, NewFatalError("dataset not loaded", nil)
	}
	values, ok := ds.Column(name)
	if !ok {
		return nil, apperrors.NewSchemaError(name)
	}
	return values, nil
}

// LoadStage reads the input spreadsheet into the run state
type LoadStage struct {
	BaseStage
	opts *StageOptions
}

// NewLoadStage creates the load step
func NewLoadStage(opts *StageOptions) *LoadStage {
	return &LoadStage{
		BaseStage: NewBaseStage(StepIDLoad, StepNameLoad),
		opts:      opts,
	}
}

// Execute loads the dataset. Any loader error is fatal for the run.
func (s *LoadStage) Execute(ctx context.Context, state *RunState) error {
	ds, err := s.opts.Loader.Load(s.opts.InputFile)
	if err != nil {
		return err
	}
	state.SetDataset(ds)

	if s.opts.Metrics != nil {
		s.opts.Metrics.RowsLoaded.Set(float64(ds.Len()))
	}
	stepState := state.GetStep(s.ID())
	stepState.SetMetadata("rows", ds.Len())
	stepState.SetMetadata("columns", len(ds.Columns()))

	s.opts.Logger.InfoContext(ctx, "Dataset loaded",
		slog.String("input_file", s.opts.InputFile),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(ds.Columns())))
	return nil
}

// NormalizeTextStage canonicalizes the designated free-text columns
type NormalizeTextStage struct {
	BaseStage
	opts       *StageOptions
	normalizer *cleaning.Normalizer
}

// NewNormalizeTextStage creates the normalization step
func NewNormalizeTextStage(opts *StageOptions, rules *cleaning.RuleSet) *NormalizeTextStage {
	return &NormalizeTextStage{
		BaseStage:  NewBaseStage(StepIDNormalizeText, StepNameNormalizeText),
		opts:       opts,
		normalizer: cleaning.NewNormalizer(rules),
	}
}

// Execute normalizes each designated column present in the dataset. Absent
// columns are recorded and left alone.
func (s *NormalizeTextStage) Execute(ctx context.Context, state *RunState) error {
	ds := state.Dataset()
	if ds == nil {
		return NewFatalError("dataset not loaded", nil)
	}

	changed := make(map[string]int)
	var absent []string
	for _, name := range s.opts.Config.TextColumns() {
		values, ok := ds.Column(name)
		if !ok {
			absent = append(absent, name)
			continue
		}
		normalized, n := s.normalizer.NormalizeColumn(values)
		if err := ds.SetColumn(name, normalized); err != nil {
			return err
		}
		changed[name] = n
	}

	stepState := state.GetStep(s.ID())
	stepState.SetMetadata("changed", changed)
	if len(absent) > 0 {
		stepState.SetMetadata("absent_columns", absent)
		s.opts.Logger.WarnContext(ctx, "Text columns not found, left unnormalized",
			slog.Any("columns", absent))
	}
	return nil
}

// ResolveMissingStage maps missing and placeholder categories to the sentinel
type ResolveMissingStage struct {
	BaseStage
	opts     *StageOptions
	resolver *cleaning.MissingResolver
}

// NewResolveMissingStage creates the missing-value step
func NewResolveMissingStage(opts *StageOptions) *ResolveMissingStage {
	cleaningCfg := opts.Config.Cleaning
	return &ResolveMissingStage{
		BaseStage: NewBaseStage(StepIDResolveMissing, StepNameResolveMissing),
		opts:      opts,
		resolver:  cleaning.NewMissingResolver(cleaningCfg.Sentinel, cleaningCfg.Placeholders),
	}
}

// Execute resolves each designated categorical column present in the dataset
func (s *ResolveMissingStage) Execute(ctx context.Context, state *RunState) error {
	ds := state.Dataset()
	if ds == nil {
		return NewFatalError("dataset not loaded", nil)
	}

	resolved := make(map[string]int)
	var absent []string
	for _, name := range s.opts.Config.CategoricalColumns() {
		values, ok := ds.Column(name)
		if !ok {
			absent = append(absent, name)
			continue
		}
		out, n := s.resolver.ResolveColumn(values)
		if err := ds.SetColumn(name, out); err != nil {
			return err
		}
		resolved[name] = n
		if s.opts.Metrics != nil {
			s.opts.Metrics.ValuesResolved.WithLabelValues(name).Add(float64(n))
		}
	}

	stepState := state.GetStep(s.ID())
	stepState.SetMetadata("resolved", resolved)
	if len(absent) > 0 {
		stepState.SetMetadata("absent_columns", absent)
		s.opts.Logger.WarnContext(ctx, "Categorical columns not found, left unresolved",
			slog.Any("columns", absent))
	}
	return nil
}

// ParseDatesStage converts the date columns and derives the year column
type ParseDatesStage struct {
	BaseStage
	opts   *StageOptions
	parser *temporal.Parser
}

// NewParseDatesStage creates the date parsing step
func NewParseDatesStage(opts *StageOptions) *ParseDatesStage {
	return &ParseDatesStage{
		BaseStage: NewBaseStage(StepIDParseDates, StepNameParseDates),
		opts:      opts,
		parser:    temporal.NewParser(opts.Config.Cleaning.DayFirst),
	}
}

// Execute parses every date column present. Unreadable values become
// missing and are counted, never fatal. The year column is derived from the
// murder date when that column exists.
func (s *ParseDatesStage) Execute(ctx context.Context, state *RunState) error {
	ds := state.Dataset()
	if ds == nil {
		return NewFatalError("dataset not loaded", nil)
	}
	stepState := state.GetStep(s.ID())

	coerced := make(map[string]int)
	var absent []string
	for _, name := range s.opts.Config.DateColumns() {
		values, ok := ds.Column(name)
		if !ok {
			absent = append(absent, name)
			continue
		}
		parsed, stats := s.parser.ParseColumn(values)
		if err := ds.SetColumn(name, parsed); err != nil {
			return err
		}
		coerced[name] = stats.Coerced
		if s.opts.Metrics != nil {
			s.opts.Metrics.ValuesCoerced.WithLabelValues(name).Add(float64(stats.Coerced))
		}
		if stats.Coerced > 0 {
			s.opts.Logger.WarnContext(ctx, "Unparseable dates coerced to missing",
				slog.String("column", name),
				slog.Int("coerced", stats.Coerced),
				slog.Int("parsed", stats.Parsed),
				slog.Any("samples", stats.Samples))
		}
	}
	stepState.SetMetadata("coerced", coerced)
	if len(absent) > 0 {
		stepState.SetMetadata("absent_columns", absent)
		s.opts.Logger.WarnContext(ctx, "Date columns not found",
			slog.Any("columns", absent))
	}

	cols := s.opts.Config.Columns
	murder, ok := ds.Column(cols.MurderDate)
	if !ok {
		stepState.SetMetadata("year_derived", false)
		s.opts.Logger.WarnContext(ctx, "Murder date column not found, year not derived",
			slog.String("column", cols.MurderDate))
		return nil
	}

	years := temporal.DeriveYear(murder)
	var err error
	if ds.HasColumn(cols.Year) {
		err = ds.SetColumn(cols.Year, years)
	} else {
		err = ds.AddColumn(cols.Year, years)
	}
	if err != nil {
		return err
	}
	stepState.SetMetadata("year_derived", true)
	return nil
}

// CoerceSentenceStage turns the sentence column into numbers
type CoerceSentenceStage struct {
	BaseStage
	opts *StageOptions
}

// NewCoerceSentenceStage creates the sentence coercion step
func NewCoerceSentenceStage(opts *StageOptions) *CoerceSentenceStage {
	return &CoerceSentenceStage{
		BaseStage: NewBaseStage(StepIDCoerceSentence, StepNameCoerceSentence, opts.Config.Columns.SentenceYears),
		opts:      opts,
	}
}

// Execute replaces non-numeric sentence values with missing in the dataset
func (s *CoerceSentenceStage) Execute(ctx context.Context, state *RunState) error {
	name := s.opts.Config.Columns.SentenceYears
	values, err := column(state, name)
	if err != nil {
		return err
	}

	out, coerced := analysis.CoerceNumeric(values)
	if err := state.Dataset().SetColumn(name, out); err != nil {
		return err
	}

	state.GetStep(s.ID()).SetMetadata("coerced", coerced)
	if s.opts.Metrics != nil {
		s.opts.Metrics.ValuesCoerced.WithLabelValues(name).Add(float64(coerced))
	}
	if coerced > 0 {
		s.opts.Logger.WarnContext(ctx, "Non-numeric sentence values coerced to missing",
			slog.String("column", name),
			slog.Int("coerced", coerced))
	}
	return nil
}

// YearlyTrendStage charts cases per year
type YearlyTrendStage struct {
	BaseStage
	opts *StageOptions
}

// NewYearlyTrendStage creates the yearly trend step
func NewYearlyTrendStage(opts *StageOptions) *YearlyTrendStage {
	return &YearlyTrendStage{
		BaseStage: NewBaseStage(StepIDYearlyTrend, StepNameYearlyTrend, opts.Config.Columns.Year),
		opts:      opts,
	}
}

// Execute counts cases per year and draws the line chart. Rows without a
// year are reported in the results but not plotted.
func (s *YearlyTrendStage) Execute(ctx context.Context, state *RunState) error {
	years, err := column(state, s.opts.Config.Columns.Year)
	if err != nil {
		return err
	}

	trend := analysis.YearlyTrend(years)
	state.SetResult(ResultKeyTrend, trend)
	state.GetStep(s.ID()).SetMetadata("missing_year", trend.Missing)

	x := make([]float64, len(trend.Years))
	y := make([]float64, len(trend.Years))
	for i, yc := range trend.Years {
		x[i] = float64(yc.Year)
		y[i] = float64(yc.Count)
	}

	path := s.opts.artifactPath(config.ArtifactCasesPerYear)
	if err := s.opts.Renderer.LineChart(path, render.LineChart{
		Title:  "Femicide Cases Per Year",
		XLabel: "Year",
		YLabel: "Number of Cases",
		X:      x,
		Y:      y,
	}); err != nil {
		return err
	}
	s.opts.recordArtifact(state, s.ID(), path)
	return nil
}

// FrequencyChartStage charts the most frequent values of one categorical
// column. It backs the modes, relationships and verdicts steps.
type FrequencyChartStage struct {
	BaseStage
	opts      *StageOptions
	column    string
	resultKey string
	artifact  string
	topN      int
	chart     render.BarChart
}

// NewTopModesStage creates the top modes of killing step
func NewTopModesStage(opts *StageOptions) *FrequencyChartStage {
	col := opts.Config.Columns.ModeOfKilling
	return &FrequencyChartStage{
		BaseStage: NewBaseStage(StepIDTopModes, StepNameTopModes, col),
		opts:      opts,
		column:    col,
		resultKey: ResultKeyTopModes,
		artifact:  config.ArtifactTopModes,
		topN:      opts.Config.Reports.TopN,
		chart: render.BarChart{
			Title:      fmt.Sprintf("Top %d Modes of Killing", opts.Config.Reports.TopN),
			XLabel:     "Number of Cases",
			Horizontal: true,
			Color:      render.Red,
		},
	}
}

// NewRelationshipsStage creates the suspect relationship step
func NewRelationshipsStage(opts *StageOptions) *FrequencyChartStage {
	col := opts.Config.Columns.Relationship
	return &FrequencyChartStage{
		BaseStage: NewBaseStage(StepIDRelationships, StepNameRelationships, col),
		opts:      opts,
		column:    col,
		resultKey: ResultKeyRelationships,
		artifact:  config.ArtifactRelationships,
		topN:      opts.Config.Reports.TopN,
		chart: render.BarChart{
			Title:      "Relationship Between Victim and Suspect",
			XLabel:     "Number of Cases",
			Horizontal: true,
			Color:      render.Purple,
		},
	}
}

// NewVerdictsStage creates the verdict distribution step. Every verdict is
// kept, not just the top N.
func NewVerdictsStage(opts *StageOptions) *FrequencyChartStage {
	col := opts.Config.Columns.Verdict
	return &FrequencyChartStage{
		BaseStage: NewBaseStage(StepIDVerdicts, StepNameVerdicts, col),
		opts:      opts,
		column:    col,
		resultKey: ResultKeyVerdicts,
		artifact:  config.ArtifactVerdicts,
		chart: render.BarChart{
			Title:        "Verdict Distribution",
			YLabel:       "Number of Cases",
			Color:        render.Green,
			RotateLabels: true,
		},
	}
}

// Execute builds the frequency table and draws the bar chart
func (s *FrequencyChartStage) Execute(ctx context.Context, state *RunState) error {
	values, err := column(state, s.column)
	if err != nil {
		return err
	}

	table := analysis.Frequencies(values).Top(s.topN)
	state.SetResult(s.resultKey, table)
	state.GetStep(s.ID()).SetMetadata("categories", len(table))

	chart := s.chart
	chart.Labels = table.Labels()
	chart.Values = table.Counts()

	path := s.opts.artifactPath(s.artifact)
	if err := s.opts.Renderer.BarChart(path, chart); err != nil {
		return err
	}
	s.opts.recordArtifact(state, s.ID(), path)
	return nil
}

// SentenceLengthsStage draws the histogram of sentence lengths
type SentenceLengthsStage struct {
	BaseStage
	opts *StageOptions
}

// NewSentenceLengthsStage creates the sentence histogram step
func NewSentenceLengthsStage(opts *StageOptions) *SentenceLengthsStage {
	return &SentenceLengthsStage{
		BaseStage: NewBaseStage(StepIDSentenceLengths, StepNameSentenceLengths, opts.Config.Columns.SentenceYears),
		opts:      opts,
	}
}

// Execute plots the numeric sentence values only
func (s *SentenceLengthsStage) Execute(ctx context.Context, state *RunState) error {
	values, err := column(state, s.opts.Config.Columns.SentenceYears)
	if err != nil {
		return err
	}

	dist := analysis.NumericDistribution(values)
	summary := analysis.Summarize(dist)
	state.SetResult(ResultKeySentences, summary)
	state.GetStep(s.ID()).SetMetadata("values", summary.Count)

	path := s.opts.artifactPath(config.ArtifactSentenceLengths)
	if err := s.opts.Renderer.Histogram(path, render.Histogram{
		Title:  "Distribution of Sentencing Lengths",
		XLabel: "Years",
		YLabel: "Frequency",
		Values: dist,
		Bins:   s.opts.Config.Reports.HistogramBins,
		Color:  render.Orange,
	}); err != nil {
		return err
	}
	s.opts.recordArtifact(state, s.ID(), path)
	return nil
}

// CircumstanceCloudStage draws the circumstance word cloud
type CircumstanceCloudStage struct {
	BaseStage
	opts *StageOptions
}

// NewCircumstanceCloudStage creates the word cloud step
func NewCircumstanceCloudStage(opts *StageOptions) *CircumstanceCloudStage {
	return &CircumstanceCloudStage{
		BaseStage: NewBaseStage(StepIDCircumstances, StepNameCircumstances, opts.Config.Columns.Circumstance),
		opts:      opts,
	}
}

// Execute joins the circumstance texts into one corpus and draws its words
func (s *CircumstanceCloudStage) Execute(ctx context.Context, state *RunState) error {
	values, err := column(state, s.opts.Config.Columns.Circumstance)
	if err != nil {
		return err
	}

	freqs := analysis.WordFrequencies(analysis.Corpus(values), s.opts.Config.Reports.WordCloudMaxWords)
	state.SetResult(ResultKeyWords, freqs)
	state.GetStep(s.ID()).SetMetadata("distinct_words", len(freqs))

	words := make([]render.Word, len(freqs))
	for i, e := range freqs {
		words[i] = render.Word{Text: e.Label, Weight: float64(e.Count)}
	}

	path := s.opts.artifactPath(config.ArtifactWordCloud)
	if err := s.opts.Renderer.WordCloud(path, render.WordCloud{
		Title: "Circumstance Word Cloud",
		Words: words,
	}); err != nil {
		return err
	}
	s.opts.recordArtifact(state, s.ID(), path)
	return nil
}

// HighProfileStage draws the timeline of cases reported by major outlets
type HighProfileStage struct {
	BaseStage
	opts *StageOptions
}

// NewHighProfileStage creates the high-profile timeline step
func NewHighProfileStage(opts *StageOptions) *HighProfileStage {
	cols := opts.Config.Columns
	return &HighProfileStage{
		BaseStage: NewBaseStage(StepIDHighProfile, StepNameHighProfile,
			cols.Medium, cols.MurderDate, cols.VictimName, cols.Location),
		opts: opts,
	}
}

// Execute selects, deduplicates and plots the high-profile cases
func (s *HighProfileStage) Execute(ctx context.Context, state *RunState) error {
	names := s.opts.Config.Columns
	var cols analysis.HighProfileColumns
	var err error
	if cols.Medium, err = column(state, names.Medium); err != nil {
		return err
	}
	if cols.Date, err = column(state, names.MurderDate); err != nil {
		return err
	}
	if cols.Victim, err = column(state, names.VictimName); err != nil {
		return err
	}
	if cols.Location, err = column(state, names.Location); err != nil {
		return err
	}

	cases := analysis.HighProfile(cols, s.opts.Config.Reports.OutletFilters)
	state.SetResult(ResultKeyHighProfile, cases)
	state.GetStep(s.ID()).SetMetadata("cases", len(cases))

	dates := make([]time.Time, len(cases))
	for i, c := range cases {
		dates[i] = c.Date
	}

	path := s.opts.artifactPath(config.ArtifactTimeline)
	if err := s.opts.Renderer.Timeline(path, render.Timeline{
		Title:  "Timeline of High-Profile Femicide Cases",
		XLabel: "Date",
		YLabel: "Case Index",
		Dates:  dates,
	}); err != nil {
		return err
	}
	s.opts.recordArtifact(state, s.ID(), path)
	return nil
}

// ExportCleanedStage writes the cleaned dataset as CSV
type ExportCleanedStage struct {
	BaseStage
	opts *StageOptions
}

// NewExportCleanedStage creates the CSV export step
func NewExportCleanedStage(opts *StageOptions) *ExportCleanedStage {
	return &ExportCleanedStage{
		BaseStage: NewBaseStage(StepIDExportCleaned, StepNameExportCleaned),
		opts:      opts,
	}
}

// Execute writes every column, year included, in dataset order
func (s *ExportCleanedStage) Execute(ctx context.Context, state *RunState) error {
	ds := state.Dataset()
	if ds == nil {
		return NewFatalError("dataset not loaded", nil)
	}
	path, err := s.opts.CSV.WriteDataset(s.opts.artifactPath(config.ArtifactCleanedCSV), ds)
	if err != nil {
		return err
	}
	s.opts.recordArtifact(state, s.ID(), path)
	return nil
}

// SummaryWorkbookStage collects the computed tables into one workbook
type SummaryWorkbookStage struct {
	BaseStage
	opts *StageOptions
}

// NewSummaryWorkbookStage creates the workbook step
func NewSummaryWorkbookStage(opts *StageOptions) *SummaryWorkbookStage {
	return &SummaryWorkbookStage{
		BaseStage: NewBaseStage(StepIDSummaryWorkbook, StepNameSummaryWorkbook),
		opts:      opts,
	}
}

// Execute writes one sheet per table that earlier steps produced. Tables of
// skipped steps are simply absent.
func (s *SummaryWorkbookStage) Execute(ctx context.Context, state *RunState) error {
	tables := summaryTables(state)
	state.GetStep(s.ID()).SetMetadata("sheets", len(tables))
	if len(tables) == 0 {
		s.opts.Logger.WarnContext(ctx, "No summary tables computed, workbook not written")
		return nil
	}

	path, err := s.opts.Workbook.Write(s.opts.artifactPath(config.ArtifactSummaryWorkbook), tables)
	if err != nil {
		return err
	}
	s.opts.recordArtifact(state, s.ID(), path)
	return nil
}

func summaryTables(state *RunState) []exporter.Table {
	var tables []exporter.Table
	if v, ok := state.GetResult(ResultKeyTrend); ok {
		tables = append(tables, exporter.TrendTable("Cases per year", v.(analysis.Trend)))
	}
	frequencies := []struct {
		key, sheet, header string
	}{
		{ResultKeyTopModes, "Modes of killing", "mode of killing"},
		{ResultKeyRelationships, "Relationships", "suspect relationship"},
		{ResultKeyVerdicts, "Verdicts", "verdict"},
	}
	for _, f := range frequencies {
		if v, ok := state.GetResult(f.key); ok {
			tables = append(tables, exporter.FrequencyTable(f.sheet, f.header, v.(analysis.FrequencyTable)))
		}
	}
	if v, ok := state.GetResult(ResultKeySentences); ok {
		tables = append(tables, exporter.SummaryStatsTable("Sentence lengths", v.(analysis.Summary)))
	}
	if v, ok := state.GetResult(ResultKeyHighProfile); ok {
		tables = append(tables, exporter.HighProfileTable("High-profile cases", v.([]analysis.HighProfileCase)))
	}
	return tables
}

// StageFactory builds the steps of a run in execution order. The summary
// workbook step is only included when enabled.
func StageFactory(opts *StageOptions) ([]Step, error) {
	if opts == nil || opts.Config == nil {
		return nil, NewFatalError("stage options need a configuration", nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	rules, err := cleaning.NewRuleSet(cleaning.RulesFromConfig(opts.Config.Cleaning.SynonymRules))
	if err != nil {
		return nil, fmt.Errorf("invalid synonym rules: %w", err)
	}

	steps := []Step{
		NewLoadStage(opts),
		NewNormalizeTextStage(opts, rules),
		NewResolveMissingStage(opts),
		NewParseDatesStage(opts),
		NewCoerceSentenceStage(opts),
		NewYearlyTrendStage(opts),
		NewTopModesStage(opts),
		NewRelationshipsStage(opts),
		NewVerdictsStage(opts),
		NewSentenceLengthsStage(opts),
		NewCircumstanceCloudStage(opts),
		NewHighProfileStage(opts),
		NewExportCleanedStage(opts),
	}
	if opts.Config.Reports.SummaryWorkbook {
		steps = append(steps, NewSummaryWorkbookStage(opts))
	}
	return steps, nil
}

// NewRunRegistry registers every step from StageFactory
func NewRunRegistry(opts *StageOptions) (*Registry, error) {
	steps, err := StageFactory(opts)
	if err != nil {
		return nil, err
	}
	registry := NewRegistry()
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
