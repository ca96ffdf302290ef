package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saucynandhu/femicideKEanalysis/internal/cleaning"
	"github.com/saucynandhu/femicideKEanalysis/internal/config"
	"github.com/saucynandhu/femicideKEanalysis/internal/dataset"
	"github.com/saucynandhu/femicideKEanalysis/internal/temporal"
)

func texts(values ...string) []dataset.Value {
	out := make([]dataset.Value, len(values))
	for i, v := range values {
		out[i] = dataset.InferValue(v)
	}
	return out
}

func TestFrequencies_StableTies(t *testing.T) {
	table := Frequencies(texts("stabbing", "strangulation", "stabbing", "burning", "strangulation", "shooting", ""))

	assert.Equal(t, FrequencyTable{
		{Label: "stabbing", Count: 2},
		{Label: "strangulation", Count: 2},
		{Label: "burning", Count: 1},
		{Label: "shooting", Count: 1},
	}, table)
	assert.Equal(t, 6, table.Total())
	assert.Equal(t, []string{"stabbing", "strangulation"}, table.Top(2).Labels())
	assert.Equal(t, []float64{2, 2, 1, 1}, table.Counts())
}

func TestFrequencies_Top(t *testing.T) {
	table := Frequencies(texts("a", "b", "c"))

	assert.Len(t, table.Top(10), 3)
	assert.Len(t, table.Top(0), 3)
	assert.Len(t, table.Top(1), 1)
	assert.Empty(t, Frequencies(nil))
}

func TestFrequencies_AfterNormalization(t *testing.T) {
	rs, err := cleaning.NewRuleSet(cleaning.RulesFromConfig(config.DefaultSynonymRules()))
	require.NoError(t, err)
	normalized, _ := cleaning.NewNormalizer(rs).NormalizeColumn(texts("Husband", "boyfriend", "BOYFRIEND", "husband "))

	table := Frequencies(normalized)

	assert.Equal(t, FrequencyTable{
		{Label: "husband", Count: 2},
		{Label: "boyfriend", Count: 2},
	}, table)
}

func TestYearlyTrend(t *testing.T) {
	dates, _ := temporal.NewParser(false).ParseColumn(texts("2016-01-01", "2016-06-01", "2017-03-01", "garbage"))
	trend := YearlyTrend(temporal.DeriveYear(dates))

	assert.Equal(t, map[int]int{2016: 2, 2017: 1}, trend.AsMap())
	assert.Equal(t, []YearCount{{2016, 2}, {2017, 1}}, trend.Years)
	assert.Equal(t, 1, trend.Missing)
	assert.Equal(t, 3, trend.Total())
}

func TestYearlyTrend_SortedAscending(t *testing.T) {
	trend := YearlyTrend([]dataset.Value{dataset.Number(2020), dataset.Number(2016), dataset.Number(2018), dataset.Number(2016)})

	require.Len(t, trend.Years, 3)
	assert.Equal(t, 2016, trend.Years[0].Year)
	assert.Equal(t, 2018, trend.Years[1].Year)
	assert.Equal(t, 2020, trend.Years[2].Year)
}

func TestNumericDistribution(t *testing.T) {
	values := []dataset.Value{dataset.Text("5"), dataset.Text("ten"), dataset.Text(""), dataset.Text("12.5")}

	assert.Equal(t, []float64{5, 12.5}, NumericDistribution(values))

	coerced, count := CoerceNumeric(values)
	assert.Equal(t, 1, count, "only the non-empty non-numeric entry counts as coerced")
	assert.Equal(t, dataset.Number(5), coerced[0])
	assert.True(t, coerced[1].IsMissing())
	assert.True(t, coerced[2].IsMissing())
	assert.Equal(t, dataset.Number(12.5), coerced[3])
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{10, 2, 6})

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
	assert.InDelta(t, 6.0, s.Mean, 1e-9)
	assert.InDelta(t, 6.0, s.Median, 1e-9)
	assert.InDelta(t, 4.0, s.StdDev, 1e-9)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestCorpus(t *testing.T) {
	values := []dataset.Value{dataset.Text("Stabbed by husband"), dataset.Missing(), dataset.Text("Strangled at home")}

	assert.Equal(t, "Stabbed by husband Strangled at home", Corpus(values))
	assert.Equal(t, "", Corpus(nil))
}

func TestWordFrequencies(t *testing.T) {
	text := "She was stabbed by her husband. The husband fled; the husband's brother was arrested in 2019."

	table := WordFrequencies(text, 0)

	require.NotEmpty(t, table)
	assert.Equal(t, Entry{Label: "husband", Count: 3}, table[0])
	labels := table.Labels()
	assert.NotContains(t, labels, "the")
	assert.NotContains(t, labels, "she")
	assert.NotContains(t, labels, "2019")
	assert.Contains(t, labels, "stabbed")
	assert.Contains(t, labels, "arrested")

	assert.Len(t, WordFrequencies(text, 2), 2)
	assert.True(t, IsStopWord("and"))
	assert.False(t, IsStopWord("knife"))
}

func TestHighProfile(t *testing.T) {
	d1 := dataset.Date(time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC))
	d2 := dataset.Date(time.Date(2017, 2, 3, 0, 0, 0, 0, time.UTC))

	cols := HighProfileColumns{
		Medium: []dataset.Value{
			dataset.Text("Daily Nation"),
			dataset.Text("the citizen digital"),
			dataset.Text("Daily Nation"),
			dataset.Text("Standard"),
			dataset.Text("BBC News"),
			dataset.Missing(),
			dataset.Text("BBC"),
		},
		Date:     []dataset.Value{d1, d2, d1, d2, dataset.Missing(), d1, d2},
		Victim:   texts("Jane", "Mary", "Jane", "Ann", "Grace", "Rose", "Mary"),
		Location: texts("Nairobi", "Kisumu", "Nairobi", "Nakuru", "Mombasa", "Eldoret", "Kisumu "),
	}

	got := HighProfile(cols, config.DefaultOutletFilters)

	require.Len(t, got, 3)
	assert.Equal(t, HighProfileCase{Date: time.Date(2017, 2, 3, 0, 0, 0, 0, time.UTC), Victim: "Mary", Location: "Kisumu"}, got[0])
	assert.Equal(t, "Kisumu ", got[1].Location, "rows differing in any field are kept")
	assert.Equal(t, "Jane", got[2].Victim)
}

func TestHighProfile_IdenticalRowsDeduplicated(t *testing.T) {
	d := dataset.Date(time.Date(2018, 8, 8, 0, 0, 0, 0, time.UTC))
	cols := HighProfileColumns{
		Medium:   texts("Nation", "Citizen"),
		Date:     []dataset.Value{d, d},
		Victim:   texts("Jane", "Jane"),
		Location: texts("Nairobi", "Nairobi"),
	}

	assert.Len(t, HighProfile(cols, []string{"Nation", "Citizen"}), 1)
	assert.Empty(t, HighProfile(cols, []string{"KTN"}))
}
