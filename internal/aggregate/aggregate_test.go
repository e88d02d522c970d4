package aggregate

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

func rec(state, district string, dei, ahs, ubs, srs float64) model.DistrictRecord {
	return model.DistrictRecord{State: state, District: district, DEI: dei, AHS: ahs, UBS: ubs, SRS: srs}
}

func TestStateSummary(t *testing.T) {
	records := []model.DistrictRecord{
		rec("X", "a", 0.2, 0.4, 0.6, 0.8),
		rec("X", "b", 0.8, 0.6, 0.4, 0.2),
	}

	sum, err := StateSummary(records)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, sum.MeanDEI, 1e-9)
	assert.InDelta(t, 0.5, sum.MeanAHS, 1e-9)
	assert.InDelta(t, 0.5, sum.MeanUBS, 1e-9)
	assert.InDelta(t, 0.5, sum.MeanSRS, 1e-9)
	assert.Equal(t, 2, sum.Districts)
}

func TestStateSummaryEmpty(t *testing.T) {
	_, err := StateSummary(nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrEmptyGroup))
}

func TestRiskCounts(t *testing.T) {
	records := []model.DistrictRecord{
		rec("X", "healthy", 0.8, 0.8, 0.2, 0.2),
		rec("X", "access", 0.8, 0.4, 0.2, 0.2),
		rec("X", "access2", 0.8, 0.3, 0.9, 0.9), // access wins over update/stability
		rec("X", "update", 0.8, 0.8, 0.8, 0.2),
		rec("X", "stability", 0.8, 0.8, 0.2, 0.7),
	}

	counts := RiskCounts(records)

	assert.Equal(t, 1, counts[model.RiskHealthy])
	assert.Equal(t, 2, counts[model.RiskAccessStress])
	assert.Equal(t, 1, counts[model.RiskUpdateBurden])
	assert.Equal(t, 1, counts[model.RiskStabilityRisk])
}

func TestRiskCountsIncludesZeroCategories(t *testing.T) {
	counts := RiskCounts([]model.DistrictRecord{rec("X", "a", 0.8, 0.8, 0.2, 0.2)})

	for _, cat := range model.RiskCategories {
		_, ok := counts[cat]
		assert.True(t, ok, "category %s must be present", cat)
	}
	assert.Equal(t, 0, counts[model.RiskUpdateBurden])
}

func TestRankExtremes(t *testing.T) {
	records := []model.DistrictRecord{
		rec("X", "mid", 0.5, 0, 0, 0),
		rec("X", "worst", 0.1, 0, 0, 0),
		rec("X", "best", 0.9, 0, 0, 0),
	}

	ext, err := RankExtremes(records)
	require.NoError(t, err)

	assert.Equal(t, "best", ext.Best.District)
	assert.Equal(t, "worst", ext.Worst.District)
}

func TestRankExtremesTieBreak(t *testing.T) {
	records := []model.DistrictRecord{
		rec("X", "A", 0.9, 0, 0, 0),
		rec("X", "B", 0.9, 0, 0, 0),
	}

	ext, err := RankExtremes(records)
	require.NoError(t, err)

	// First-encountered wins on ties, both directions.
	assert.Equal(t, "A", ext.Best.District)
	assert.Equal(t, "A", ext.Worst.District)
}

func TestRankExtremesEmpty(t *testing.T) {
	_, err := RankExtremes([]model.DistrictRecord{})
	assert.True(t, eris.Is(err, ErrEmptyGroup))
}

func TestCategorizeDEI(t *testing.T) {
	tests := []struct {
		mean float64
		want DEICategory
	}{
		{0.9, DEIGood},
		{0.7, DEIGood},
		{0.69, DEIWarning},
		{0.5, DEIWarning},
		{0.49, DEICritical},
		{0.0, DEICritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeDEI(tt.mean), "mean %.2f", tt.mean)
	}
}

func TestStateInsightsOrderAndContent(t *testing.T) {
	records := []model.DistrictRecord{
		rec("X", "alpha", 0.4, 0.4, 0.8, 0.7), // fails every threshold
		rec("X", "beta", 0.9, 0.9, 0.1, 0.1),
	}

	lines, err := StateInsights(records)
	require.NoError(t, err)
	require.Len(t, lines, 7)

	assert.Contains(t, lines[0], "1 district(s)")
	assert.Contains(t, lines[0], "critically low DEI")
	assert.Contains(t, lines[1], "access stress")
	assert.Contains(t, lines[2], "update burden")
	assert.Contains(t, lines[3], "stability risks")
	// Mean DEI is 0.65: moderate tier.
	assert.Contains(t, lines[4], "moderate")
	assert.Contains(t, lines[5], "Best performer")
	assert.Contains(t, lines[5], "Beta")
	assert.Contains(t, lines[6], "Needs most attention")
	assert.Contains(t, lines[6], "Alpha")
}

func TestStateInsightsAllHealthy(t *testing.T) {
	records := []model.DistrictRecord{
		rec("X", "a", 0.8, 0.8, 0.2, 0.2),
		rec("X", "b", 0.75, 0.8, 0.2, 0.2),
	}

	lines, err := StateInsights(records)
	require.NoError(t, err)

	// No failing-count lines: tier statement plus best/worst only.
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "excellent")
}

func TestStateInsightsEmpty(t *testing.T) {
	_, err := StateInsights(nil)
	assert.True(t, eris.Is(err, ErrEmptyGroup))
}

func TestRepresentatives(t *testing.T) {
	records := []model.DistrictRecord{
		rec("X", "c", 0.7, 0, 0, 0),
		rec("X", "a", 0.2, 0, 0, 0),
		rec("X", "e", 0.9, 0, 0, 0),
		rec("X", "b", 0.4, 0, 0, 0),
		rec("X", "d", 0.8, 0, 0, 0),
	}

	reps, err := Representatives(records)
	require.NoError(t, err)
	require.Len(t, reps, 3)

	assert.Equal(t, "a", reps[0].District) // worst
	assert.Equal(t, "c", reps[1].District) // median
	assert.Equal(t, "e", reps[2].District) // best
}

func TestSortByDEIStable(t *testing.T) {
	records := []model.DistrictRecord{
		rec("X", "first", 0.5, 0, 0, 0),
		rec("X", "second", 0.5, 0, 0, 0),
		rec("X", "low", 0.1, 0, 0, 0),
	}

	asc := SortByDEI(records, true)
	assert.Equal(t, []string{"low", "first", "second"}, []string{asc[0].District, asc[1].District, asc[2].District})

	desc := SortByDEI(records, false)
	assert.Equal(t, []string{"first", "second", "low"}, []string{desc[0].District, desc[1].District, desc[2].District})

	// Input untouched.
	assert.Equal(t, "first", records[0].District)
}
