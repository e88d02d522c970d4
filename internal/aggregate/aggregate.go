// Package aggregate computes group-level statistics over district records:
// state summaries, risk histograms, extremes, and the national rollup.
// Aggregation over an empty group is an error, never a silent NaN, so
// callers can tell "no data" apart from "all healthy."
package aggregate

import (
	"fmt"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/aadhaar-nexus/nexus-cli/internal/classify"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

// ErrEmptyGroup is returned by every aggregation asked to reduce zero
// records.
var ErrEmptyGroup = eris.New("aggregate: empty district group")

// Summary holds the arithmetic means of a district group.
type Summary struct {
	MeanDEI   float64 `json:"mean_dei"`
	MeanAHS   float64 `json:"mean_ahs"`
	MeanUBS   float64 `json:"mean_ubs"`
	MeanSRS   float64 `json:"mean_srs"`
	Districts int     `json:"districts"`
}

// Mean returns the group mean for the named metric.
func (s Summary) Mean(m model.Metric) float64 {
	switch m {
	case model.MetricDEI:
		return s.MeanDEI
	case model.MetricAHS:
		return s.MeanAHS
	case model.MetricUBS:
		return s.MeanUBS
	case model.MetricSRS:
		return s.MeanSRS
	}
	return 0
}

// StateSummary computes the per-metric means over a district group.
func StateSummary(records []model.DistrictRecord) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrEmptyGroup
	}

	var sum Summary
	for _, r := range records {
		sum.MeanDEI += r.DEI
		sum.MeanAHS += r.AHS
		sum.MeanUBS += r.UBS
		sum.MeanSRS += r.SRS
	}
	n := float64(len(records))
	sum.MeanDEI /= n
	sum.MeanAHS /= n
	sum.MeanUBS /= n
	sum.MeanSRS /= n
	sum.Districts = len(records)

	return sum, nil
}

// RiskCounts builds the risk-category histogram for a district group.
// Every category appears in the result, zero counts included, so display
// layers can render a stable breakdown.
func RiskCounts(records []model.DistrictRecord) map[model.RiskCategory]int {
	counts := make(map[model.RiskCategory]int, len(model.RiskCategories))
	for _, cat := range model.RiskCategories {
		counts[cat] = 0
	}
	for _, r := range records {
		counts[classify.RiskCategory(r)]++
	}
	return counts
}

// Extremes holds the best and worst districts of a group by DEI.
type Extremes struct {
	Best  model.DistrictRecord `json:"best"`
	Worst model.DistrictRecord `json:"worst"`
}

// RankExtremes selects the best and worst districts by DEI. Ties go to
// the first-encountered record so results are deterministic for a given
// input order.
func RankExtremes(records []model.DistrictRecord) (Extremes, error) {
	if len(records) == 0 {
		return Extremes{}, ErrEmptyGroup
	}

	ext := Extremes{Best: records[0], Worst: records[0]}
	for _, r := range records[1:] {
		if r.DEI > ext.Best.DEI {
			ext.Best = r
		}
		if r.DEI < ext.Worst.DEI {
			ext.Worst = r
		}
	}
	return ext, nil
}

// DEICategory is the coarse rollup tier used for state and national mean
// DEI. Its breakpoints differ from the per-metric badge ladder on purpose;
// the two rules serve different rollup levels and stay separate.
type DEICategory string

const (
	DEIGood     DEICategory = "Good"
	DEIWarning  DEICategory = "Warning"
	DEICritical DEICategory = "Critical"
)

// CategorizeDEI tiers a mean DEI value.
func CategorizeDEI(meanDEI float64) DEICategory {
	switch {
	case meanDEI >= 0.7:
		return DEIGood
	case meanDEI >= 0.5:
		return DEIWarning
	default:
		return DEICritical
	}
}

// StateInsights composes the ordered insight lines for a state group:
// per-threshold failing counts, the overall performance statement, then
// the best and worst districts by DEI.
func StateInsights(records []model.DistrictRecord) ([]string, error) {
	sum, err := StateSummary(records)
	if err != nil {
		return nil, err
	}

	var lowDEI, accessStress, updateBurden, stabilityRisk int
	for _, r := range records {
		if r.DEI < 0.5 {
			lowDEI++
		}
		if r.AHS < 0.5 {
			accessStress++
		}
		if r.UBS > 0.7 {
			updateBurden++
		}
		if r.SRS > 0.6 {
			stabilityRisk++
		}
	}

	var lines []string
	if lowDEI > 0 {
		lines = append(lines, fmt.Sprintf("🚨 **%d district(s)** have critically low DEI scores and need immediate attention", lowDEI))
	}
	if accessStress > 0 {
		lines = append(lines, fmt.Sprintf("📍 **%d district(s)** face access stress - consider expanding enrollment infrastructure", accessStress))
	}
	if updateBurden > 0 {
		lines = append(lines, fmt.Sprintf("🔄 **%d district(s)** have high update burden - deploy dedicated update camps", updateBurden))
	}
	if stabilityRisk > 0 {
		lines = append(lines, fmt.Sprintf("⚡ **%d district(s)** show stability risks - audit system uptime and connectivity", stabilityRisk))
	}

	switch {
	case sum.MeanDEI >= 0.7:
		lines = append(lines, "✅ Overall state performance is **excellent** - focus on maintaining standards")
	case sum.MeanDEI >= 0.5:
		lines = append(lines, "📊 Overall state performance is **moderate** - targeted improvements can yield significant gains")
	default:
		lines = append(lines, "⚠️ State-wide performance is **below par** - comprehensive intervention strategy needed")
	}

	ext, err := RankExtremes(records)
	if err != nil {
		return nil, err
	}
	lines = append(lines, fmt.Sprintf("🏆 Best performer: **%s** (DEI: %.3f)", model.DisplayName(ext.Best.District), ext.Best.DEI))
	lines = append(lines, fmt.Sprintf("📉 Needs most attention: **%s** (DEI: %.3f)", model.DisplayName(ext.Worst.District), ext.Worst.DEI))

	return lines, nil
}

// Representatives selects the worst, median, and best districts of a
// group by DEI, in that order, for the intervention table.
func Representatives(records []model.DistrictRecord) ([]model.DistrictRecord, error) {
	if len(records) == 0 {
		return nil, ErrEmptyGroup
	}

	sorted := SortByDEI(records, true)
	return []model.DistrictRecord{
		sorted[0],
		sorted[len(sorted)/2],
		sorted[len(sorted)-1],
	}, nil
}

// SortByDEI returns a copy of records ordered by DEI. Equal scores keep
// their input order.
func SortByDEI(records []model.DistrictRecord, ascending bool) []model.DistrictRecord {
	out := make([]model.DistrictRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return out[i].DEI < out[j].DEI
		}
		return out[i].DEI > out[j].DEI
	})
	return out
}
