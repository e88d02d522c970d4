package aggregate

import (
	"math"
	"sort"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

// StateRollup is one state's aggregate line in the national view.
type StateRollup struct {
	State    string                     `json:"state"`
	Summary  Summary                    `json:"summary"`
	Category DEICategory                `json:"category"`
	RiskMix  map[model.RiskCategory]int `json:"risk_mix"`
}

// NationalView is the country-wide aggregation used for the heatmap,
// the state ranking, and the national KPIs.
type NationalView struct {
	States         []StateRollup `json:"states"` // ordered by mean DEI descending
	Overall        Summary       `json:"overall"`
	TotalDistricts int           `json:"total_districts"`
	TotalStates    int           `json:"total_states"`
}

// GroupByState buckets records by state, preserving input order within
// each group.
func GroupByState(records []model.DistrictRecord) map[string][]model.DistrictRecord {
	groups := make(map[string][]model.DistrictRecord)
	for _, r := range records {
		groups[r.State] = append(groups[r.State], r)
	}
	return groups
}

// National computes the per-state rollups and country-wide means.
func National(records []model.DistrictRecord) (NationalView, error) {
	if len(records) == 0 {
		return NationalView{}, ErrEmptyGroup
	}

	overall, err := StateSummary(records)
	if err != nil {
		return NationalView{}, err
	}

	groups := GroupByState(records)
	states := make([]StateRollup, 0, len(groups))
	for state, group := range groups {
		sum, err := StateSummary(group)
		if err != nil {
			return NationalView{}, err
		}
		states = append(states, StateRollup{
			State:    state,
			Summary:  sum,
			Category: CategorizeDEI(sum.MeanDEI),
			RiskMix:  RiskCounts(group),
		})
	}

	sort.Slice(states, func(i, j int) bool {
		if states[i].Summary.MeanDEI != states[j].Summary.MeanDEI {
			return states[i].Summary.MeanDEI > states[j].Summary.MeanDEI
		}
		return states[i].State < states[j].State
	})

	return NationalView{
		States:         states,
		Overall:        overall,
		TotalDistricts: len(records),
		TotalStates:    len(states),
	}, nil
}

// TopStates returns the n best states by mean DEI from an ordered
// national view.
func (v NationalView) TopStates(n int) []StateRollup {
	if n > len(v.States) {
		n = len(v.States)
	}
	return v.States[:n]
}

// BottomStates returns the n worst states by mean DEI, worst first.
func (v NationalView) BottomStates(n int) []StateRollup {
	if n > len(v.States) {
		n = len(v.States)
	}
	out := make([]StateRollup, 0, n)
	for i := len(v.States) - 1; i >= len(v.States)-n; i-- {
		out = append(out, v.States[i])
	}
	return out
}

// Bucket is one histogram bin over DEI.
type Bucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Distribution describes how DEI scores spread across all districts.
type Distribution struct {
	Mean    float64  `json:"mean"`
	StdDev  float64  `json:"std_dev"`
	Buckets []Bucket `json:"buckets"`
}

// DEIDistribution computes the DEI histogram with the given bin count,
// together with the mean and population standard deviation.
func DEIDistribution(records []model.DistrictRecord, bins int) (Distribution, error) {
	if len(records) == 0 {
		return Distribution{}, ErrEmptyGroup
	}
	if bins <= 0 {
		bins = 30
	}

	var mean float64
	lo, hi := records[0].DEI, records[0].DEI
	for _, r := range records {
		mean += r.DEI
		if r.DEI < lo {
			lo = r.DEI
		}
		if r.DEI > hi {
			hi = r.DEI
		}
	}
	mean /= float64(len(records))

	var variance float64
	for _, r := range records {
		d := r.DEI - mean
		variance += d * d
	}
	variance /= float64(len(records))

	width := (hi - lo) / float64(bins)
	buckets := make([]Bucket, bins)
	for i := range buckets {
		buckets[i].Low = lo + float64(i)*width
		buckets[i].High = lo + float64(i+1)*width
	}
	for _, r := range records {
		idx := bins - 1
		if width > 0 {
			idx = int((r.DEI - lo) / width)
			if idx >= bins {
				idx = bins - 1
			}
		}
		buckets[idx].Count++
	}

	return Distribution{
		Mean:    mean,
		StdDev:  math.Sqrt(variance),
		Buckets: buckets,
	}, nil
}
