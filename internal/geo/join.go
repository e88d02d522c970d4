package geo

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/aadhaar-nexus/nexus-cli/internal/aggregate"
)

// stateNameOverrides maps dataset state names to the spellings used by
// the boundary file.
var stateNameOverrides = map[string]string{
	"Jammu and Kashmir": "Jammu & Kashmir",
}

// BoundaryName returns the boundary-file spelling for a dataset state name.
func BoundaryName(state string) string {
	if mapped, ok := stateNameOverrides[state]; ok {
		return mapped
	}
	return state
}

// JoinResult summarizes a boundary join.
type JoinResult struct {
	Matched        int      `json:"matched"`
	Unmatched      int      `json:"unmatched"`
	MissingStates  []string `json:"missing_states,omitempty"`  // dataset states without a boundary
	OrphanFeatures []string `json:"orphan_features,omitempty"` // boundary features without data
}

// JoinStates annotates each boundary feature with its state rollup:
// mean DEI, district count, tier, and risk mix. Features without data
// are left untouched so the map still renders the full outline.
func JoinStates(fc *geojson.FeatureCollection, rollups []aggregate.StateRollup) JoinResult {
	byBoundaryName := make(map[string]aggregate.StateRollup, len(rollups))
	for _, r := range rollups {
		byBoundaryName[BoundaryName(r.State)] = r
	}

	var result JoinResult
	seen := make(map[string]bool, len(rollups))
	for _, f := range fc.Features {
		name, _ := f.Properties[stateNameKey].(string)
		rollup, ok := byBoundaryName[name]
		if !ok {
			result.Unmatched++
			result.OrphanFeatures = append(result.OrphanFeatures, name)
			continue
		}
		seen[name] = true
		result.Matched++

		if f.Properties == nil {
			f.Properties = make(map[string]any)
		}
		f.Properties["dei"] = rollup.Summary.MeanDEI
		f.Properties["districts"] = rollup.Summary.Districts
		f.Properties["tier"] = string(rollup.Category)

		mix := make(map[string]int, len(rollup.RiskMix))
		for category, n := range rollup.RiskMix {
			mix[string(category)] = n
		}
		f.Properties["risk_mix"] = mix
	}

	for name := range byBoundaryName {
		if !seen[name] {
			result.MissingStates = append(result.MissingStates, name)
		}
	}
	sort.Strings(result.MissingStates)
	sort.Strings(result.OrphanFeatures)

	if len(result.MissingStates) > 0 {
		zap.L().Warn("geo: dataset states missing from boundary file",
			zap.Strings("states", result.MissingStates),
		)
	}
	return result
}

// WriteStates writes the enriched collection to path as GeoJSON.
func WriteStates(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return eris.Wrap(err, "geo: marshal boundary geojson")
	}
	var pretty json.RawMessage = data
	out, err := json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return eris.Wrap(err, "geo: indent boundary geojson")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return eris.Wrapf(err, "geo: write boundary file %s", path)
	}
	return nil
}
