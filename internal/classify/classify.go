// Package classify maps district equity scores to qualitative badges, risk
// categories, issue tags, and action recommendations. Every function is a
// pure function of its inputs; thresholds are the hand-tuned constants the
// product semantics are defined by and must not be adjusted.
package classify

import (
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

// Direction states which way a score improves.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// DirectionOf returns the improvement direction for a metric.
func DirectionOf(m model.Metric) Direction {
	if model.InfoFor(m).HigherIsBetter {
		return HigherIsBetter
	}
	return LowerIsBetter
}

// Badge rates a single score. Boundaries are inclusive on the stated side:
// 0.75 rates Excellent for a higher-is-better metric, 0.7 still rates
// Needs Attention for a lower-is-better one.
func Badge(score float64, dir Direction) model.Badge {
	if dir == HigherIsBetter {
		switch {
		case score >= 0.75:
			return badgeExcellent
		case score >= 0.5:
			return badgeGood
		case score >= 0.3:
			return badgeNeedsAttention
		default:
			return badgeCritical
		}
	}
	switch {
	case score <= 0.25:
		return badgeExcellent
	case score <= 0.5:
		return badgeGood
	case score <= 0.7:
		return badgeNeedsAttention
	default:
		return badgeCritical
	}
}

// BadgeFor rates a district's score on the named metric, using the
// metric's own directionality.
func BadgeFor(rec model.DistrictRecord, m model.Metric) model.Badge {
	return Badge(rec.Score(m), DirectionOf(m))
}

var (
	badgeExcellent      = model.Badge{Label: model.BadgeExcellent, Color: "#22c55e", Icon: "🟢"}
	badgeGood           = model.Badge{Label: model.BadgeGood, Color: "#84cc16", Icon: "🟡"}
	badgeNeedsAttention = model.Badge{Label: model.BadgeNeedsAttention, Color: "#f59e0b", Icon: "🟠"}
	badgeCritical       = model.Badge{Label: model.BadgeCritical, Color: "#ef4444", Icon: "🔴"}
)

// rule is one entry of the ordered classification table. fires reports
// whether the record crosses the rule's threshold.
type rule struct {
	issue model.IssueType
	risk  model.RiskCategory
	fires func(model.DistrictRecord) bool
}

// ruleTable is evaluated top to bottom, first match wins. The DEI rule is
// a pre-check used only by issue tagging; risk categorization starts at
// the AHS rule. Keeping both behaviors on one table pins their shared
// thresholds together.
var ruleTable = []rule{
	{model.IssueCritical, "", func(r model.DistrictRecord) bool { return r.DEI < 0.5 }},
	{model.IssueAccessStress, model.RiskAccessStress, func(r model.DistrictRecord) bool { return r.AHS < 0.5 }},
	{model.IssueUpdateBurden, model.RiskUpdateBurden, func(r model.DistrictRecord) bool { return r.UBS > 0.7 }},
	{model.IssueStabilityRisk, model.RiskStabilityRisk, func(r model.DistrictRecord) bool { return r.SRS > 0.6 }},
}

// RiskCategory classifies a district by its dominant operational risk.
// A district failing both the AHS and UBS thresholds always reports as
// Access Stress; the order of the table is part of the contract.
func RiskCategory(rec model.DistrictRecord) model.RiskCategory {
	for _, ru := range ruleTable {
		if ru.risk == "" {
			continue
		}
		if ru.fires(rec) {
			return ru.risk
		}
	}
	return model.RiskHealthy
}

// IssueType tags a district with its primary issue. Unlike RiskCategory
// it checks the composite index first: a critically low DEI overrides the
// per-metric rules even when all of them pass.
func IssueType(rec model.DistrictRecord) model.IssueType {
	for _, ru := range ruleTable {
		if ru.fires(rec) {
			return ru.issue
		}
	}
	return model.IssueHealthy
}

// Recommend produces the action guidance for a district, following the
// same priority order as IssueType.
func Recommend(rec model.DistrictRecord) model.Recommendation {
	return recommendations[IssueType(rec)]
}

var recommendations = map[model.IssueType]model.Recommendation{
	model.IssueCritical: {
		Level:   model.LevelCritical,
		Title:   "Critical Equity Gap",
		Message: "This district requires immediate attention. DEI score is critically low.",
		Action:  "Prioritize comprehensive resource allocation and infrastructure development.",
	},
	model.IssueAccessStress: {
		Level:   model.LevelWarning,
		Title:   "High Access Stress",
		Message: "District faces challenges in Aadhaar enrollment accessibility.",
		Action:  "Focus on enrollment infrastructure - add more centers, improve connectivity.",
	},
	model.IssueUpdateBurden: {
		Level:   model.LevelWarning,
		Title:   "Update Overload",
		Message: "High volume of update requests straining system capacity.",
		Action:  "Streamline update processes - consider mobile camps, optimize workflows.",
	},
	model.IssueStabilityRisk: {
		Level:   model.LevelWarning,
		Title:   "Stability Concerns",
		Message: "Inconsistent service delivery detected.",
		Action:  "Review system uptime, data quality, and operational consistency.",
	},
	model.IssueHealthy: {
		Level:   model.LevelGood,
		Title:   "District Performing Well",
		Message: "All metrics are within acceptable ranges.",
		Action:  "Maintain current operations and continue monitoring.",
	},
}
