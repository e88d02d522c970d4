package model

// DistrictRecord holds the precomputed equity scores for one district.
// Scores arrive from the upstream scoring pipeline; this tool never
// computes them, only classifies and aggregates.
type DistrictRecord struct {
	State    string  `json:"state"`
	District string  `json:"district"`
	DEI      float64 `json:"dei"` // Digital Equity Index, higher is better
	AHS      float64 `json:"ahs"` // Access Health Score, higher is better
	UBS      float64 `json:"ubs"` // Update Load Score, lower is better
	SRS      float64 `json:"srs"` // Stability Risk Score, lower is better
}

// Score returns the value of the named metric.
func (r DistrictRecord) Score(m Metric) float64 {
	switch m {
	case MetricDEI:
		return r.DEI
	case MetricAHS:
		return r.AHS
	case MetricUBS:
		return r.UBS
	case MetricSRS:
		return r.SRS
	}
	return 0
}

// RiskCategory buckets a district by its dominant operational risk.
type RiskCategory string

const (
	RiskHealthy       RiskCategory = "Healthy"
	RiskAccessStress  RiskCategory = "Access Stress"
	RiskUpdateBurden  RiskCategory = "Update Burden"
	RiskStabilityRisk RiskCategory = "Stability Risk"
)

// RiskCategories lists all categories in display order.
var RiskCategories = []RiskCategory{
	RiskHealthy,
	RiskAccessStress,
	RiskUpdateBurden,
	RiskStabilityRisk,
}

// IssueType tags a district with its primary issue, including the
// composite-index override that RiskCategory does not apply.
type IssueType string

const (
	IssueCritical      IssueType = "critical"
	IssueAccessStress  IssueType = "access_stress"
	IssueUpdateBurden  IssueType = "update_burden"
	IssueStabilityRisk IssueType = "stability_risk"
	IssueHealthy       IssueType = "healthy"
)

// BadgeLabel is the qualitative rating of a single score.
type BadgeLabel string

const (
	BadgeExcellent      BadgeLabel = "Excellent"
	BadgeGood           BadgeLabel = "Good"
	BadgeNeedsAttention BadgeLabel = "Needs Attention"
	BadgeCritical       BadgeLabel = "Critical"
)

// Badge is the presentation-ready rating for one score. Color and Icon
// are plain data; interpretation belongs to the display layer.
type Badge struct {
	Label BadgeLabel `json:"label"`
	Color string     `json:"color"`
	Icon  string     `json:"icon"`
}

// RecommendationLevel grades the urgency of a recommendation.
type RecommendationLevel string

const (
	LevelCritical RecommendationLevel = "critical"
	LevelWarning  RecommendationLevel = "warning"
	LevelGood     RecommendationLevel = "good"
)

// Recommendation is the action guidance derived from a district's scores.
type Recommendation struct {
	Level   RecommendationLevel `json:"level"`
	Title   string              `json:"title"`
	Message string              `json:"message"`
	Action  string              `json:"action"`
}

// Intervention pairs a dominant-risk label with a suggested action for
// the intervention mapping table.
type Intervention struct {
	DominantRisk    string `json:"dominant_risk"`
	SuggestedAction string `json:"suggested_action"`
}
