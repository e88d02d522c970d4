package classify

import "github.com/aadhaar-nexus/nexus-cli/internal/model"

// detailedSuggestions holds the multi-line recommendation blocks used in
// downloadable district reports, keyed by issue tag.
var detailedSuggestions = map[model.IssueType]string{
	model.IssueAccessStress: `The district shows signs of enrollment infrastructure strain. Consider the following actions:
1. Increase the number of active enrollment centers, particularly in rural areas
2. Deploy mobile enrollment vans to reach underserved populations
3. Partner with local government offices (panchayats, schools) for additional enrollment points
4. Review and optimize appointment scheduling to reduce wait times`,

	model.IssueUpdateBurden: `The district is experiencing high update request volumes. Recommended interventions:
1. Set up dedicated biometric update camps in high-demand areas
2. Implement online appointment booking to manage walk-in crowds
3. Consider extending operating hours during peak update periods
4. Ensure adequate staff and equipment to handle update volumes efficiently`,

	model.IssueStabilityRisk: `Service delivery in this district shows inconsistency. Key improvements needed:
1. Audit system uptime and address recurring technical failures
2. Ensure reliable power backup and internet connectivity at all centers
3. Train staff on troubleshooting common issues to minimize downtime
4. Establish regular maintenance schedules for all enrollment devices`,

	model.IssueCritical: `This district requires immediate, comprehensive intervention:
1. Conduct a full assessment of current infrastructure and staffing
2. Allocate emergency resources to address critical gaps
3. Establish a dedicated task force to monitor daily operations
4. Implement weekly progress tracking with escalation protocols`,

	model.IssueHealthy: `The district is performing well. To maintain and improve:
1. Continue regular monitoring of all key metrics
2. Document best practices for knowledge sharing with other districts
3. Consider pilot programs for new service innovations
4. Maintain staff training and equipment maintenance schedules`,
}

// simpleSuggestions holds the one-line variants shown inline on the
// dashboard.
var simpleSuggestions = map[model.IssueType]string{
	model.IssueAccessStress:  "📌 Add more enrollment centers and deploy mobile vans",
	model.IssueUpdateBurden:  "🔄 Set up dedicated update camps",
	model.IssueStabilityRisk: "⚡ Audit system uptime and power/internet",
	model.IssueCritical:      "🚨 Allocate emergency resources now",
	model.IssueHealthy:       "✅ Maintain current operations",
}

// DetailedSuggestion returns the report-grade recommendation block for an
// issue tag. Unknown tags fall back to the healthy text.
func DetailedSuggestion(issue model.IssueType) string {
	if s, ok := detailedSuggestions[issue]; ok {
		return s
	}
	return detailedSuggestions[model.IssueHealthy]
}

// SimpleSuggestion returns the one-line suggestion for an issue tag.
func SimpleSuggestion(issue model.IssueType) string {
	if s, ok := simpleSuggestions[issue]; ok {
		return s
	}
	return simpleSuggestions[model.IssueHealthy]
}
