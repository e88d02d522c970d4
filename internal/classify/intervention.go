package classify

import "github.com/aadhaar-nexus/nexus-cli/internal/model"

// Intervention maps a district to its dominant risk and suggested action
// for the intervention planning table. The tiers are stricter than the
// badge ladders: a district can rate Good on every individual metric and
// still land in the warning tier here.
func Intervention(rec model.DistrictRecord) model.Intervention {
	switch {
	case rec.DEI < 0.7:
		switch {
		case rec.AHS < 0.5 && rec.SRS > 0.6:
			return model.Intervention{DominantRisk: "Access + Stability Crisis", SuggestedAction: "Urgent: New centers + Infra audit"}
		case rec.AHS < 0.6:
			return model.Intervention{DominantRisk: "Severe Access Deficit", SuggestedAction: "Deploy mobile vans + New centers"}
		case rec.SRS > 0.6:
			return model.Intervention{DominantRisk: "High Stability Risk", SuggestedAction: "Technical audit + Connectivity upgrade"}
		default:
			return model.Intervention{DominantRisk: "General Quality Critical", SuggestedAction: "Complete district review required"}
		}
	case rec.DEI < 0.8:
		switch {
		case rec.UBS > 0.6:
			return model.Intervention{DominantRisk: "High Update Burden", SuggestedAction: "Setup dedicated update camps"}
		case rec.AHS < 0.7:
			return model.Intervention{DominantRisk: "Moderate Access Stress", SuggestedAction: "Extend center operating hours"}
		default:
			return model.Intervention{DominantRisk: "Borderline Performance", SuggestedAction: "Monitor weekly + Staff training"}
		}
	default:
		return model.Intervention{DominantRisk: "Healthy State", SuggestedAction: "Reference model for other districts"}
	}
}
