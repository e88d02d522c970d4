package model

import "time"

// ClassificationRun is a persisted snapshot of one classification pass:
// which slice of the dataset was classified and how the risk histogram
// came out. Snapshots let operators track drift between dataset drops.
type ClassificationRun struct {
	ID             string               `json:"id"`
	StateFilter    string               `json:"state_filter,omitempty"` // empty means all states
	TotalDistricts int                  `json:"total_districts"`
	MeanDEI        float64              `json:"mean_dei"`
	RiskMix        map[RiskCategory]int `json:"risk_mix"`
	CreatedAt      time.Time            `json:"created_at"`
}
