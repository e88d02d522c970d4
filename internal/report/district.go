// Package report renders the downloadable artifacts: district and state
// text reports and XLSX score workbooks. It consumes classification and
// aggregation results and never computes thresholds itself.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/aadhaar-nexus/nexus-cli/internal/aggregate"
	"github.com/aadhaar-nexus/nexus-cli/internal/classify"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

const divider = "--------------------------------------------------------------------------------"
const border = "================================================================================"

// scoreRow is one line of the performance score table. Rows always render
// in the fixed order DEI, Access, Update Load, Stability.
type scoreRow struct {
	Name  string
	Score float64
	Avg   float64
	Badge model.BadgeLabel
}

// WriteDistrict renders the full district text report: score table against
// the state averages, assessment, detailed recommendations, and metric
// definitions. now stamps the report header.
func WriteDistrict(w io.Writer, rec model.DistrictRecord, peers []model.DistrictRecord, now time.Time) error {
	sum, err := aggregate.StateSummary(peers)
	if err != nil {
		return eris.Wrapf(err, "report: state summary for %s", rec.State)
	}

	issue := classify.IssueType(rec)
	recommendation := classify.Recommend(rec)

	rows := make([]scoreRow, 0, len(model.Metrics))
	for _, m := range model.Metrics {
		rows = append(rows, scoreRow{
			Name:  model.InfoFor(m).Name,
			Score: rec.Score(m),
			Avg:   sum.Mean(m),
			Badge: classify.BadgeFor(rec, m).Label,
		})
	}

	var b strings.Builder
	b.WriteString(border + "\n")
	b.WriteString("                    AADHAAR N.E.X.U.S - DISTRICT REPORT\n")
	b.WriteString(border + "\n\n")
	fmt.Fprintf(&b, "STATE: %s\n", rec.State)
	fmt.Fprintf(&b, "DISTRICT: %s\n", model.DisplayName(rec.District))
	fmt.Fprintf(&b, "REPORT DATE: %s\n\n", now.Format("2006-01-02 15:04"))

	b.WriteString(divider + "\n")
	b.WriteString("                              PERFORMANCE SCORES\n")
	b.WriteString(divider + "\n\n")
	b.WriteString("  METRIC                    SCORE      STATE AVG    DIFFERENCE    STATUS\n")
	b.WriteString("  -------------------------------------------------------------------------\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "  %-25s %.3f      %.3f        %+.3f        %s\n",
			row.Name, row.Score, row.Avg, row.Score-row.Avg, row.Badge)
	}

	b.WriteString("\n" + divider + "\n")
	b.WriteString("                               ASSESSMENT\n")
	b.WriteString(divider + "\n\n")
	fmt.Fprintf(&b, "STATUS: %s\n\n", recommendation.Title)
	fmt.Fprintf(&b, "SUMMARY:\n%s\n\n", recommendation.Message)

	b.WriteString(divider + "\n")
	b.WriteString("                        DETAILED RECOMMENDATIONS\n")
	b.WriteString(divider + "\n\n")
	b.WriteString(classify.DetailedSuggestion(issue) + "\n\n")

	b.WriteString(divider + "\n")
	b.WriteString("                            METRIC DEFINITIONS\n")
	b.WriteString(divider + "\n\n")
	for _, info := range model.AllMetricInfo() {
		direction := "Higher is better"
		if !info.HigherIsBetter {
			direction = "Lower is better"
		}
		fmt.Fprintf(&b, "* %s (%s): %s [%s]\n\n", info.Name, info.Key, info.Tooltip, direction)
	}

	b.WriteString(border + "\n")
	b.WriteString("                              END OF REPORT\n")
	b.WriteString(border + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "report: write district report")
	}
	return nil
}

// WriteState renders the state overview report: summary KPIs, insight
// lines, and the intervention table for the representative worst, median,
// and best districts.
func WriteState(w io.Writer, state string, records []model.DistrictRecord, now time.Time) error {
	sum, err := aggregate.StateSummary(records)
	if err != nil {
		return eris.Wrapf(err, "report: state summary for %s", state)
	}
	insights, err := aggregate.StateInsights(records)
	if err != nil {
		return eris.Wrapf(err, "report: state insights for %s", state)
	}
	reps, err := aggregate.Representatives(records)
	if err != nil {
		return eris.Wrapf(err, "report: representatives for %s", state)
	}

	var b strings.Builder
	b.WriteString(border + "\n")
	b.WriteString("                     AADHAAR N.E.X.U.S - STATE REPORT\n")
	b.WriteString(border + "\n\n")
	fmt.Fprintf(&b, "STATE: %s\n", state)
	fmt.Fprintf(&b, "DISTRICTS: %d\n", sum.Districts)
	fmt.Fprintf(&b, "REPORT DATE: %s\n\n", now.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "AVERAGE SCORES: DEI %.3f | Access %.3f | Update Load %.3f | Stability %.3f\n",
		sum.MeanDEI, sum.MeanAHS, sum.MeanUBS, sum.MeanSRS)
	fmt.Fprintf(&b, "OVERALL TIER: %s\n\n", aggregate.CategorizeDEI(sum.MeanDEI))

	b.WriteString(divider + "\n")
	b.WriteString("                         INSIGHTS & RECOMMENDATIONS\n")
	b.WriteString(divider + "\n\n")
	for _, line := range insights {
		b.WriteString("  " + stripMarkdown(line) + "\n")
	}

	b.WriteString("\n" + divider + "\n")
	b.WriteString("                           INTERVENTION MAPPING\n")
	b.WriteString(divider + "\n\n")
	fmt.Fprintf(&b, "  %-20s %-8s %-28s %s\n", "DISTRICT", "DEI", "DOMINANT RISK", "SUGGESTED ACTION")
	for _, rep := range reps {
		iv := classify.Intervention(rep)
		fmt.Fprintf(&b, "  %-20s %-8.3f %-28s %s\n",
			model.DisplayName(rep.District), rep.DEI, iv.DominantRisk, iv.SuggestedAction)
	}

	b.WriteString("\n" + border + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrapf(err, "report: write state report for %s", state)
	}
	return nil
}

// stripMarkdown removes the bold markers the dashboard layer renders.
func stripMarkdown(s string) string {
	return strings.ReplaceAll(s, "**", "")
}
