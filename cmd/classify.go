package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aadhaar-nexus/nexus-cli/internal/aggregate"
	"github.com/aadhaar-nexus/nexus-cli/internal/classify"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

var (
	classifyDataPath string
	classifyState    string
	classifyDistrict string
	classifyMinDEI   float64
	classifyMaxDEI   float64
	classifyLimit    int
	classifyFormat   string
	classifyOutput   string
	classifySave     bool
)

// classifiedRow is one district with its derived classifications.
type classifiedRow struct {
	model.DistrictRecord
	RiskCategory model.RiskCategory        `json:"risk_category"`
	IssueType    model.IssueType           `json:"issue_type"`
	Level        model.RecommendationLevel `json:"level"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify districts into risk tiers",
	Long:  "Loads the district dataset, applies the risk rules, and prints each district with its risk category, issue type, and recommendation level, worst DEI first.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := loadDataset(classifyDataPath)
		if err != nil {
			return err
		}

		filtered := filterRecords(records, classifyState, classifyMinDEI, classifyMaxDEI)
		if classifyDistrict != "" {
			var narrowed []model.DistrictRecord
			for _, rec := range filtered {
				if strings.EqualFold(rec.District, classifyDistrict) {
					narrowed = append(narrowed, rec)
				}
			}
			filtered = narrowed
		}
		if len(filtered) == 0 {
			return eris.New("no districts match the given filters")
		}

		sorted := aggregate.SortByDEI(filtered, true)
		if classifyLimit > 0 && classifyLimit < len(sorted) {
			sorted = sorted[:classifyLimit]
		}

		rows := make([]classifiedRow, 0, len(sorted))
		for _, rec := range sorted {
			rows = append(rows, classifiedRow{
				DistrictRecord: rec,
				RiskCategory:   classify.RiskCategory(rec),
				IssueType:      classify.IssueType(rec),
				Level:          classify.Recommend(rec).Level,
			})
		}

		out := os.Stdout
		if classifyOutput != "" {
			f, err := os.Create(classifyOutput)
			if err != nil {
				return eris.Wrap(err, "classify: create output file")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		switch classifyFormat {
		case "table":
			formatClassifyTable(out, rows)
			formatClassifySummary(out, filtered)
		case "csv":
			if err := formatClassifyCSV(out, rows); err != nil {
				return err
			}
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rows); err != nil {
				return eris.Wrap(err, "classify: encode json")
			}
		default:
			return eris.Errorf("unknown format %q (want table, csv, or json)", classifyFormat)
		}

		if classifySave {
			if err := saveRun(ctx, filtered); err != nil {
				return err
			}
		}
		return nil
	},
}

func filterRecords(records []model.DistrictRecord, state string, minDEI, maxDEI float64) []model.DistrictRecord {
	var out []model.DistrictRecord
	for _, rec := range records {
		if state != "" && !strings.EqualFold(rec.State, state) {
			continue
		}
		if rec.DEI < minDEI || rec.DEI > maxDEI {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func saveRun(ctx context.Context, records []model.DistrictRecord) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	sum, err := aggregate.StateSummary(records)
	if err != nil {
		return eris.Wrap(err, "classify: summarize run")
	}

	run := model.ClassificationRun{
		StateFilter:    classifyState,
		TotalDistricts: len(records),
		MeanDEI:        sum.MeanDEI,
		RiskMix:        aggregate.RiskCounts(records),
	}
	if err := st.SaveClassificationRun(ctx, run); err != nil {
		return err
	}

	zap.L().Info("classification run saved",
		zap.Int("districts", run.TotalDistricts),
		zap.Float64("mean_dei", run.MeanDEI),
	)
	return nil
}

// formatClassifyTable writes a tabular district listing to w.
func formatClassifyTable(out io.Writer, rows []classifiedRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "STATE\tDISTRICT\tDEI\tAHS\tUBS\tSRS\tRISK\tISSUE\tLEVEL")
	_, _ = fmt.Fprintln(w, "-----\t--------\t---\t---\t---\t---\t----\t-----\t-----")

	for _, r := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%.3f\t%.3f\t%s\t%s\t%s\n",
			r.State,
			model.DisplayName(r.District),
			r.DEI, r.AHS, r.UBS, r.SRS,
			r.RiskCategory,
			r.IssueType,
			r.Level,
		)
	}
	_ = w.Flush()
}

// formatClassifySummary writes the risk-mix summary block for the full
// filtered set, not just the displayed rows.
func formatClassifySummary(out io.Writer, records []model.DistrictRecord) {
	sum, err := aggregate.StateSummary(records)
	if err != nil {
		return
	}
	counts := aggregate.RiskCounts(records)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "\nDistricts:\t%d\n", len(records))
	_, _ = fmt.Fprintf(w, "Mean DEI:\t%.3f (%s)\n", sum.MeanDEI, aggregate.CategorizeDEI(sum.MeanDEI))
	for _, cat := range model.RiskCategories {
		_, _ = fmt.Fprintf(w, "%s:\t%d\n", cat, counts[cat])
	}
	_ = w.Flush()
}

func formatClassifyCSV(out io.Writer, rows []classifiedRow) error {
	w := csv.NewWriter(out)
	header := []string{"state", "district", "DEI", "AHS", "UBS", "SRS", "risk_category", "issue_type", "level"}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "classify: write csv header")
	}
	for _, r := range rows {
		row := []string{
			r.State,
			r.District,
			strconv.FormatFloat(r.DEI, 'f', -1, 64),
			strconv.FormatFloat(r.AHS, 'f', -1, 64),
			strconv.FormatFloat(r.UBS, 'f', -1, 64),
			strconv.FormatFloat(r.SRS, 'f', -1, 64),
			string(r.RiskCategory),
			string(r.IssueType),
			string(r.Level),
		}
		if err := w.Write(row); err != nil {
			return eris.Wrap(err, "classify: write csv row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "classify: flush csv")
}

func init() {
	classifyCmd.Flags().StringVar(&classifyDataPath, "data", "", "path to district CSV (default from config)")
	classifyCmd.Flags().StringVar(&classifyState, "state", "", "restrict to one state")
	classifyCmd.Flags().StringVar(&classifyDistrict, "district", "", "restrict to one district")
	classifyCmd.Flags().Float64Var(&classifyMinDEI, "min-dei", 0, "keep districts with DEI >= this value")
	classifyCmd.Flags().Float64Var(&classifyMaxDEI, "max-dei", 1, "keep districts with DEI <= this value")
	classifyCmd.Flags().IntVar(&classifyLimit, "limit", 0, "max districts to display (0 = all)")
	classifyCmd.Flags().StringVar(&classifyFormat, "format", "table", "output format: table, csv, or json")
	classifyCmd.Flags().StringVar(&classifyOutput, "output", "", "write output to file instead of stdout")
	classifyCmd.Flags().BoolVar(&classifySave, "save", false, "persist a classification run snapshot to the store")
	rootCmd.AddCommand(classifyCmd)
}
