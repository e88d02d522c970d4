package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved classification runs",
	Long:  "Shows classification run snapshots saved with `classify --save`, newest first, so operators can track drift between dataset drops.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runs, err := st.ListClassificationRuns(ctx, runsLimit)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.ClassificationRun) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATE\tDISTRICTS\tMEAN_DEI\tHEALTHY\tACCESS\tUPDATE\tSTABILITY\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-----\t---------\t--------\t-------\t------\t------\t---------\t-------")

	for _, r := range runs {
		scope := r.StateFilter
		if scope == "" {
			scope = "all"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%.3f\t%d\t%d\t%d\t%d\t%s\n",
			truncateID(r.ID),
			scope,
			r.TotalDistricts,
			r.MeanDEI,
			r.RiskMix[model.RiskHealthy],
			r.RiskMix[model.RiskAccessStress],
			r.RiskMix[model.RiskUpdateBurden],
			r.RiskMix[model.RiskStabilityRisk],
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 50, "max number of runs to display")
	rootCmd.AddCommand(runsCmd)
}
