package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aadhaar-nexus/nexus-cli/internal/aggregate"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
	"github.com/aadhaar-nexus/nexus-cli/internal/report"
)

var (
	reportDataPath  string
	reportState     string
	reportDistrict  string
	reportAllStates bool
	reportOutput    string
	reportOutDir    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate district or state text reports",
	Long:  "Writes the bordered text report for one district, one state, or every state. District reports compare the district against its state peers.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := loadDataset(reportDataPath)
		if err != nil {
			return err
		}
		now := time.Now().UTC()

		switch {
		case reportDistrict != "":
			if reportState == "" {
				return eris.New("--district requires --state for the peer group")
			}
			return writeDistrictReport(records, now)
		case reportAllStates:
			return writeAllStateReports(cmd.Context(), records, now)
		case reportState != "":
			return writeStateReport(records, now)
		default:
			return eris.New("one of --district, --state, or --all-states is required")
		}
	},
}

// reportWriter opens --output or falls back to stdout.
func reportWriter() (*os.File, func(), error) {
	if reportOutput == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(reportOutput)
	if err != nil {
		return nil, nil, eris.Wrap(err, "report: create output file")
	}
	return f, func() { _ = f.Close() }, nil
}

func writeDistrictReport(records []model.DistrictRecord, now time.Time) error {
	peers := filterRecords(records, reportState, 0, 1)
	if len(peers) == 0 {
		return eris.Errorf("state %q not found in dataset", reportState)
	}

	var rec *model.DistrictRecord
	for i := range peers {
		if strings.EqualFold(peers[i].District, reportDistrict) {
			rec = &peers[i]
			break
		}
	}
	if rec == nil {
		return eris.Errorf("district %q not found in %s", reportDistrict, reportState)
	}

	out, closeOut, err := reportWriter()
	if err != nil {
		return err
	}
	defer closeOut()

	return report.WriteDistrict(out, *rec, peers, now)
}

func writeStateReport(records []model.DistrictRecord, now time.Time) error {
	group := filterRecords(records, reportState, 0, 1)
	if len(group) == 0 {
		return eris.Errorf("state %q not found in dataset", reportState)
	}

	out, closeOut, err := reportWriter()
	if err != nil {
		return err
	}
	defer closeOut()

	return report.WriteState(out, group[0].State, group, now)
}

// writeAllStateReports renders every state concurrently into --out-dir.
func writeAllStateReports(ctx context.Context, records []model.DistrictRecord, now time.Time) error {
	if err := os.MkdirAll(reportOutDir, 0o755); err != nil {
		return eris.Wrap(err, "report: create output directory")
	}

	groups := aggregate.GroupByState(records)
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for state, group := range groups {
		state, group := state, group
		g.Go(func() error {
			path := filepath.Join(reportOutDir, stateFileName(state))
			f, err := os.Create(path)
			if err != nil {
				return eris.Wrapf(err, "report: create %s", path)
			}
			defer f.Close() //nolint:errcheck

			if err := report.WriteState(f, state, group, now); err != nil {
				return err
			}
			zap.L().Info("state report written",
				zap.String("state", state),
				zap.String("path", path),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Printf("Wrote %d state reports to %s\n", len(groups), reportOutDir)
	return nil
}

// stateFileName turns "Andhra Pradesh" into "andhra_pradesh.txt".
func stateFileName(state string) string {
	name := strings.ToLower(state)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "&", "and")
	return name + ".txt"
}

func init() {
	reportCmd.Flags().StringVar(&reportDataPath, "data", "", "path to district CSV (default from config)")
	reportCmd.Flags().StringVar(&reportState, "state", "", "state name")
	reportCmd.Flags().StringVar(&reportDistrict, "district", "", "district name (requires --state)")
	reportCmd.Flags().BoolVar(&reportAllStates, "all-states", false, "write one report per state")
	reportCmd.Flags().StringVar(&reportOutput, "output", "", "write report to file instead of stdout")
	reportCmd.Flags().StringVar(&reportOutDir, "out-dir", "reports", "output directory for --all-states")
	rootCmd.AddCommand(reportCmd)
}
