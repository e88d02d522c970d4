package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aadhaar-nexus/nexus-cli/internal/aggregate"
	"github.com/aadhaar-nexus/nexus-cli/internal/report"
)

var (
	exportDataPath string
	exportState    string
	exportOutput   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export district scores to XLSX",
	Long:  "Writes one worksheet per state with each district's scores and risk status, states ordered best to worst by mean DEI.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := loadDataset(exportDataPath)
		if err != nil {
			return err
		}
		if exportState != "" {
			records = filterRecords(records, exportState, 0, 1)
			if len(records) == 0 {
				return eris.Errorf("state %q not found in dataset", exportState)
			}
		}

		view, err := aggregate.National(records)
		if err != nil {
			return err
		}

		states := make([]string, 0, len(view.States))
		for _, s := range view.States {
			states = append(states, s.State)
		}

		if err := report.WriteXLSX(exportOutput, states, aggregate.GroupByState(records)); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("path", exportOutput),
			zap.Int("states", len(states)),
			zap.Int("districts", len(records)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDataPath, "data", "", "path to district CSV (default from config)")
	exportCmd.Flags().StringVar(&exportState, "state", "", "export only one state's sheet")
	exportCmd.Flags().StringVar(&exportOutput, "output", "district_scores.xlsx", "output XLSX path")
	rootCmd.AddCommand(exportCmd)
}
