package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aadhaar-nexus/nexus-cli/internal/equityfile"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
)

var (
	importCSVPath    string
	importMasterPath string
	importToStore    bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Merge a state CSV into the master dataset",
	Long:  "Merges a per-state scores CSV into the master dataset, replacing any existing rows for the incoming states. Re-running the same import is a no-op.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		masterPath := importMasterPath
		if masterPath == "" {
			masterPath = cfg.Data.Path
		}

		incoming, err := equityfile.Load(importCSVPath)
		if err != nil {
			return eris.Wrap(err, "import: load incoming csv")
		}
		if len(incoming) == 0 {
			return eris.Errorf("import: %s has no districts", importCSVPath)
		}

		master, err := loadMaster(masterPath)
		if err != nil {
			return err
		}

		merged := equityfile.Merge(master, incoming)
		if err := equityfile.Save(masterPath, merged); err != nil {
			return eris.Wrap(err, "import: save master csv")
		}

		zap.L().Info("import complete",
			zap.Int("incoming", len(incoming)),
			zap.Int("total", len(merged)),
			zap.String("master", masterPath),
		)

		if !importToStore {
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		if err := st.ReplaceDistricts(ctx, merged); err != nil {
			return err
		}
		zap.L().Info("store refreshed", zap.Int("districts", len(merged)))
		return nil
	},
}

// loadMaster reads the master CSV. A missing file starts an empty
// dataset; any other stat failure is an error so a transient problem
// cannot silently shrink the master to the incoming rows.
func loadMaster(path string) ([]model.DistrictRecord, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "import: stat master csv %s", path)
	}
	records, err := equityfile.Load(path)
	if err != nil {
		return nil, eris.Wrap(err, "import: load master csv")
	}
	return records, nil
}

func init() {
	importCmd.Flags().StringVar(&importCSVPath, "csv", "", "path to incoming state CSV (required)")
	_ = importCmd.MarkFlagRequired("csv")
	importCmd.Flags().StringVar(&importMasterPath, "master", "", "path to master CSV (default from config)")
	importCmd.Flags().BoolVar(&importToStore, "store", false, "also replace the districts table in the store")
	rootCmd.AddCommand(importCmd)
}
