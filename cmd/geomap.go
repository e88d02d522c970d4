package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/aadhaar-nexus/nexus-cli/internal/aggregate"
	"github.com/aadhaar-nexus/nexus-cli/internal/geo"
)

var (
	geomapDataPath     string
	geomapBoundaryURL  string
	geomapBoundaryFile string
	geomapOutput       string
)

var geomapCmd = &cobra.Command{
	Use:   "geomap",
	Short: "Build the heatmap-ready state boundary file",
	Long:  "Fetches the India state boundary GeoJSON, joins each state's mean DEI, district count, tier, and risk mix into the feature properties, and writes the enriched file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("geomap"); err != nil {
			return err
		}
		ctx := cmd.Context()

		records, err := loadDataset(geomapDataPath)
		if err != nil {
			return err
		}
		view, err := aggregate.National(records)
		if err != nil {
			return err
		}

		var fc *geojson.FeatureCollection
		if geomapBoundaryFile != "" {
			fc, err = geo.LoadStates(geomapBoundaryFile)
		} else {
			url := geomapBoundaryURL
			if url == "" {
				url = cfg.Geo.BoundaryURL
			}
			client := geo.NewClient(geo.ClientOptions{
				UserAgent: cfg.Geo.UserAgent,
				Timeout:   time.Duration(cfg.Geo.TimeoutSecs) * time.Second,
			})
			fc, err = client.FetchStates(ctx, url)
		}
		if err != nil {
			return err
		}

		result := geo.JoinStates(fc, view.States)
		if err := geo.WriteStates(geomapOutput, fc); err != nil {
			return err
		}

		zap.L().Info("geomap written",
			zap.String("path", geomapOutput),
			zap.Int("matched", result.Matched),
			zap.Int("unmatched", result.Unmatched),
			zap.Strings("missing_states", result.MissingStates),
		)
		return nil
	},
}

func init() {
	geomapCmd.Flags().StringVar(&geomapDataPath, "data", "", "path to district CSV (default from config)")
	geomapCmd.Flags().StringVar(&geomapBoundaryURL, "boundary-url", "", "boundary GeoJSON URL (default from config)")
	geomapCmd.Flags().StringVar(&geomapBoundaryFile, "boundary-file", "", "local boundary GeoJSON file (skips fetch)")
	geomapCmd.Flags().StringVar(&geomapOutput, "output", "india_states_dei.geojson", "output GeoJSON path")
	rootCmd.AddCommand(geomapCmd)
}
