package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aadhaar-nexus/nexus-cli/internal/equityfile"
	"github.com/aadhaar-nexus/nexus-cli/internal/model"
	"github.com/aadhaar-nexus/nexus-cli/internal/server"
)

var (
	servePort     int
	serveDataPath string
	serveWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only equity API",
	Long:  "Loads the district dataset into memory and serves national, state, and district views over HTTP. With --watch the dataset is reloaded whenever the CSV changes.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		dataPath := serveDataPath
		if dataPath == "" {
			dataPath = cfg.Data.Path
		}
		records, err := loadDataset(dataPath)
		if err != nil {
			return err
		}

		srvr := server.New(records, server.Options{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			DistributionBins: cfg.Report.DistributionBins,
			TopStates:        cfg.Report.TopStates,
		})

		if serveWatch || cfg.Data.Watch {
			go func() {
				err := equityfile.Watch(ctx, dataPath, func(updated []model.DistrictRecord) {
					srvr.SetRecords(updated)
				})
				if err != nil && ctx.Err() == nil {
					zap.L().Error("dataset watch stopped", zap.Error(err))
				}
			}()
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srvr.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownServer(srv, 10*time.Second)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.Int("districts", len(records)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownServer drains in-flight requests under a fresh timeout; the
// signal context is already cancelled by the time shutdown starts.
func shutdownServer(srv *http.Server, timeout time.Duration) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveDataPath, "data", "", "path to district CSV (default from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the dataset when the CSV changes")
	rootCmd.AddCommand(serveCmd)
}
