package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/teinac2012/attack-metrics-suite/internal/httpapi"
	"github.com/teinac2012/attack-metrics-suite/internal/report"
	"github.com/teinac2012/attack-metrics-suite/pkg/logger"
	"github.com/teinac2012/attack-metrics-suite/pkg/metrics"
)

var (
	serveAddr    string
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over HTTP",
	Long: `Start the HTTP API:

  POST /v1/reports?format=pdf|json   compose a report from a match record
  GET  /v1/analyses?limit=N          list recorded analyses
  GET  /healthz                      liveness
  GET  /metrics                      Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "do not record analyses")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	rc, err := cfg.ReportConfig()
	if err != nil {
		return err
	}
	m := metrics.New()
	composer := report.NewComposer(rc,
		report.WithLogger(log.Named("report")),
		report.WithMetrics(m),
	)

	var store httpapi.Store
	if !serveNoStore {
		db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
	}

	h := httpapi.New(composer, store, log, m, cfg.RequestTimeout())
	srv := httpapi.NewServer(addr, h.Router())

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", logger.String("addr", addr), logger.String("db", dbPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
