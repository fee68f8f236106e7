package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vibe-splice/internal/duckdb"
	"github.com/inodb/vibe-splice/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored splicing events over HTTP",
		Long: `Serve the runs stored by "vibe-splice detect --db" as a JSON API.

Endpoints:
  GET /health
  GET /runs
  GET /runs/{runID}
  GET /runs/{runID}/summary
  GET /runs/{runID}/events?type=CE
  GET /runs/{runID}/genes/{geneID}/events

The run id "latest" stands for the newest run.`,
		Example: `  vibe-splice serve --db events.duckdb
  vibe-splice serve --db events.duckdb --addr 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"db.path":    "db",
				"serve.addr": "addr",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := viper.GetString("db.path")
			if dbPath == "" {
				return &usageError{errors.New("--db is required")}
			}
			return a.serve(cmd.Context(), dbPath, viper.GetString("serve.addr"))
		},
	}

	cmd.Flags().String("db", "", "DuckDB event store to serve")
	cmd.Flags().String("addr", ":8080", "Listen address")

	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *app) serve(ctx context.Context, dbPath, addr string) error {
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening event store: %w", err)
	}
	defer store.Close()

	srv := server.New(store)
	srv.SetLogger(a.logger)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", addr), zap.String("db", dbPath))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
