package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/indralab/network-search/internal/assembler"
	"github.com/indralab/network-search/internal/config"
	"github.com/indralab/network-search/internal/external"
	"github.com/indralab/network-search/internal/graphstore"
	netsearchlog "github.com/indralab/network-search/internal/log"
	"github.com/indralab/network-search/internal/metrics"
	netserver "github.com/indralab/network-search/internal/server"
	"github.com/indralab/network-search/internal/spec"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the graph snapshot and serve queries and Prometheus metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	netsearchlog.SetUpLoggerWithLevel(cfg.Log.Level, cfg.Log.Local)

	store, err := loadStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	slog.Info("graph snapshot loaded", "nodes", store.NodeCount())

	if err := metrics.ServePrometheus(cfg.Server.MetricsPort); err != nil {
		return fmt.Errorf("serve: metrics endpoint: %w", err)
	}
	slog.Info("prometheus metrics endpoint started", "port", cfg.Server.MetricsPort)

	a := assembler.Assembler{
		Store: store,
		URLs:  external.DBIdentifierURL{},
	}
	srv := netserver.New(a, int64(cfg.Server.WorkerPoolSize))
	if err := serveHTTP(srv, cfg); err != nil {
		return fmt.Errorf("serve: query endpoint: %w", err)
	}

	if configPath != "" {
		if err := config.Watch(configPath, func(next *config.Config) {
			cfg.ApplyHotReload(next)
			netsearchlog.SetUpLoggerWithLevel(cfg.Log.Level, cfg.Log.Local)
			slog.Info("config reloaded", "worker_pool_size", cfg.Server.WorkerPoolSize, "log_level", cfg.Log.Level)
		}); err != nil {
			slog.Warn("config hot-reload watch failed to start", "error", err)
		}
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()
	slog.Info("shutdown signal received, stopping")
	return nil
}

// serveHTTP exposes a single POST /query endpoint accepting a spec.Input
// JSON body and returning the assembled response. It is deliberately
// minimal: the HTTP surface's full contract (auth, rate limiting, content
// negotiation) is an external concern, not part of the core query pipeline.
func serveHTTP(srv *netserver.Server, cfg *config.Config) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		var in spec.Input
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, subgraph, err := srv.Handle(r.Context(), in,
			cfg.Defaults.DepthLimit, cfg.Defaults.KShortest, cfg.Defaults.UserTimeout)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if subgraph != nil {
			json.NewEncoder(w).Encode(subgraph)
			return
		}
		json.NewEncoder(w).Encode(resp)
	})

	addr := fmt.Sprintf(":%d", cfg.Server.QueryPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		if err := http.Serve(lis, mux); err != nil {
			slog.Error("query endpoint stopped", "error", err)
		}
	}()
	slog.Info("query endpoint started", "addr", addr)
	return nil
}

func loadStore(ctx context.Context, cfg *config.Config) (*graphstore.Store, error) {
	if cfg.GraphStore.GCSBucket != "" {
		return graphstore.LoadGCS(ctx, cfg.GraphStore.GCSBucket, cfg.GraphStore.GCSObject)
	}
	return graphstore.LoadLocal(cfg.GraphStore.LocalPath)
}
