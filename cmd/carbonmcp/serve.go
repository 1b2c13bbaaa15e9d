package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnana997/carbonmcp/pkg/catalog"
	"github.com/gnana997/carbonmcp/pkg/loader"
	mcpserver "github.com/gnana997/carbonmcp/pkg/mcp"
	"github.com/gnana997/carbonmcp/pkg/mcplog"
	"github.com/gnana997/carbonmcp/pkg/metrics"
	"github.com/gnana997/carbonmcp/pkg/render"
	"github.com/gnana997/carbonmcp/pkg/watch"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()
			return a.serve(ctx)
		},
	}

	flags := cmd.Flags()
	flags.String("tool-log", "", "append one JSON line per tool call to this file")
	flags.String("metrics-addr", "", "serve /metrics and /healthz on this address")
	flags.Bool("watch", false, "reload the catalog when a snapshot file changes")

	mustBindFlag(a.v, keyToolLog, "CARBON_TOOL_LOG", flags.Lookup("tool-log"))
	mustBindFlag(a.v, keyMetricsAddr, "CARBON_METRICS_ADDR", flags.Lookup("metrics-addr"))
	mustBindFlag(a.v, keyWatch, "CARBON_WATCH", flags.Lookup("watch"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	logger := a.logger
	store := catalog.NewStore()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	ld := loader.New(store, a.sources(), loader.WithLogger(logger), loader.WithObserver(m))
	if _, err := ld.Load(); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	renderer, err := render.NewRenderer(store, render.DefaultCacheSize)
	if err != nil {
		return err
	}

	toolLog, err := mcplog.NewLogger(a.v.GetString(keyToolLog))
	if err != nil {
		return err
	}
	defer toolLog.Close()

	srv := mcpserver.NewServer(mcpserver.Config{
		Query:     catalog.NewQueryService(store),
		Renderer:  renderer,
		Refresher: ld,
		ToolLog:   toolLog,
		Metrics:   m,
		Logger:    logger,
	})

	go func() {
		opts := metrics.HTTPServerOptions{
			Addr:     a.v.GetString(keyMetricsAddr),
			Registry: registry,
			Store:    store,
		}
		if err := metrics.StartHTTPServer(ctx, opts, logger); err != nil {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	if a.v.GetBool(keyWatch) {
		w, err := watch.New(ld, ld.Sources().Paths(), watch.Options{Logger: logger})
		if err != nil {
			return err
		}
		defer w.Stop()
		if err := w.Start(); err != nil {
			return err
		}
	}

	logger.Info("serving on stdio", zap.Strings("sources", ld.Sources().Paths()))
	if err := srv.Serve(ctx, a.stdin, a.stdout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
