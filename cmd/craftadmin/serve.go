package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-craftadmin/components/rows"
)

const shutdownTimeout = 5 * time.Second

func newServeRowsCmd(a *app) *cobra.Command {
	var (
		file string
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve-rows",
		Short: "Serve fixture rows on /api/<resource>/row",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := a.rowsHandler(file)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), a.logger, a.rowsServers(handler, addr, a.metricsAddr(cmd))...)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Rows fixture (YAML); the bundled recipe rows are used when empty")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "Listen address for the row API")
	cmd.Flags().String("metrics", "", "Listen address for /metrics; defaults to metrics.addr, empty disables")
	return cmd
}

// metricsAddr prefers an explicit --metrics over the configured address.
func (a *app) metricsAddr(cmd *cobra.Command) string {
	if cmd.Flags().Changed("metrics") {
		addr, _ := cmd.Flags().GetString("metrics")
		return addr
	}
	return a.cfg.Metrics.Addr
}

func (a *app) rowsServers(handler http.Handler, addr, metricsAddr string) []*http.Server {
	servers := []*http.Server{{Addr: addr, Handler: handler, ReadHeaderTimeout: 5 * time.Second}}
	if metricsAddr == "" {
		return servers
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return append(servers, &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second})
}

// rowsHandler mounts the rows component at the root and instruments it.
func (a *app) rowsHandler(file string) (http.Handler, error) {
	data, err := loadRows(file)
	if err != nil {
		return nil, err
	}

	component := rows.New(rows.WithRows(data))
	mux := http.NewServeMux()
	pattern, err := component.RegisterRoutes(mux, "/")
	if err != nil {
		return nil, err
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "craftadmin",
		Subsystem: "rows",
		Name:      "requests_total",
		Help:      "Row API requests by status code and method.",
	}, []string{"code", "method"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "craftadmin",
		Subsystem: "rows",
		Name:      "request_duration_seconds",
		Help:      "Row API request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"code", "method"})
	if err := a.registry.Register(requests); err != nil {
		return nil, err
	}
	if err := a.registry.Register(duration); err != nil {
		return nil, err
	}

	a.logger.Info("rows fixture loaded",
		zap.String("pattern", pattern),
		zap.Strings("resources", component.Resources()),
	)
	return promhttp.InstrumentHandlerDuration(duration,
		promhttp.InstrumentHandlerCounter(requests, mux),
	), nil
}

func loadRows(file string) (map[string][]rows.Row, error) {
	if file == "" {
		return rows.DefaultRows()
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("serve-rows: %w", err)
	}
	defer f.Close()
	return rows.LoadRows(f)
}

func serve(ctx context.Context, logger *zap.Logger, servers ...*http.Server) error {
	errs := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}(srv)
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errs:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Shutdown(shutdownCtx)
	}
	return err
}
