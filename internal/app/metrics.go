package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"go.uber.org/fx"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meshnet-io/meshd/internal/core/supervisor"
)

type metricsParams struct {
	fx.In

	LC         fx.Lifecycle
	Supervisor *supervisor.Supervisor
	Addr       string `name:"metrics_addr"`
}

// registerMetricsServer optionally serves the Supervisor's private
// Prometheus registry on a loopback /metrics endpoint. An empty Addr
// disables it entirely; metrics are always collected either way.
func registerMetricsServer(p metricsParams) {
	if p.Addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(p.Supervisor.Registry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: p.Addr, Handler: mux}

	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", p.Addr)
			if err != nil {
				log.Warn("metrics listener failed to bind, continuing without it", "addr", p.Addr, "err", err)
				return nil
			}
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					log.Warn("metrics server stopped", "err", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
