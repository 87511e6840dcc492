// Package metrics exposes the coordinator's run-time counters and gauges
// over a Prometheus HTTP endpoint.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every exported series. One instance is shared across all
// chains in a run.
type Metrics struct {
	registry *prometheus.Registry

	StepsTotal        *prometheus.CounterVec
	AcceptedTotal     *prometheus.CounterVec
	SwapAcceptedTotal *prometheus.CounterVec
	LogPosterior      *prometheus.GaugeVec

	server *http.Server
}

// New registers every series on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		StepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zonesampler_steps_total",
			Help: "Total MCMC steps attempted per chain.",
		}, []string{"chain"}),
		AcceptedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zonesampler_accepted_total",
			Help: "Total accepted MCMC steps per chain and operator.",
		}, []string{"chain", "operator"}),
		SwapAcceptedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zonesampler_swap_accepted_total",
			Help: "Total accepted MC3 swap proposals per chain pair.",
		}, []string{"chain_pair"}),
		LogPosterior: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "zonesampler_log_posterior",
			Help: "Current log-posterior (beta-weighted) per chain.",
		}, []string{"chain"}),
	}
}

// Serve starts the HTTP exporter on addr and blocks until ctx is
// cancelled, then shuts the server down gracefully.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	m.server = &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return m.server.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
