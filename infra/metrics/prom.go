// Package metrics implements the sink interfaces of core/metrics for
// Prometheus and InfluxDB.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/nulenergi/microgrid/core/metrics"
)

// PromSink records run-level simulation metrics in Prometheus collectors.
type PromSink struct {
	hours        *prometheus.CounterVec
	anomalies    *prometheus.CounterVec
	unservedEl   *prometheus.CounterVec
	unservedHeat *prometheus.CounterVec
	runs         *prometheus.CounterVec
}

// NewPromSink registers the simulation metrics on the default Prometheus
// registerer. The Prometheus server should be started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		hours: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simulation_hours_total",
			Help: "Total number of simulated hours",
		}, []string{"scenario"}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simulation_conservation_anomalies_total",
			Help: "Hours whose energy balance did not close within tolerance",
		}, []string{"scenario"}),
		unservedEl: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simulation_unserved_electricity_kwh_total",
			Help: "Total unserved electrical demand in kWh",
		}, []string{"scenario"}),
		unservedHeat: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simulation_unserved_heat_kwh_total",
			Help: "Total unserved heat demand in kWh",
		}, []string{"scenario"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simulation_runs_total",
			Help: "Completed simulation runs",
		}, []string{"scenario"}),
	}
	for _, c := range []**prometheus.CounterVec{&s.hours, &s.anomalies, &s.unservedEl, &s.unservedHeat, &s.runs} {
		if err := reg.Register(*c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				*c = are.ExistingCollector.(*prometheus.CounterVec)
			} else {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordHourlyFlow counts the hour and its unserved energy.
func (s *PromSink) RecordHourlyFlow(ev coremetrics.HourlyFlowEvent) error {
	s.hours.WithLabelValues(ev.Scenario).Inc()
	if ev.Record.UnservedElectricityKW > 0 {
		s.unservedEl.WithLabelValues(ev.Scenario).Add(ev.Record.UnservedElectricityKW)
	}
	if ev.Record.UnservedHeatKW > 0 {
		s.unservedHeat.WithLabelValues(ev.Scenario).Add(ev.Record.UnservedHeatKW)
	}
	return nil
}

// RecordAnomaly counts a conservation anomaly.
func (s *PromSink) RecordAnomaly(ev coremetrics.AnomalyEvent) error {
	s.anomalies.WithLabelValues(ev.Scenario).Inc()
	return nil
}

// RecordRunSummary counts a completed run.
func (s *PromSink) RecordRunSummary(ev coremetrics.RunSummaryEvent) error {
	s.runs.WithLabelValues(ev.Scenario).Inc()
	return nil
}

// StartPromServer starts an HTTP server exposing Prometheus metrics on the
// given address. The server runs until the provided context is canceled.
// A dedicated ServeMux is used to avoid interfering with other handlers.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
