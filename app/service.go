// Package app wires configuration, input loading, the dispatch engine and
// the exporters into a runnable service.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nulenergi/microgrid/config"
	"github.com/nulenergi/microgrid/core/aggregate"
	"github.com/nulenergi/microgrid/core/dispatch"
	coremetrics "github.com/nulenergi/microgrid/core/metrics"
	"github.com/nulenergi/microgrid/core/model"
	"github.com/nulenergi/microgrid/infra/export"
	"github.com/nulenergi/microgrid/infra/loader"
	"github.com/nulenergi/microgrid/infra/logger"
	"github.com/nulenergi/microgrid/infra/metrics"
)

// Service orchestrates a simulation: load the hourly series, run the
// dispatch engine and write the result tables.
type Service struct {
	cfg    *config.Config
	log    logger.Logger
	sink   coremetrics.Sink
	influx *metrics.InfluxSink
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	var influx *metrics.InfluxSink
	if cfg.Metrics.InfluxEnabled {
		sink := metrics.NewInfluxSinkWithFallback(cfg.Metrics.Influx)
		if is, ok := sink.(*metrics.InfluxSink); ok {
			influx = is
		}
		sinks = append(sinks, sink)
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	return &Service{cfg: cfg, log: logg, sink: sink, influx: influx}, nil
}

// Run executes a single simulation with the configured plant. The metrics
// endpoint, when enabled, stays up until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.startProm(ctx)

	params, err := s.cfg.Simulation.ToParameters()
	if err != nil {
		return fmt.Errorf("simulation parameters: %w", err)
	}
	inputs, err := loader.Load(s.cfg.Input, params.HeatPump)
	if err != nil {
		return fmt.Errorf("load input series: %w", err)
	}

	res, err := s.run(params, "baseline", inputs)
	if err != nil {
		return err
	}
	return s.export(s.cfg.Output.Dir, res)
}

func (s *Service) startProm(ctx context.Context) {
	if !s.cfg.Metrics.PrometheusEnabled {
		return
	}
	addr := s.cfg.Metrics.PrometheusAddr
	go func() {
		if err := metrics.StartPromServer(ctx, addr); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

func (s *Service) run(params model.SystemParameters, scenario string, inputs []model.HourlyInput) (*dispatch.Result, error) {
	engine, err := dispatch.New(&params, logger.New("engine"),
		dispatch.WithSink(s.sink),
		dispatch.WithScenario(scenario),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	res, err := engine.Run(inputs)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario, err)
	}
	return res, nil
}

// export writes the enabled result tables into dir.
func (s *Service) export(dir string, res *dispatch.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	out := s.cfg.Output

	write := func(name string, fn func(f *os.File) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		return f.Close()
	}

	if out.Hourly {
		if err := write("hourly.csv", func(f *os.File) error {
			return export.WriteHourlyCSV(f, res.Records)
		}); err != nil {
			return err
		}
	}

	days := aggregate.Daily(res.Records)
	if out.Daily {
		if err := write("daily.csv", func(f *os.File) error {
			return export.WriteDailyCSV(f, days)
		}); err != nil {
			return err
		}
	}
	if out.Seasonal {
		seasons := aggregate.Seasonal(days)
		if err := write("seasonal.csv", func(f *os.File) error {
			return export.WriteSeasonalCSV(f, seasons)
		}); err != nil {
			return err
		}
	}
	if out.Summary {
		sum := export.Summary{
			RunID:    res.RunID,
			Scenario: res.Scenario,
			Totals:   aggregate.Sum(res.Records),
			Split:    aggregate.Split(res.Records),
		}
		if err := write("summary.json", func(f *os.File) error {
			return export.WriteSummaryJSON(f, sum)
		}); err != nil {
			return err
		}
	}
	s.log.Infof("results written to %s", dir)
	return nil
}

// Close releases the metric sinks.
func (s *Service) Close() error {
	if s.influx != nil {
		s.influx.Close()
	}
	return nil
}
