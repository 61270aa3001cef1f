package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/nulenergi/microgrid/core/dispatch"
	"github.com/nulenergi/microgrid/core/model"
	"github.com/nulenergi/microgrid/infra/loader"
)

// Scenario is a named variation of the configured plant. Unset fields keep
// the base configuration; a scenario can switch components off to quantify
// their contribution.
type Scenario struct {
	Name            string `yaml:"name"`
	DisableBattery  bool   `yaml:"disable_battery"`
	DisableHydrogen bool   `yaml:"disable_hydrogen"`
	Islanded        *bool  `yaml:"islanded"`
	HeatPumpSource  string `yaml:"heat_pump_source"`
}

// Apply derives the scenario's parameters from the base plant.
func (sc Scenario) Apply(base model.SystemParameters) (model.SystemParameters, error) {
	p := base
	if sc.DisableBattery {
		p.BatteryCapacityKWh = 0
		p.Limits.BatteryChargeKW = 0
		p.Limits.BatteryDischargeKW = 0
	}
	if sc.DisableHydrogen {
		p.H2CapacityKWh = 0
		p.H2InitKWh = 0
		p.Limits.ElectrolyserKW = 0
		p.Limits.FuelCellKW = 0
	}
	if sc.Islanded != nil {
		p.Islanded = *sc.Islanded
	}
	if sc.HeatPumpSource != "" {
		source, err := model.ParseHeatPumpSource(sc.HeatPumpSource)
		if err != nil {
			return model.SystemParameters{}, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		p.HeatPump = source
	}
	return p, nil
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads a scenario file. Names must be unique and non-empty
// because they become output directories and metric labels.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios in %s", path)
	}
	seen := make(map[string]bool, len(f.Scenarios))
	for _, sc := range f.Scenarios {
		if sc.Name == "" {
			return nil, fmt.Errorf("scenario without a name")
		}
		if seen[sc.Name] {
			return nil, fmt.Errorf("duplicate scenario %q", sc.Name)
		}
		seen[sc.Name] = true
	}
	return f.Scenarios, nil
}

// Compare runs every scenario against the same input series and writes each
// scenario's tables into its own subdirectory of the output dir. Scenarios
// are independent, so they run concurrently.
func (s *Service) Compare(ctx context.Context, scenarios []Scenario) error {
	s.startProm(ctx)

	base, err := s.cfg.Simulation.ToParameters()
	if err != nil {
		return fmt.Errorf("simulation parameters: %w", err)
	}
	inputs, err := loader.Load(s.cfg.Input, base.HeatPump)
	if err != nil {
		return fmt.Errorf("load input series: %w", err)
	}

	var (
		wg   sync.WaitGroup
		errs = make([]error, len(scenarios))
	)
	for i, sc := range scenarios {
		wg.Add(1)
		go func(i int, sc Scenario) {
			defer wg.Done()
			errs[i] = s.runScenario(base, sc, inputs)
		}(i, sc)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (s *Service) runScenario(base model.SystemParameters, sc Scenario, inputs []model.HourlyInput) error {
	params, err := sc.Apply(base)
	if err != nil {
		return err
	}
	// Scenarios with a ground-source pump need that source's COP column.
	if params.HeatPump != base.HeatPump {
		inputs, err = loader.Load(s.cfg.Input, params.HeatPump)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
	}
	var res *dispatch.Result
	if res, err = s.run(params, sc.Name, inputs); err != nil {
		return err
	}
	return s.export(filepath.Join(s.cfg.Output.Dir, sc.Name), res)
}
