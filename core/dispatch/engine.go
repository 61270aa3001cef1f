// Package dispatch contains the hourly balancing engine: the deterministic
// state machine that routes surplus and deficit power between storage, the
// heat system and the grid while enforcing physical limits and energy
// conservation.
package dispatch

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/nulenergi/microgrid/core/heat"
	"github.com/nulenergi/microgrid/core/metrics"
	"github.com/nulenergi/microgrid/core/model"
	"github.com/nulenergi/microgrid/core/storage"
	"github.com/nulenergi/microgrid/infra/logger"
)

// Engine runs the priority dispatch over a year of hourly inputs. Storage
// state is created fresh on every Run, so an Engine can replay the same
// series any number of times with identical results.
type Engine struct {
	params   *model.SystemParameters
	log      logger.Logger
	sink     metrics.Sink
	policy   PolicyFactory
	scenario string
	strict   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink attaches a metrics sink; defaults to NopSink.
func WithSink(s metrics.Sink) Option { return func(e *Engine) { e.sink = s } }

// WithScenario labels the run's events with a scenario name.
func WithScenario(name string) Option { return func(e *Engine) { e.scenario = name } }

// WithPolicy replaces the default battery-before-hydrogen priority order.
func WithPolicy(f PolicyFactory) Option { return func(e *Engine) { e.policy = f } }

// WithStrictConservation aborts the run on the first conservation anomaly
// instead of logging it. Intended for tests and development.
func WithStrictConservation() Option { return func(e *Engine) { e.strict = true } }

// New validates the parameters and builds an engine. Invalid physical
// parameters are rejected here so the hourly loop never has to.
func New(params *model.SystemParameters, log logger.Logger, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	e := &Engine{params: params, log: log, sink: metrics.NopSink{}, policy: DefaultPolicy}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// Result is the ordered outcome of one run.
type Result struct {
	RunID     string
	Scenario  string
	Records   []model.HourlyFlowRecord
	Anomalies int
}

// Run executes the dispatch over the given chronological, gap-free inputs
// and returns one reconciled flow record per hour.
func (e *Engine) Run(inputs []model.HourlyInput) (*Result, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("empty input series")
	}

	p := e.params
	battery := storage.NewBattery(p)
	hydrogen := storage.NewHydrogenStore(p)
	handlers := e.policy(battery, hydrogen)
	for _, h := range handlers {
		if h.Name() != HandlerBattery && h.Name() != HandlerHydrogen {
			return nil, fmt.Errorf("unknown storage handler %q", h.Name())
		}
	}

	res := &Result{RunID: uuid.NewString(), Scenario: e.scenario}
	res.Records = make([]model.HourlyFlowRecord, 0, len(inputs))

	var importKWh, exportKWh, unservedElKWh, unservedHeatKWh float64

	for i, in := range inputs {
		if i > 0 && in.Hour != inputs[i-1].Hour+1 {
			return nil, fmt.Errorf("input series has a gap between hours %d and %d", inputs[i-1].Hour, in.Hour)
		}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("input contract: %w", err)
		}

		rec := e.step(in, handlers, battery, hydrogen)

		if imb, himb := rec.ElectricalImbalance(), rec.HeatImbalance(); math.Abs(imb) > p.EPS || math.Abs(himb) > p.EPS {
			res.Anomalies++
			if e.strict {
				return nil, fmt.Errorf("hour %d: energy balance open (electrical %g kW, heat %g kW)", rec.Hour, imb, himb)
			}
			e.log.Warnf("hour %d: energy balance open: electrical=%g heat=%g record=%+v", rec.Hour, imb, himb, rec)
			if err := e.sink.RecordAnomaly(metrics.AnomalyEvent{
				RunID: res.RunID, Scenario: e.scenario, Hour: rec.Hour, ElectricalKW: imb, HeatKW: himb,
			}); err != nil {
				e.log.Warnf("record anomaly: %v", err)
			}
		}

		if err := e.sink.RecordHourlyFlow(metrics.HourlyFlowEvent{RunID: res.RunID, Scenario: e.scenario, Record: rec}); err != nil {
			e.log.Warnf("record hourly flow: %v", err)
		}

		importKWh += rec.GridImportKW
		exportKWh += rec.GridExportKW
		unservedElKWh += rec.UnservedElectricityKW
		unservedHeatKWh += rec.UnservedHeatKW
		res.Records = append(res.Records, rec)
	}

	if err := e.sink.RecordRunSummary(metrics.RunSummaryEvent{
		RunID:                  res.RunID,
		Scenario:               e.scenario,
		Hours:                  len(res.Records),
		GridImportKWh:          importKWh,
		GridExportKWh:          exportKWh,
		UnservedElectricityKWh: unservedElKWh,
		UnservedHeatKWh:        unservedHeatKWh,
		Anomalies:              res.Anomalies,
	}); err != nil {
		e.log.Warnf("record run summary: %v", err)
	}
	e.log.Infof("run %s finished: %d hours, import=%.1f kWh export=%.1f kWh anomalies=%d",
		res.RunID, len(res.Records), importKWh, exportKWh, res.Anomalies)
	return res, nil
}

// step dispatches a single hour. The heat pump's electrical draw is part of
// the load before the surplus/deficit split; residues below EPS are treated
// as numerical noise.
func (e *Engine) step(in model.HourlyInput, handlers []StorageHandler, battery *storage.Battery, hydrogen *storage.HydrogenStore) model.HourlyFlowRecord {
	p := e.params

	pv := in.PVKW
	if p.PVPeakKW > 0 {
		pv *= p.PVPeakKW
	}
	pvAC := pv * p.InverterEff

	hpEl, _ := heat.PumpDraw(in.HeatDemandKW, in.COP, p.HeatPumpMaxThermalKW)
	load := in.LoadKW + hpEl
	net := pvAC - load

	rec := model.HourlyFlowRecord{
		Hour:                  in.Hour,
		PVACKW:                pvAC,
		LoadKW:                load,
		NetKW:                 net,
		HeatDemandKW:          in.HeatDemandKW,
		HeatPumpElectricityKW: hpEl,
	}

	var fcHeat float64
	if net >= 0 {
		surplus := net
		for _, h := range handlers {
			if surplus <= p.EPS {
				break
			}
			absorbed := h.Absorb(surplus)
			surplus -= absorbed
			e.account(&rec, h.Name(), absorbed, 0)
		}
		if surplus > p.EPS {
			// Unbounded export when grid-connected; curtailment otherwise.
			rec.GridExportKW = surplus
		}
	} else {
		deficit := -net
		for _, h := range handlers {
			if deficit <= p.EPS {
				break
			}
			delivered := h.Supply(deficit)
			deficit -= delivered
			e.account(&rec, h.Name(), 0, delivered)
			if hr, ok := h.(HeatRecoverer); ok {
				fcHeat += hr.TakeRecoveredHeat()
			}
		}
		if deficit > p.EPS {
			if p.Islanded {
				rec.UnservedElectricityKW = deficit
			} else {
				rec.GridImportKW = deficit
			}
		}
	}

	hres := heat.Resolve(in.HeatDemandKW, in.COP, hpEl, fcHeat)
	rec.HeatPumpHeatKW = hres.PumpHeatKW
	rec.FuelCellHeatKW = hres.FuelCellHeatKW
	rec.UnservedHeatKW = hres.UnservedKW

	rec.BatterySoCKWh = battery.LevelKWh()
	rec.H2StoreKWh = hydrogen.LevelKWh()
	rec.PVDirectKW = math.Min(pvAC, load)
	return rec
}

// account maps a handler's flow onto the record's named fields.
func (e *Engine) account(rec *model.HourlyFlowRecord, name string, absorbedKW, suppliedKW float64) {
	switch name {
	case HandlerBattery:
		rec.BatteryChargeKW += absorbedKW
		rec.BatteryDischargeKW += suppliedKW
	case HandlerHydrogen:
		rec.ElectrolyserKW += absorbedKW
		rec.FuelCellKW += suppliedKW
	}
}
