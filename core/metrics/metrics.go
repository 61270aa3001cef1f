// Package metrics defines the observability events emitted by a simulation
// run and the sink interfaces infrastructure adapters implement.
package metrics

import "github.com/nulenergi/microgrid/core/model"

// HourlyFlowEvent carries one reconciled hour for recording.
type HourlyFlowEvent struct {
	RunID    string
	Scenario string
	Record   model.HourlyFlowRecord
}

// AnomalyEvent reports an hour whose energy balance did not close within EPS.
// This indicates a dispatch defect, never expected steady-state behaviour.
type AnomalyEvent struct {
	RunID        string
	Scenario     string
	Hour         int
	ElectricalKW float64
	HeatKW       float64
}

// RunSummaryEvent is emitted once per completed run.
type RunSummaryEvent struct {
	RunID    string
	Scenario string
	Hours    int

	GridImportKWh          float64
	GridExportKWh          float64
	UnservedElectricityKWh float64
	UnservedHeatKWh        float64
	Anomalies              int
}

// Sink records simulation events for observability purposes.
type Sink interface {
	RecordHourlyFlow(ev HourlyFlowEvent) error
	RecordAnomaly(ev AnomalyEvent) error
	RecordRunSummary(ev RunSummaryEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordHourlyFlow(HourlyFlowEvent) error { return nil }
func (NopSink) RecordAnomaly(AnomalyEvent) error       { return nil }
func (NopSink) RecordRunSummary(RunSummaryEvent) error { return nil }
