package metrics

import coremetrics "github.com/nulenergi/microgrid/core/metrics"

// MultiSink fans simulation events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordHourlyFlow forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordHourlyFlow(ev coremetrics.HourlyFlowEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordHourlyFlow(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAnomaly forwards anomaly events.
func (m *MultiSink) RecordAnomaly(ev coremetrics.AnomalyEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAnomaly(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordRunSummary forwards run summaries.
func (m *MultiSink) RecordRunSummary(ev coremetrics.RunSummaryEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRunSummary(ev); err != nil {
			return err
		}
	}
	return nil
}
