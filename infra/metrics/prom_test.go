package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/nulenergi/microgrid/core/metrics"
	"github.com/nulenergi/microgrid/core/model"
)

func TestPromSinkCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	for i := 0; i < 3; i++ {
		ev := coremetrics.HourlyFlowEvent{
			Scenario: "test",
			Record:   model.HourlyFlowRecord{Hour: i, UnservedElectricityKW: 0.5},
		}
		if err := sink.RecordHourlyFlow(ev); err != nil {
			t.Fatalf("record flow: %v", err)
		}
	}
	if err := sink.RecordAnomaly(coremetrics.AnomalyEvent{Scenario: "test"}); err != nil {
		t.Fatalf("record anomaly: %v", err)
	}
	if err := sink.RecordRunSummary(coremetrics.RunSummaryEvent{Scenario: "test"}); err != nil {
		t.Fatalf("record summary: %v", err)
	}

	if got := testutil.ToFloat64(sink.hours.WithLabelValues("test")); got != 3 {
		t.Fatalf("expected 3 hours, got %v", got)
	}
	if got := testutil.ToFloat64(sink.unservedEl.WithLabelValues("test")); got != 1.5 {
		t.Fatalf("expected 1.5 kWh unserved, got %v", got)
	}
	if got := testutil.ToFloat64(sink.anomalies.WithLabelValues("test")); got != 1 {
		t.Fatalf("expected 1 anomaly, got %v", got)
	}
	if got := testutil.ToFloat64(sink.runs.WithLabelValues("test")); got != 1 {
		t.Fatalf("expected 1 run, got %v", got)
	}
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(reg); err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}
}
