package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nulenergi/microgrid/core/model"
)

func sampleRecords(hours int) []model.HourlyFlowRecord {
	recs := make([]model.HourlyFlowRecord, hours)
	for h := range recs {
		f := float64(h)
		recs[h] = model.HourlyFlowRecord{
			Hour:               h,
			PVACKW:             math.Abs(math.Sin(f / 5)),
			LoadKW:             1 + 0.5*math.Abs(math.Cos(f/3)),
			BatteryChargeKW:    0.1,
			BatteryDischargeKW: 0.2,
			ElectrolyserKW:     0.05,
			FuelCellKW:         0.1,
			GridImportKW:       0.3,
			GridExportKW:       0.15,
			HeatDemandKW:       2,
			HeatPumpHeatKW:     1.8,
			FuelCellHeatKW:     0.2,
			BatterySoCKWh:      5 + math.Sin(f/100),
			H2StoreKWh:         500,
		}
	}
	return recs
}

func TestDailyGrouping(t *testing.T) {
	recs := sampleRecords(model.HoursPerYear)
	days := Daily(recs)
	if len(days) != 365 {
		t.Fatalf("expected 365 days, got %d", len(days))
	}
	// one full day of the constant fields
	assert.InDelta(t, 24*0.1, days[0].BatteryChargeKWh, 1e-9)
	assert.InDelta(t, 24*0.3, days[100].GridImportKWh, 1e-9)
}

func TestDailyTruncatedSeries(t *testing.T) {
	days := Daily(sampleRecords(30))
	if len(days) != 2 {
		t.Fatalf("expected 2 days for 30 hours, got %d", len(days))
	}
	assert.InDelta(t, 6*0.1, days[1].BatteryChargeKWh, 1e-9)
}

func TestAggregationRoundTrip(t *testing.T) {
	recs := sampleRecords(model.HoursPerYear)
	days := Daily(recs)
	seasons := Seasonal(days)
	totals := Sum(recs)

	fromDays := SumDaily(days)
	assert.InDelta(t, totals.GridImportKWh, fromDays.GridImportKWh, 1e-6)
	assert.InDelta(t, totals.PVKWh, fromDays.PVKWh, 1e-6)
	assert.InDelta(t, totals.UnservedHeatKWh, fromDays.UnservedHeatKWh, 1e-6)

	var seasonal Flows
	for _, s := range seasons {
		seasonal.merge(s.Flows)
	}
	assert.InDelta(t, totals.LoadKWh, seasonal.LoadKWh, 1e-6)
	assert.InDelta(t, totals.GridExportKWh, seasonal.GridExportKWh, 1e-6)
	assert.InDelta(t, totals.FuelCellHeatKWh, seasonal.FuelCellHeatKWh, 1e-6)
}

func TestSeasonOfDay(t *testing.T) {
	cases := map[int]Season{
		0:   Winter, // Jan 1
		59:  Spring, // Mar 1
		171: Summer, // Jun 21
		250: Autumn, // Sep 8
		340: Winter, // Dec 7
		364: Winter, // Dec 31
		365: Winter, // wraps
	}
	for day, want := range cases {
		if got := SeasonOfDay(day); got != want {
			t.Fatalf("day %d: expected %s, got %s", day, want, got)
		}
	}
}

func TestTotalsIndicators(t *testing.T) {
	recs := sampleRecords(48)
	totals := Sum(recs)
	assert.InDelta(t, totals.GridExportKWh-totals.GridImportKWh, totals.GridBalanceKWh, 1e-9)
	assert.InDelta(t, 500, totals.MeanH2StoreKWh, 1e-9)
	if totals.Hours != 48 {
		t.Fatalf("expected 48 hours, got %d", totals.Hours)
	}
}

func TestSplitCoversLoad(t *testing.T) {
	recs := sampleRecords(model.HoursPerYear)
	split := Split(recs)
	totals := Sum(recs)

	covered := split.PVKWh + split.BatteryKWh + split.FuelCellKWh + split.GridKWh
	assert.InDelta(t, totals.LoadKWh-totals.UnservedElectricityKWh, covered, 1e-6)
}
