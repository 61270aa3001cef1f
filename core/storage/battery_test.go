package storage

import (
	"math"
	"testing"

	"github.com/nulenergi/microgrid/core/model"
)

func testParams() model.SystemParameters {
	p := model.DefaultParameters()
	p.BatteryCapacityKWh = 10
	p.BatteryRoundTrip = 0.95 * 0.95 // one-way 0.95 per direction
	p.BatteryInitSoC = 0.5
	p.Limits.BatteryChargeKW = 3
	p.Limits.BatteryDischargeKW = 3
	return p
}

func TestBatteryChargeWithinLimits(t *testing.T) {
	p := testParams()
	b := NewBattery(&p)

	accepted := b.Charge(1.0)
	if accepted != 1.0 {
		t.Fatalf("expected full request accepted, got %v", accepted)
	}
	want := 5.0 + 0.95
	if math.Abs(b.LevelKWh()-want) > 1e-9 {
		t.Fatalf("expected level %v, got %v", want, b.LevelKWh())
	}
}

func TestBatteryChargeClampedToPower(t *testing.T) {
	p := testParams()

	for _, req := range []float64{3, 50, 1e9} {
		b := NewBattery(&p)
		if got := b.Charge(req); got != 3 {
			t.Fatalf("request %v: expected power-limited 3, got %v", req, got)
		}
	}
}

func TestBatteryChargeClampedToHeadroom(t *testing.T) {
	p := testParams()
	p.BatteryInitSoC = 1.0
	b := NewBattery(&p)

	if got := b.Charge(3); got != 0 {
		t.Fatalf("full battery must accept nothing, got %v", got)
	}
	if b.LevelKWh() > p.BatteryCapacityKWh {
		t.Fatalf("level %v exceeds capacity", b.LevelKWh())
	}
}

func TestBatteryDischargeRespectsMinSoC(t *testing.T) {
	p := testParams()
	p.BatteryMinSoC = 0.2
	p.BatteryInitSoC = 0.25
	b := NewBattery(&p)

	// only 0.5 kWh above the floor, delivered at one-way efficiency
	want := 0.5 * 0.95
	if got := b.Discharge(3); math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v delivered, got %v", want, got)
	}
	if b.LevelKWh() < 0.2*10-1e-9 {
		t.Fatalf("level %v below min SoC bound", b.LevelKWh())
	}
	if got := b.Discharge(3); got != 0 {
		t.Fatalf("battery at floor must deliver nothing, got %v", got)
	}
}

func TestBatteryNegativeRequestsAreNoOps(t *testing.T) {
	p := testParams()
	b := NewBattery(&p)
	level := b.LevelKWh()

	if got := b.Charge(-5); got != 0 {
		t.Fatalf("negative charge request returned %v", got)
	}
	if got := b.Discharge(-5); got != 0 {
		t.Fatalf("negative discharge request returned %v", got)
	}
	if b.LevelKWh() != level {
		t.Fatalf("level changed by no-op: %v -> %v", level, b.LevelKWh())
	}
}

func TestBatteryClampIdempotence(t *testing.T) {
	p := testParams()

	small := NewBattery(&p)
	within := small.Charge(0.5)
	if within != 0.5 {
		t.Fatalf("in-range request must be returned exactly, got %v", within)
	}

	a := NewBattery(&p)
	c := NewBattery(&p)
	if got, want := a.Charge(100), c.Charge(1e12); got != want {
		t.Fatalf("limit-derived value must not depend on excess: %v vs %v", got, want)
	}
}

func TestBatteryZeroCapacity(t *testing.T) {
	p := testParams()
	p.BatteryCapacityKWh = 0
	p.BatteryInitSoC = 0
	p.BatteryMinSoC = 0
	b := NewBattery(&p)

	if got := b.Charge(5); got != 0 {
		t.Fatalf("zero-capacity battery accepted %v", got)
	}
	if got := b.Discharge(5); got != 0 {
		t.Fatalf("zero-capacity battery delivered %v", got)
	}
	if b.SoC() != 0 {
		t.Fatalf("zero-capacity SoC should be 0, got %v", b.SoC())
	}
}
