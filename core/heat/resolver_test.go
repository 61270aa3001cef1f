package heat

import (
	"math"
	"testing"
)

func TestPumpDrawUnlimited(t *testing.T) {
	el, target := PumpDraw(9, 3, 0)
	if target != 9 {
		t.Fatalf("expected full demand targeted, got %v", target)
	}
	if math.Abs(el-3) > 1e-9 {
		t.Fatalf("expected 3 kW draw, got %v", el)
	}
}

func TestPumpDrawCapped(t *testing.T) {
	el, target := PumpDraw(9, 3, 6)
	if target != 6 {
		t.Fatalf("expected thermal cap 6, got %v", target)
	}
	if math.Abs(el-2) > 1e-9 {
		t.Fatalf("expected 2 kW draw, got %v", el)
	}
}

func TestPumpDrawZeroDemand(t *testing.T) {
	if el, target := PumpDraw(0, 3, 0); el != 0 || target != 0 {
		t.Fatalf("zero demand must draw nothing, got %v/%v", el, target)
	}
}

func TestResolvePumpCoversAll(t *testing.T) {
	res := Resolve(9, 3, 3, 5)
	if math.Abs(res.PumpHeatKW-9) > 1e-9 {
		t.Fatalf("pump should cover full demand, got %v", res.PumpHeatKW)
	}
	if res.FuelCellHeatKW != 0 || res.UnservedKW != 0 {
		t.Fatalf("no residual expected, got fc=%v unserved=%v", res.FuelCellHeatKW, res.UnservedKW)
	}
}

func TestResolveWasteHeatFillsGap(t *testing.T) {
	// pump capped at 6 kW thermal, 2 kW of waste heat available
	res := Resolve(9, 3, 2, 2)
	if math.Abs(res.PumpHeatKW-6) > 1e-9 {
		t.Fatalf("expected 6 kW from pump, got %v", res.PumpHeatKW)
	}
	if math.Abs(res.FuelCellHeatKW-2) > 1e-9 {
		t.Fatalf("expected 2 kW from waste heat, got %v", res.FuelCellHeatKW)
	}
	if math.Abs(res.UnservedKW-1) > 1e-9 {
		t.Fatalf("expected 1 kW unserved, got %v", res.UnservedKW)
	}
}

func TestResolveBalancesExactly(t *testing.T) {
	for _, tc := range []struct{ demand, cop, el, fc float64 }{
		{10, 2.5, 4, 0},
		{10, 2.5, 2, 1},
		{10, 2.5, 0, 0},
		{10, 0.01, 1, 0}, // COP floor engaged
	} {
		res := Resolve(tc.demand, tc.cop, tc.el, tc.fc)
		sum := res.PumpHeatKW + res.FuelCellHeatKW + res.UnservedKW
		if math.Abs(sum-tc.demand) > 1e-9 {
			t.Fatalf("heat balance broken for %+v: %v != %v", tc, sum, tc.demand)
		}
	}
}
