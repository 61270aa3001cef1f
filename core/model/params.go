package model

import (
	"fmt"
	"math"
)

// HeatPumpSource selects which COP column of the input series drives the
// heat-pump model.
type HeatPumpSource int

const (
	// SourceAirWater is an air-to-water heat pump.
	SourceAirWater HeatPumpSource = iota
	// SourceGroundHorizontal is a horizontal ground-loop heat pump.
	SourceGroundHorizontal
	// SourceGroundVertical is a vertical borehole heat pump.
	SourceGroundVertical
)

// String returns the short source code used in input data and configuration.
func (s HeatPumpSource) String() string {
	switch s {
	case SourceAirWater:
		return "LV"
	case SourceGroundHorizontal:
		return "JH"
	case SourceGroundVertical:
		return "JV"
	default:
		return "unknown"
	}
}

// ParseHeatPumpSource converts a source code into a HeatPumpSource.
func ParseHeatPumpSource(s string) (HeatPumpSource, error) {
	switch s {
	case "LV", "air":
		return SourceAirWater, nil
	case "JH", "ground-horizontal":
		return SourceGroundHorizontal, nil
	case "JV", "ground-vertical":
		return SourceGroundVertical, nil
	default:
		return 0, fmt.Errorf("unknown heat pump source %q", s)
	}
}

// ComponentLimits holds the rated powers of the individual devices in kW.
type ComponentLimits struct {
	BatteryChargeKW    float64
	BatteryDischargeKW float64
	ElectrolyserKW     float64
	FuelCellKW         float64
}

// SystemParameters is the immutable description of the plant: capacities,
// ratings and efficiencies shared by every component of a run. Construct it
// once, call Validate, and pass it by reference.
type SystemParameters struct {
	// PVPeakKW scales the PV column of the input series. When > 0 the column
	// is interpreted as per-kWp yield; when 0 the column is absolute kW.
	PVPeakKW    float64
	InverterEff float64

	BatteryCapacityKWh float64
	// BatteryRoundTrip is the round-trip efficiency; each direction applies
	// sqrt(BatteryRoundTrip) once.
	BatteryRoundTrip float64
	BatteryMinSoC    float64
	BatteryMaxSoC    float64
	BatteryInitSoC   float64

	ElectrolyserEff float64
	FuelCellEff     float64
	// FuelCellHeatRecovery is the fraction of fuel-cell conversion losses
	// recoverable as heat.
	FuelCellHeatRecovery float64
	H2CapacityKWh        float64
	// H2InitKWh is the initial tank level; a negative value selects half the
	// tank capacity.
	H2InitKWh float64

	HeatPump HeatPumpSource
	// HeatPumpMaxThermalKW caps the heat pump's thermal output; 0 means the
	// pump is sized to always meet demand.
	HeatPumpMaxThermalKW float64

	// Islanded disallows grid exchange: deficits become unserved electricity
	// and surplus beyond storage is curtailed.
	Islanded bool

	// EPS is the tolerance below which a flow is treated as zero.
	EPS float64

	Limits ComponentLimits
}

// DefaultParameters returns the parameter set of the reference plant.
func DefaultParameters() SystemParameters {
	return SystemParameters{
		InverterEff:          0.86,
		BatteryCapacityKWh:   82.0,
		BatteryRoundTrip:     0.95,
		BatteryMinSoC:        0.0,
		BatteryMaxSoC:        1.0,
		BatteryInitSoC:       0.5,
		ElectrolyserEff:      0.55,
		FuelCellEff:          0.55,
		FuelCellHeatRecovery: 1.0,
		H2CapacityKWh:        1000.0,
		H2InitKWh:            -1,
		HeatPump:             SourceAirWater,
		EPS:                  1e-6,
		Limits: ComponentLimits{
			BatteryChargeKW:    20.0,
			BatteryDischargeKW: 20.0,
			ElectrolyserKW:     10.0,
			FuelCellKW:         10.0,
		},
	}
}

// ChargeEff returns the one-way charging efficiency.
func (p SystemParameters) ChargeEff() float64 { return math.Sqrt(p.BatteryRoundTrip) }

// DischargeEff returns the one-way discharging efficiency.
func (p SystemParameters) DischargeEff() float64 { return math.Sqrt(p.BatteryRoundTrip) }

// H2Init resolves the configured initial tank level.
func (p SystemParameters) H2Init() float64 {
	if p.H2InitKWh < 0 {
		return 0.5 * p.H2CapacityKWh
	}
	return math.Min(p.H2InitKWh, p.H2CapacityKWh)
}

// Validate checks the physical soundness of the parameter set. A run must
// never start with parameters that fail validation.
func (p SystemParameters) Validate() error {
	for name, v := range map[string]float64{
		"pv_peak_kw":           p.PVPeakKW,
		"battery_capacity_kwh": p.BatteryCapacityKWh,
		"h2_capacity_kwh":      p.H2CapacityKWh,
		"heat_pump_thermal_kw": p.HeatPumpMaxThermalKW,
		"battery_charge_kw":    p.Limits.BatteryChargeKW,
		"battery_discharge_kw": p.Limits.BatteryDischargeKW,
		"electrolyser_kw":      p.Limits.ElectrolyserKW,
		"fuel_cell_kw":         p.Limits.FuelCellKW,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be non-negative, got %v", name, v)
		}
	}
	for name, v := range map[string]float64{
		"inverter_eff":      p.InverterEff,
		"battery_roundtrip": p.BatteryRoundTrip,
		"electrolyser_eff":  p.ElectrolyserEff,
		"fuel_cell_eff":     p.FuelCellEff,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0,1], got %v", name, v)
		}
	}
	if p.FuelCellHeatRecovery < 0 || p.FuelCellHeatRecovery > 1 {
		return fmt.Errorf("fuel_cell_heat_recovery must be in [0,1], got %v", p.FuelCellHeatRecovery)
	}
	if p.BatteryMinSoC < 0 || p.BatteryMaxSoC > 1 || p.BatteryMinSoC >= p.BatteryMaxSoC {
		return fmt.Errorf("soc bounds must satisfy 0 <= min < max <= 1, got [%v,%v]", p.BatteryMinSoC, p.BatteryMaxSoC)
	}
	if p.BatteryInitSoC < p.BatteryMinSoC || p.BatteryInitSoC > p.BatteryMaxSoC {
		return fmt.Errorf("initial soc %v outside [%v,%v]", p.BatteryInitSoC, p.BatteryMinSoC, p.BatteryMaxSoC)
	}
	if p.H2InitKWh > p.H2CapacityKWh {
		return fmt.Errorf("initial h2 level %v exceeds tank capacity %v", p.H2InitKWh, p.H2CapacityKWh)
	}
	if p.EPS <= 0 {
		return fmt.Errorf("eps must be positive, got %v", p.EPS)
	}
	return nil
}
