package config

import (
	"github.com/nulenergi/microgrid/core/model"
)

// SimulationConfig is the file representation of the plant parameters.
// Capacities left at zero mean "component absent"; a negative h2_init_kwh
// selects half the tank, matching the reference plant.
type SimulationConfig struct {
	PVPeakKW    float64 `json:"pv_peak_kw"`
	InverterEff float64 `json:"inverter_eff"`

	BatteryCapacityKWh float64 `json:"battery_capacity_kwh"`
	BatteryRoundTrip   float64 `json:"battery_roundtrip"`
	BatteryMinSoC      float64 `json:"battery_min_soc"`
	BatteryMaxSoC      float64 `json:"battery_max_soc"`
	BatteryInitSoC     float64 `json:"battery_init_soc"`
	BatteryChargeKW    float64 `json:"battery_charge_kw"`
	BatteryDischargeKW float64 `json:"battery_discharge_kw"`

	ElectrolyserEff      float64 `json:"electrolyser_eff"`
	ElectrolyserKW       float64 `json:"electrolyser_kw"`
	FuelCellEff          float64 `json:"fuel_cell_eff"`
	FuelCellKW           float64 `json:"fuel_cell_kw"`
	FuelCellHeatRecovery float64 `json:"fuel_cell_heat_recovery"`
	H2CapacityKWh        float64 `json:"h2_capacity_kwh"`
	H2InitKWh            float64 `json:"h2_init_kwh"`

	HeatPumpSource       string  `json:"heat_pump_source"`
	HeatPumpMaxThermalKW float64 `json:"heat_pump_max_thermal_kw"`

	Islanded bool    `json:"islanded"`
	EPS      float64 `json:"eps"`
}

// SetDefaults fills fields whose zero value would be physically invalid with
// the reference plant's values.
func (c *SimulationConfig) SetDefaults() {
	ref := model.DefaultParameters()
	if c.InverterEff == 0 {
		c.InverterEff = ref.InverterEff
	}
	if c.BatteryRoundTrip == 0 {
		c.BatteryRoundTrip = ref.BatteryRoundTrip
	}
	if c.BatteryMaxSoC == 0 {
		c.BatteryMaxSoC = ref.BatteryMaxSoC
	}
	if c.ElectrolyserEff == 0 {
		c.ElectrolyserEff = ref.ElectrolyserEff
	}
	if c.FuelCellEff == 0 {
		c.FuelCellEff = ref.FuelCellEff
	}
	if c.FuelCellHeatRecovery == 0 {
		c.FuelCellHeatRecovery = ref.FuelCellHeatRecovery
	}
	if c.HeatPumpSource == "" {
		c.HeatPumpSource = ref.HeatPump.String()
	}
	if c.EPS == 0 {
		c.EPS = ref.EPS
	}
}

// ToParameters converts the file representation into validated system
// parameters.
func (c SimulationConfig) ToParameters() (model.SystemParameters, error) {
	source, err := model.ParseHeatPumpSource(c.HeatPumpSource)
	if err != nil {
		return model.SystemParameters{}, err
	}
	p := model.SystemParameters{
		PVPeakKW:             c.PVPeakKW,
		InverterEff:          c.InverterEff,
		BatteryCapacityKWh:   c.BatteryCapacityKWh,
		BatteryRoundTrip:     c.BatteryRoundTrip,
		BatteryMinSoC:        c.BatteryMinSoC,
		BatteryMaxSoC:        c.BatteryMaxSoC,
		BatteryInitSoC:       c.BatteryInitSoC,
		ElectrolyserEff:      c.ElectrolyserEff,
		FuelCellEff:          c.FuelCellEff,
		FuelCellHeatRecovery: c.FuelCellHeatRecovery,
		H2CapacityKWh:        c.H2CapacityKWh,
		H2InitKWh:            c.H2InitKWh,
		HeatPump:             source,
		HeatPumpMaxThermalKW: c.HeatPumpMaxThermalKW,
		Islanded:             c.Islanded,
		EPS:                  c.EPS,
		Limits: model.ComponentLimits{
			BatteryChargeKW:    c.BatteryChargeKW,
			BatteryDischargeKW: c.BatteryDischargeKW,
			ElectrolyserKW:     c.ElectrolyserKW,
			FuelCellKW:         c.FuelCellKW,
		},
	}
	if err := p.Validate(); err != nil {
		return model.SystemParameters{}, err
	}
	return p, nil
}
