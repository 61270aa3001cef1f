// Package heat decides, per hour, how heat demand is split between the heat
// pump, fuel-cell waste heat and unserved demand.
package heat

import "math"

// minCOP guards the division when a data source reports a near-zero COP.
const minCOP = 0.1

// Resolution describes how one hour's heat demand was met. All values are
// thermal kW except PumpElectricityKW.
type Resolution struct {
	PumpHeatKW        float64
	PumpElectricityKW float64
	FuelCellHeatKW    float64
	UnservedKW        float64
}

// PumpDraw sizes the heat pump's electrical draw for the hour: the pump
// targets the full heat demand, capped at maxThermalKW when that is set
// (0 means unlimited). The returned electricity is counted as load before
// the surplus/deficit split.
func PumpDraw(demandKW, cop, maxThermalKW float64) (electricityKW, targetHeatKW float64) {
	if demandKW <= 0 {
		return 0, 0
	}
	targetHeatKW = demandKW
	if maxThermalKW > 0 {
		targetHeatKW = math.Min(targetHeatKW, maxThermalKW)
	}
	return targetHeatKW / math.Max(cop, minCOP), targetHeatKW
}

// Resolve allocates the hour's heat demand. The heat pump delivers
// pumpElectricityKW*cop capped at demand; fuel-cell waste heat covers the
// remainder up to what was recovered; whatever is left is unserved. Unserved
// heat is valid output, not an error.
func Resolve(demandKW, cop, pumpElectricityKW, fuelCellHeatKW float64) Resolution {
	if demandKW <= 0 {
		return Resolution{}
	}
	res := Resolution{PumpElectricityKW: pumpElectricityKW}
	res.PumpHeatKW = math.Min(pumpElectricityKW*math.Max(cop, minCOP), demandKW)
	remaining := demandKW - res.PumpHeatKW
	res.FuelCellHeatKW = math.Min(remaining, math.Max(fuelCellHeatKW, 0))
	res.UnservedKW = remaining - res.FuelCellHeatKW
	return res
}
