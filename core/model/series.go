package model

import (
	"fmt"
	"math"
)

// HoursPerYear is the length of a full non-leap simulation year.
const HoursPerYear = 8760

// HourlyInput is one row of the driving time series. PVKW is generator-side
// production before inverter losses; COP is the coefficient of performance of
// the configured heat-pump source for that hour.
type HourlyInput struct {
	Hour         int
	PVKW         float64
	LoadKW       float64
	HeatDemandKW float64
	COP          float64
}

// Validate enforces the input contract: every field finite, demands
// non-negative and COP strictly positive. A violating row aborts the run
// rather than being silently zeroed, so data problems cannot masquerade as
// unserved energy.
func (h HourlyInput) Validate() error {
	for name, v := range map[string]float64{
		"pv":          h.PVKW,
		"load":        h.LoadKW,
		"heat_demand": h.HeatDemandKW,
		"cop":         h.COP,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("hour %d: %s is not finite", h.Hour, name)
		}
	}
	if h.PVKW < 0 || h.LoadKW < 0 || h.HeatDemandKW < 0 {
		return fmt.Errorf("hour %d: negative demand or production", h.Hour)
	}
	if h.COP <= 0 {
		return fmt.Errorf("hour %d: cop must be positive, got %v", h.Hour, h.COP)
	}
	return nil
}
