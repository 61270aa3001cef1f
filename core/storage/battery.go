// Package storage implements the stateful energy stores of the plant. All
// operations clamp to physical limits and return the amounts actually moved;
// callers must use the returned actuals, never the requested amounts.
package storage

import (
	"math"

	"github.com/nulenergi/microgrid/core/model"
)

// Battery tracks stored energy between the configured SoC bounds. Charge and
// discharge amounts are AC-side kW; the per-direction efficiency is applied
// internally so that the stored level reflects losses.
type Battery struct {
	capacityKWh    float64
	minKWh         float64
	maxKWh         float64
	chargeEff      float64
	dischargeEff   float64
	maxChargeKW    float64
	maxDischargeKW float64

	levelKWh float64
}

// NewBattery builds a battery at its configured initial SoC.
func NewBattery(p *model.SystemParameters) *Battery {
	return &Battery{
		capacityKWh:    p.BatteryCapacityKWh,
		minKWh:         p.BatteryMinSoC * p.BatteryCapacityKWh,
		maxKWh:         p.BatteryMaxSoC * p.BatteryCapacityKWh,
		chargeEff:      p.ChargeEff(),
		dischargeEff:   p.DischargeEff(),
		maxChargeKW:    p.Limits.BatteryChargeKW,
		maxDischargeKW: p.Limits.BatteryDischargeKW,
		levelKWh:       p.BatteryInitSoC * p.BatteryCapacityKWh,
	}
}

// Charge absorbs up to requestKW and returns the AC-side power accepted:
// min(request, rated charge power, headroom/chargeEff). The stored level
// rises by accepted*chargeEff and never exceeds the max SoC bound.
func (b *Battery) Charge(requestKW float64) float64 {
	if requestKW <= 0 {
		return 0
	}
	accepted := math.Min(requestKW, b.maxChargeKW)
	if b.chargeEff > 0 {
		accepted = math.Min(accepted, (b.maxKWh-b.levelKWh)/b.chargeEff)
	}
	if accepted <= 0 {
		return 0
	}
	b.levelKWh = math.Min(b.levelKWh+accepted*b.chargeEff, b.maxKWh)
	return accepted
}

// Discharge delivers up to requestKW and returns the AC-side power delivered:
// min(request, rated discharge power, available*dischargeEff). The stored
// level never drops below the min SoC bound.
func (b *Battery) Discharge(requestKW float64) float64 {
	if requestKW <= 0 {
		return 0
	}
	delivered := math.Min(requestKW, b.maxDischargeKW)
	delivered = math.Min(delivered, (b.levelKWh-b.minKWh)*b.dischargeEff)
	if delivered <= 0 {
		return 0
	}
	b.levelKWh = math.Max(b.levelKWh-delivered/b.dischargeEff, b.minKWh)
	return delivered
}

// LevelKWh returns the current stored energy.
func (b *Battery) LevelKWh() float64 { return b.levelKWh }

// SoC returns the stored energy as a fraction of capacity.
func (b *Battery) SoC() float64 {
	if b.capacityKWh == 0 {
		return 0
	}
	return b.levelKWh / b.capacityKWh
}
