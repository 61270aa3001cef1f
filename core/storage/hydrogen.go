package storage

import (
	"math"

	"github.com/nulenergi/microgrid/core/model"
)

// HydrogenStore models the electrolyser, tank and fuel cell as one store of
// chemical energy (kWh-H2). The tank level always stays in [0, capacity];
// clamping is silent and reflected in the returned actuals.
type HydrogenStore struct {
	capacityKWh  float64
	elecEff      float64
	fcEff        float64
	heatRecovery float64
	maxElecKW    float64
	maxFCKW      float64

	levelKWh float64
}

// NewHydrogenStore builds a store at its configured initial level.
func NewHydrogenStore(p *model.SystemParameters) *HydrogenStore {
	return &HydrogenStore{
		capacityKWh:  p.H2CapacityKWh,
		elecEff:      p.ElectrolyserEff,
		fcEff:        p.FuelCellEff,
		heatRecovery: p.FuelCellHeatRecovery,
		maxElecKW:    p.Limits.ElectrolyserKW,
		maxFCKW:      p.Limits.FuelCellKW,
		levelKWh:     p.H2Init(),
	}
}

// Produce runs the electrolyser on up to inputKW of electricity. It returns
// the chemical energy stored and the electricity actually consumed; input
// beyond the rating or the tank headroom is rejected and must be redirected
// by the caller.
func (h *HydrogenStore) Produce(inputKW float64) (storedKWh, consumedKW float64) {
	if inputKW <= 0 {
		return 0, 0
	}
	consumedKW = math.Min(inputKW, h.maxElecKW)
	storedKWh = consumedKW * h.elecEff
	if headroom := h.capacityKWh - h.levelKWh; storedKWh > headroom {
		storedKWh = math.Max(headroom, 0)
		consumedKW = storedKWh / h.elecEff
	}
	h.levelKWh = math.Min(h.levelKWh+storedKWh, h.capacityKWh)
	return storedKWh, consumedKW
}

// Consume runs the fuel cell to cover up to demandKW of electricity. It
// returns the electricity delivered, the recoverable waste heat and the
// chemical energy drawn from the tank. Demand is clamped to the fuel-cell
// rating and to the tank content.
func (h *HydrogenStore) Consume(demandKW float64) (deliveredKW, heatKW, usedKWh float64) {
	if demandKW <= 0 {
		return 0, 0, 0
	}
	deliveredKW = math.Min(demandKW, h.maxFCKW)
	usedKWh = deliveredKW / h.fcEff
	if usedKWh > h.levelKWh {
		usedKWh = h.levelKWh
		deliveredKW = usedKWh * h.fcEff
	}
	h.levelKWh = math.Max(h.levelKWh-usedKWh, 0)
	heatKW = (usedKWh - deliveredKW) * h.heatRecovery
	return deliveredKW, heatKW, usedKWh
}

// LevelKWh returns the current tank content in kWh-H2.
func (h *HydrogenStore) LevelKWh() float64 { return h.levelKWh }
