package dispatch

import "github.com/nulenergi/microgrid/core/storage"

// Handler names the engine knows how to account for.
const (
	HandlerBattery  = "battery"
	HandlerHydrogen = "hydrogen"
)

// StorageHandler is the uniform contract of a dispatchable storage resource.
// The engine walks an ordered list of handlers: surplus power is offered to
// each Absorb in turn, deficits are requested from each Supply. The order of
// the list is the dispatch policy.
type StorageHandler interface {
	Name() string
	// Absorb offers surplusKW and returns the power actually consumed.
	Absorb(surplusKW float64) float64
	// Supply requests deficitKW and returns the power actually delivered.
	Supply(deficitKW float64) float64
}

// HeatRecoverer is implemented by handlers whose Supply produces recoverable
// heat as a by-product.
type HeatRecoverer interface {
	// TakeRecoveredHeat returns the heat recovered since the last call and
	// resets the accumulator.
	TakeRecoveredHeat() float64
}

// BatteryHandler adapts a Battery to the StorageHandler contract.
type BatteryHandler struct {
	Battery *storage.Battery
}

func (h *BatteryHandler) Name() string { return HandlerBattery }

func (h *BatteryHandler) Absorb(surplusKW float64) float64 { return h.Battery.Charge(surplusKW) }

func (h *BatteryHandler) Supply(deficitKW float64) float64 { return h.Battery.Discharge(deficitKW) }

// HydrogenHandler adapts a HydrogenStore to the StorageHandler contract,
// accumulating fuel-cell waste heat for the heat resolver.
type HydrogenHandler struct {
	Store  *storage.HydrogenStore
	heatKW float64
}

func (h *HydrogenHandler) Name() string { return HandlerHydrogen }

func (h *HydrogenHandler) Absorb(surplusKW float64) float64 {
	_, consumed := h.Store.Produce(surplusKW)
	return consumed
}

func (h *HydrogenHandler) Supply(deficitKW float64) float64 {
	delivered, heat, _ := h.Store.Consume(deficitKW)
	h.heatKW += heat
	return delivered
}

func (h *HydrogenHandler) TakeRecoveredHeat() float64 {
	heat := h.heatKW
	h.heatKW = 0
	return heat
}

// PolicyFactory builds the ordered handler list for a run's storage devices.
type PolicyFactory func(b *storage.Battery, h2 *storage.HydrogenStore) []StorageHandler

// DefaultPolicy dispatches to the battery before the hydrogen path in both
// directions: the battery's round trip is more efficient and its response
// instantaneous, hydrogen acts as the seasonal buffer.
func DefaultPolicy(b *storage.Battery, h2 *storage.HydrogenStore) []StorageHandler {
	return []StorageHandler{&BatteryHandler{Battery: b}, &HydrogenHandler{Store: h2}}
}
