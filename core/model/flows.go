package model

// HourlyFlowRecord is the reconciled outcome of one simulated hour. All power
// values are kW which, at one-hour resolution, equal kWh. Battery flows are
// AC-side: conversion losses stay inside the storage device, so electrical
// sources and sinks balance within EPS for every hour.
type HourlyFlowRecord struct {
	Hour int

	PVACKW float64
	// LoadKW includes the heat pump's electrical draw.
	LoadKW float64
	// NetKW is PVACKW - LoadKW before any dispatch.
	NetKW      float64
	PVDirectKW float64

	BatteryChargeKW    float64
	BatteryDischargeKW float64
	BatterySoCKWh      float64

	ElectrolyserKW float64
	FuelCellKW     float64
	H2StoreKWh     float64

	GridImportKW float64
	GridExportKW float64

	HeatDemandKW          float64
	HeatPumpHeatKW        float64
	HeatPumpElectricityKW float64
	FuelCellHeatKW        float64

	UnservedElectricityKW float64
	UnservedHeatKW        float64
}

// ElectricalImbalance returns the conservation residual for the electrical
// side: sources plus unserved demand minus sinks. Zero within EPS on every
// correctly dispatched hour.
func (r HourlyFlowRecord) ElectricalImbalance() float64 {
	sources := r.PVACKW + r.BatteryDischargeKW + r.FuelCellKW + r.GridImportKW + r.UnservedElectricityKW
	sinks := r.LoadKW + r.BatteryChargeKW + r.ElectrolyserKW + r.GridExportKW
	return sources - sinks
}

// HeatImbalance returns the conservation residual for the heat side.
func (r HourlyFlowRecord) HeatImbalance() float64 {
	return r.HeatPumpHeatKW + r.FuelCellHeatKW + r.UnservedHeatKW - r.HeatDemandKW
}
