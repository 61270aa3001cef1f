// Package export writes simulation results as CSV and JSON tables. Field
// names and units (kWh per hour) are stable: downstream reporting keys off
// them.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/nulenergi/microgrid/core/aggregate"
	"github.com/nulenergi/microgrid/core/model"
)

func fmtF(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

var hourlyHeader = []string{
	"hour", "pv_ac_kw", "load_kw", "net_kw", "pv_direct_kw",
	"battery_charge_kw", "battery_discharge_kw", "battery_soc_kwh",
	"electrolyser_kw", "fuel_cell_kw", "h2_store_kwh",
	"grid_import_kw", "grid_export_kw",
	"heat_demand_kw", "heat_pump_heat_kw", "heat_pump_electricity_kw", "fuel_cell_heat_kw",
	"unserved_electricity_kw", "unserved_heat_kw",
}

// WriteHourlyCSV writes the full hourly flow table to w.
func WriteHourlyCSV(w io.Writer, recs []model.HourlyFlowRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(hourlyHeader); err != nil {
		return err
	}
	for _, r := range recs {
		rec := []string{
			strconv.Itoa(r.Hour),
			fmtF(r.PVACKW), fmtF(r.LoadKW), fmtF(r.NetKW), fmtF(r.PVDirectKW),
			fmtF(r.BatteryChargeKW), fmtF(r.BatteryDischargeKW), fmtF(r.BatterySoCKWh),
			fmtF(r.ElectrolyserKW), fmtF(r.FuelCellKW), fmtF(r.H2StoreKWh),
			fmtF(r.GridImportKW), fmtF(r.GridExportKW),
			fmtF(r.HeatDemandKW), fmtF(r.HeatPumpHeatKW), fmtF(r.HeatPumpElectricityKW), fmtF(r.FuelCellHeatKW),
			fmtF(r.UnservedElectricityKW), fmtF(r.UnservedHeatKW),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var flowsHeader = []string{
	"pv_kwh", "load_kwh", "battery_charge_kwh", "battery_discharge_kwh",
	"electrolyser_kwh", "fuel_cell_kwh", "grid_import_kwh", "grid_export_kwh",
	"heat_demand_kwh", "heat_pump_heat_kwh", "fuel_cell_heat_kwh",
	"unserved_electricity_kwh", "unserved_heat_kwh",
}

func flowsRow(f aggregate.Flows) []string {
	return []string{
		fmtF(f.PVKWh), fmtF(f.LoadKWh), fmtF(f.BatteryChargeKWh), fmtF(f.BatteryDischargeKWh),
		fmtF(f.ElectrolyserKWh), fmtF(f.FuelCellKWh), fmtF(f.GridImportKWh), fmtF(f.GridExportKWh),
		fmtF(f.HeatDemandKWh), fmtF(f.HeatPumpHeatKWh), fmtF(f.FuelCellHeatKWh),
		fmtF(f.UnservedElectricityKWh), fmtF(f.UnservedHeatKWh),
	}
}

// WriteDailyCSV writes one row per calendar day.
func WriteDailyCSV(w io.Writer, days []aggregate.DailySummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"day"}, flowsHeader...)); err != nil {
		return err
	}
	for _, d := range days {
		if err := cw.Write(append([]string{strconv.Itoa(d.Day)}, flowsRow(d.Flows)...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSeasonalCSV writes one row per season.
func WriteSeasonalCSV(w io.Writer, seasons []aggregate.SeasonalSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"season"}, flowsHeader...)); err != nil {
		return err
	}
	for _, s := range seasons {
		if err := cw.Write(append([]string{s.Season.String()}, flowsRow(s.Flows)...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary bundles the run-level results for JSON export.
type Summary struct {
	RunID    string                `json:"run_id"`
	Scenario string                `json:"scenario,omitempty"`
	Totals   aggregate.Totals      `json:"totals"`
	Split    aggregate.SupplySplit `json:"electricity_split"`
}

// WriteSummaryJSON writes the run summary to w.
func WriteSummaryJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
