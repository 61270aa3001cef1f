// Package loader reads the hourly driving time series from CSV. Column names
// are configurable so exports from different spreadsheet tools can be
// consumed without editing the data.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/nulenergi/microgrid/core/model"
)

// Columns maps the logical series fields onto CSV header names.
type Columns struct {
	Time      string `json:"time"`
	PV        string `json:"pv"`
	Load      string `json:"load"`
	SpaceHeat string `json:"space_heat"`
	// DHW is domestic hot water; it is summed with space heat into the
	// hour's heat demand.
	DHW    string `json:"dhw"`
	COPAir string `json:"cop_lv"`
	COPJH  string `json:"cop_jh"`
	COPJV  string `json:"cop_jv"`
}

// ForSource returns the COP column for the given heat-pump source.
func (c Columns) ForSource(s model.HeatPumpSource) string {
	switch s {
	case model.SourceGroundHorizontal:
		return c.COPJH
	case model.SourceGroundVertical:
		return c.COPJV
	default:
		return c.COPAir
	}
}

// Config describes the input file and its column mapping.
type Config struct {
	Path    string  `json:"path"`
	Columns Columns `json:"columns"`
}

// SetDefaults applies the default column names.
func (c *Config) SetDefaults() {
	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	def(&c.Columns.Time, "time")
	def(&c.Columns.PV, "pv")
	def(&c.Columns.Load, "load")
	def(&c.Columns.SpaceHeat, "space_heat")
	def(&c.Columns.DHW, "dhw")
	def(&c.Columns.COPAir, "cop_lv")
	def(&c.Columns.COPJH, "cop_jh")
	def(&c.Columns.COPJV, "cop_jv")
}

// Load reads the configured CSV file and returns the chronological series
// with the COP column of the given heat-pump source attached.
func Load(cfg Config, source model.HeatPumpSource) ([]model.HourlyInput, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return Read(f, cfg, source)
}

// Read parses the series from r. Rows are sorted by the time column; parse
// failures abort with the offending row and column named.
func Read(r io.Reader, cfg Config, source model.HeatPumpSource) ([]model.HourlyInput, error) {
	cfg.SetDefaults()
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}

	copCol := cfg.Columns.ForSource(source)
	cols := map[string]string{
		"time":       cfg.Columns.Time,
		"pv":         cfg.Columns.PV,
		"load":       cfg.Columns.Load,
		"space_heat": cfg.Columns.SpaceHeat,
		"dhw":        cfg.Columns.DHW,
		"cop":        copCol,
	}
	pos := make(map[string]int, len(cols))
	for field, name := range cols {
		i, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q for %s", name, field)
		}
		pos[field] = i
	}

	var inputs []model.HourlyInput
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(field string) (float64, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[pos[field]]), 64)
			if err != nil {
				return 0, fmt.Errorf("line %d: column %q: %w", line, cols[field], err)
			}
			return v, nil
		}
		tv, err := get("time")
		if err != nil {
			return nil, err
		}
		pv, err := get("pv")
		if err != nil {
			return nil, err
		}
		load, err := get("load")
		if err != nil {
			return nil, err
		}
		space, err := get("space_heat")
		if err != nil {
			return nil, err
		}
		dhw, err := get("dhw")
		if err != nil {
			return nil, err
		}
		cop, err := get("cop")
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, model.HourlyInput{
			Hour:         int(tv),
			PVKW:         pv,
			LoadKW:       load,
			HeatDemandKW: space + dhw,
			COP:          cop,
		})
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Hour < inputs[j].Hour })
	return inputs, nil
}
