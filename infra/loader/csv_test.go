package loader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nulenergi/microgrid/core/model"
)

const sample = `time,pv,load,space_heat,dhw,cop_lv,cop_jh,cop_jv
1,0.5,1.2,2.0,0.3,2.8,3.4,3.9
0,0.0,1.0,2.5,0.2,2.5,3.3,3.8
2,1.5,0.8,1.0,0.1,3.0,3.5,4.0
`

func TestReadSortsAndMapsColumns(t *testing.T) {
	inputs, err := Read(strings.NewReader(sample), Config{}, model.SourceAirWater)
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	assert.Equal(t, 0, inputs[0].Hour)
	assert.Equal(t, 2, inputs[2].Hour)
	assert.InDelta(t, 1.0, inputs[0].LoadKW, 1e-9)
	// heat demand is space heat plus hot water
	assert.InDelta(t, 2.7, inputs[0].HeatDemandKW, 1e-9)
	assert.InDelta(t, 2.5, inputs[0].COP, 1e-9)
}

func TestReadSelectsCOPSource(t *testing.T) {
	inputs, err := Read(strings.NewReader(sample), Config{}, model.SourceGroundVertical)
	require.NoError(t, err)
	assert.InDelta(t, 3.8, inputs[0].COP, 1e-9)
}

func TestReadMissingColumn(t *testing.T) {
	data := "time,pv,load\n0,1,2\n"
	_, err := Read(strings.NewReader(data), Config{}, model.SourceAirWater)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestReadBadValue(t *testing.T) {
	data := strings.Replace(sample, "1.2", "abc", 1)
	_, err := Read(strings.NewReader(data), Config{}, model.SourceAirWater)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load")
}

func TestCustomColumnNames(t *testing.T) {
	data := "Tid,Solproduktion,Elforbrug,Varmeforbrug,Brugsvand,COP_LV,COP_JH,COP_JV\n0,1,2,3,0.5,2.5,3.3,3.8\n"
	cfg := Config{Columns: Columns{
		Time:      "Tid",
		PV:        "Solproduktion",
		Load:      "Elforbrug",
		SpaceHeat: "Varmeforbrug",
		DHW:       "Brugsvand",
		COPAir:    "COP_LV",
		COPJH:     "COP_JH",
		COPJV:     "COP_JV",
	}}
	inputs, err := Read(strings.NewReader(data), cfg, model.SourceAirWater)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, inputs[0].HeatDemandKW, 1e-9)
}
