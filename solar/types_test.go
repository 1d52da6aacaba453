package solar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldContract(t *testing.T) {
	t.Parallel()

	want := []FieldSpec{
		{Field: "etl", Column: "ETL", Label: "Electron Transport Layer (ETL)"},
		{Field: "htl", Column: "HTL", Label: "Hole Transport Layer (HTL)"},
		{Field: "perovskite", Column: "Perovskite Used", Label: "Perovskite Material"},
	}
	assert.Equal(t, want, Fields)

	for _, spec := range want {
		got, ok := SpecFor(spec.Field)
		require.True(t, ok)
		assert.Equal(t, spec, got)
	}
	_, ok := SpecFor("ETL")
	assert.False(t, ok)
}

func TestRecordWireNames(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Record{ETL: "TiO2", HTL: "Spiro-OMeTAD", Perovskite: "MAPbI3"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"etl":"TiO2","htl":"Spiro-OMeTAD","perovskite":"MAPbI3"}`, string(data))
}

func TestMetricsFromRow(t *testing.T) {
	t.Parallel()

	m, err := MetricsFromRow([]float64{1.10, 22.5, 0.78, 19.3})
	require.NoError(t, err)
	assert.Equal(t, Metrics{Voc: 1.10, Jsc: 22.5, FF: 0.78, PCE: 19.3}, m)

	_, err = MetricsFromRow([]float64{1, 2, 3})
	require.Error(t, err)
	_, err = MetricsFromRow(nil)
	require.Error(t, err)
}

func TestMetricsDisplayOrder(t *testing.T) {
	t.Parallel()

	got := Metrics{Voc: 1.10, Jsc: 22.5, FF: 0.78, PCE: 19.3}.Display()
	assert.Equal(t, []MetricDisplay{
		{Label: "Efficiency (PCE_%)", Value: "19.30"},
		{Label: "Open-Circuit Voltage (Voc_V)", Value: "1.10"},
		{Label: "Short-Circuit Current (Jsc_mA/cm²)", Value: "22.50"},
		{Label: "Fill Factor (FF)", Value: "0.78"},
	}, got)
}
