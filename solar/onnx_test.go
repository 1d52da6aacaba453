package solar

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	onnxFixture         = "testdata/onnx_model.json"
	onnxIdentityFixture = "testdata/onnx_identity.json"
)

// ortLibrary returns the onnxruntime shared library named by ONNXRUNTIME_LIB
// and skips the test when it is unset.
func ortLibrary(t *testing.T) string {
	t.Helper()
	lib := os.Getenv("ONNXRUNTIME_LIB")
	if lib == "" {
		t.Skip("ONNXRUNTIME_LIB not set")
	}
	if _, err := os.Stat(lib); err != nil {
		t.Skipf("onnxruntime library unavailable: %v", err)
	}
	return lib
}

func TestToFloat32(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float32{0, 1, 0.5}, toFloat32([]float64{0, 1, 0.5}))
	assert.Empty(t, toFloat32(nil))
}

func TestMetricsFromFloat32(t *testing.T) {
	t.Parallel()

	m, err := metricsFromFloat32([]float32{1.1, 22.5, 0.78, 19.3})
	require.NoError(t, err)
	assert.InDelta(t, 1.1, m.Voc, 1e-6)
	assert.InDelta(t, 22.5, m.Jsc, 1e-6)
	assert.InDelta(t, 0.78, m.FF, 1e-6)
	assert.InDelta(t, 19.3, m.PCE, 1e-5)

	_, err = metricsFromFloat32([]float32{1, 2, 3})
	assert.ErrorContains(t, err, "expected 4 output values")
}

func TestONNXPredictorRunsGraph(t *testing.T) {
	lib := ortLibrary(t)

	p, err := LoadPredictor(onnxFixture, LoadOptions{OrtLibrary: lib})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	assert.Equal(t, "perovskite-onnx-test", p.Name())

	m, err := p.Predict(context.Background(), Record{ETL: "TiO2", HTL: "Spiro-OMeTAD", Perovskite: "MAPbI3"})
	require.NoError(t, err)
	assert.InDelta(t, 1.10, m.Voc, 1e-5)
	assert.InDelta(t, 22.5, m.Jsc, 1e-5)
	assert.InDelta(t, 0.78, m.FF, 1e-5)
	assert.InDelta(t, 19.3, m.PCE, 1e-5)

	m, err = p.Predict(context.Background(), Record{ETL: "SnO2", HTL: "PTAA", Perovskite: "FAPbI3"})
	require.NoError(t, err)
	assert.InDelta(t, 1.01, m.Voc, 1e-5)
	assert.InDelta(t, 22.5, m.Jsc, 1e-5)
	assert.InDelta(t, 0.77, m.FF, 1e-5)
	assert.InDelta(t, 19.0, m.PCE, 1e-5)
}

func TestONNXPredictorRejectsWrongOutputWidth(t *testing.T) {
	lib := ortLibrary(t)

	p, err := LoadPredictor(onnxIdentityFixture, LoadOptions{OrtLibrary: lib})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	_, err = p.Predict(context.Background(), Record{ETL: "TiO2", HTL: "PTAA", Perovskite: "MAPbI3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 4 output values")
	assert.Contains(t, err.Error(), "got 6")
}

func TestONNXPredictorClosed(t *testing.T) {
	lib := ortLibrary(t)

	p, err := LoadPredictor(onnxFixture, LoadOptions{OrtLibrary: lib})
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = p.Predict(context.Background(), Record{ETL: "TiO2", HTL: "PTAA", Perovskite: "MAPbI3"})
	assert.ErrorContains(t, err, "closed")
}
