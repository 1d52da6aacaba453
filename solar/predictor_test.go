package solar

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const linearFixture = "testdata/linear_model.json"

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadPredictorLinear(t *testing.T) {
	t.Parallel()

	p, err := LoadPredictor(linearFixture, LoadOptions{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	assert.Equal(t, "perovskite-linear-test", p.Name())

	m, err := p.Predict(context.Background(), Record{ETL: "TiO2", HTL: "Spiro-OMeTAD", Perovskite: "MAPbI3"})
	require.NoError(t, err)
	assert.InDelta(t, 1.10, m.Voc, 1e-9)
	assert.InDelta(t, 22.5, m.Jsc, 1e-9)
	assert.InDelta(t, 0.78, m.FF, 1e-9)
	assert.InDelta(t, 19.3, m.PCE, 1e-9)

	m, err = p.Predict(context.Background(), Record{ETL: "SnO2", HTL: "PTAA", Perovskite: "FAPbI3"})
	require.NoError(t, err)
	assert.InDelta(t, 1.01, m.Voc, 1e-9)
	assert.InDelta(t, 22.5, m.Jsc, 1e-9)
	assert.InDelta(t, 0.77, m.FF, 1e-9)
	assert.InDelta(t, 19.0, m.PCE, 1e-9)
}

func TestLoadPredictorUnknownCategory(t *testing.T) {
	t.Parallel()

	p, err := LoadPredictor(linearFixture, LoadOptions{})
	require.NoError(t, err)

	// ZnO encodes to an all-zero ETL block, same as the TiO2 reference column.
	m, err := p.Predict(context.Background(), Record{ETL: "ZnO", HTL: "Spiro-OMeTAD", Perovskite: "MAPbI3"})
	require.NoError(t, err)
	assert.InDelta(t, 19.3, m.PCE, 1e-9)

	data, err := os.ReadFile(linearFixture)
	require.NoError(t, err)
	strict := writeManifest(t, string(data[:len(data)-2])+`, "handleUnknown": "error"}`)
	p, err = LoadPredictor(strict, LoadOptions{})
	require.NoError(t, err)
	_, err = p.Predict(context.Background(), Record{ETL: "ZnO", HTL: "Spiro-OMeTAD", Perovskite: "MAPbI3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown etl category "ZnO"`)
}

func TestLoadPredictorFoldsWidthVariants(t *testing.T) {
	t.Parallel()

	p, err := LoadPredictor(linearFixture, LoadOptions{})
	require.NoError(t, err)
	m, err := p.Predict(context.Background(), Record{ETL: "ＳｎＯ2", HTL: "PTAA", Perovskite: "FAPbI3"})
	require.NoError(t, err)
	assert.InDelta(t, 19.0, m.PCE, 1e-9)
}

func TestLoadPredictorNotFound(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "solar_cell_model.json")
	_, err := LoadPredictor(path, LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
	assert.Equal(t, "Model file '"+path+"' not found. Please ensure it's in the same directory.", err.Error())
}

func TestLoadPredictorCorrupt(t *testing.T) {
	t.Parallel()

	features := `"features": {"etl": ["TiO2"], "htl": ["PTAA"], "perovskite": ["MAPbI3"]}`
	cases := map[string]string{
		"invalid json":      `{"kind": "linear",`,
		"unknown kind":      `{"kind": "pickle", ` + features + `}`,
		"missing features":  `{"kind": "linear", "features": {"etl": ["TiO2"]}, "coefficients": [[1],[1],[1],[1]]}`,
		"coefficient rows":  `{"kind": "linear", ` + features + `, "coefficients": [[1,1,1]]}`,
		"coefficient width": `{"kind": "linear", ` + features + `, "coefficients": [[1],[1],[1],[1]]}`,
		"intercept size":    `{"kind": "linear", ` + features + `, "coefficients": [[1,1,1],[1,1,1],[1,1,1],[1,1,1]], "intercept": [1]}`,
		"outputs":           `{"kind": "linear", "outputs": ["PCE_pct"], ` + features + `}`,
		"handle unknown":    `{"kind": "linear", "handleUnknown": "drop", ` + features + `}`,
		"duplicate vocab":   `{"kind": "linear", "features": {"etl": ["TiO2", "TiO2"], "htl": ["PTAA"], "perovskite": ["MAPbI3"]}}`,
		"onnx without path": `{"kind": "onnx", ` + features + `}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadPredictor(writeManifest(t, body), LoadOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrArtifactCorrupt)
			assert.NotErrorIs(t, err, ErrArtifactNotFound)
			assert.Contains(t, err.Error(), "An error occurred loading the model:")
		})
	}
}

func TestLoadPredictorONNXGraphMissing(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `{"kind": "onnx", "model": "graph.onnx", "input": "float_input", "output": "variable",
		"features": {"etl": ["TiO2"], "htl": ["PTAA"], "perovskite": ["MAPbI3"]}}`)
	_, err := LoadPredictor(path, LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
	assert.Contains(t, err.Error(), "graph.onnx")
}

func TestLoadPredictorONNXTensorNames(t *testing.T) {
	t.Parallel()

	path := writeManifest(t, `{"kind": "onnx", "model": "graph.onnx",
		"features": {"etl": ["TiO2"], "htl": ["PTAA"], "perovskite": ["MAPbI3"]}}`)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "graph.onnx"), []byte("stub"), 0o644))
	_, err := LoadPredictor(path, LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArtifactCorrupt)
}

func TestPredictHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	p, err := LoadPredictor(linearFixture, LoadOptions{})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Predict(ctx, Record{ETL: "TiO2", HTL: "PTAA", Perovskite: "MAPbI3"})
	assert.ErrorIs(t, err, context.Canceled)
}
