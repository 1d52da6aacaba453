package solar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Predictor is a loaded, read-only regression model.
type Predictor interface {
	Predict(ctx context.Context, rec Record) (Metrics, error)
	Name() string
	Close() error
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(ctx context.Context, rec Record) (Metrics, error)

// Predict calls f.
func (f PredictorFunc) Predict(ctx context.Context, rec Record) (Metrics, error) {
	return f(ctx, rec)
}

// Name returns "func".
func (f PredictorFunc) Name() string { return "func" }

// Close is a no-op.
func (f PredictorFunc) Close() error { return nil }

// Manifest kinds.
const (
	KindLinear = "linear"
	KindONNX   = "onnx"
)

// Manifest is the on-disk description of a trained model artifact.
type Manifest struct {
	Kind          string             `json:"kind"`
	Name          string             `json:"name,omitempty"`
	HandleUnknown UnknownPolicy      `json:"handleUnknown,omitempty"`
	Features      map[Field][]string `json:"features"`
	Outputs       []string           `json:"outputs,omitempty"`

	// linear
	Coefficients [][]float64 `json:"coefficients,omitempty"`
	Intercept    []float64   `json:"intercept,omitempty"`

	// onnx
	Model  string `json:"model,omitempty"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
}

// LoadOptions tunes predictor loading.
type LoadOptions struct {
	// OrtLibrary is the ONNX Runtime shared library; empty uses the platform default.
	OrtLibrary string
	Logger     *log.Logger
}

// LoadPredictor deserializes the model manifest at path.
func LoadPredictor(path string, opts LoadOptions) (Predictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Kind: ArtifactNotFound, Path: path, Err: err}
		}
		return nil, artifactErr(path, fmt.Errorf("read manifest: %w", err))
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, artifactErr(path, fmt.Errorf("decode manifest: %w", err))
	}
	if len(m.Outputs) > 0 && !sameColumns(m.Outputs, OutputColumns) {
		return nil, artifactErr(path, fmt.Errorf("outputs %v do not match %v", m.Outputs, OutputColumns))
	}
	enc, err := newOneHotEncoder(m.Features, m.HandleUnknown)
	if err != nil {
		return nil, artifactErr(path, err)
	}
	name := m.Name
	if name == "" {
		name = filepath.Base(path)
	}

	var p Predictor
	switch strings.ToLower(m.Kind) {
	case KindLinear:
		p, err = newLinearPredictor(name, enc, m.Coefficients, m.Intercept)
		if err != nil {
			return nil, artifactErr(path, err)
		}
	case KindONNX:
		modelPath := m.Model
		if modelPath == "" {
			return nil, artifactErr(path, errors.New("onnx manifest has no model path"))
		}
		if !filepath.IsAbs(modelPath) {
			modelPath = filepath.Join(filepath.Dir(path), modelPath)
		}
		if _, err := os.Stat(modelPath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, &LoadError{Kind: ArtifactNotFound, Path: modelPath, Err: err}
			}
			return nil, artifactErr(path, err)
		}
		p, err = newONNXPredictor(name, modelPath, m.Input, m.Output, enc, opts.OrtLibrary)
		if err != nil {
			return nil, artifactErr(path, err)
		}
	default:
		return nil, artifactErr(path, fmt.Errorf("unsupported model kind %q", m.Kind))
	}
	if opts.Logger != nil {
		opts.Logger.Printf("model %s loaded (%s, %d encoded features)", name, strings.ToLower(m.Kind), enc.Width())
	}
	return p, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
