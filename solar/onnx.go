package solar

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var ortEnv struct {
	mu   sync.Mutex
	refs int
}

func acquireORT(library string) error {
	ortEnv.mu.Lock()
	defer ortEnv.mu.Unlock()
	if ortEnv.refs == 0 && !ort.IsInitialized() {
		if library != "" {
			ort.SetSharedLibraryPath(library)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return fmt.Errorf("initialize onnxruntime: %w", err)
		}
	}
	ortEnv.refs++
	return nil
}

func releaseORT() {
	ortEnv.mu.Lock()
	defer ortEnv.mu.Unlock()
	if ortEnv.refs == 0 {
		return
	}
	ortEnv.refs--
	if ortEnv.refs == 0 {
		_ = ort.DestroyEnvironment()
	}
}

// onnxPredictor feeds the one-hot vector to an ONNX graph as a [1, n] float32 tensor.
type onnxPredictor struct {
	name    string
	enc     *oneHotEncoder
	session *ort.DynamicAdvancedSession

	mu     sync.Mutex
	closed bool
}

func newONNXPredictor(name, modelPath, input, output string, enc *oneHotEncoder, library string) (*onnxPredictor, error) {
	if input == "" || output == "" {
		return nil, errors.New("onnx manifest needs input and output tensor names")
	}
	if err := acquireORT(library); err != nil {
		return nil, err
	}
	session, err := ort.NewDynamicAdvancedSession(modelPath, []string{input}, []string{output}, nil)
	if err != nil {
		releaseORT()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}
	return &onnxPredictor{name: name, enc: enc, session: session}, nil
}

func (p *onnxPredictor) Name() string { return p.name }

func (p *onnxPredictor) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	err := p.session.Destroy()
	releaseORT()
	return err
}

func (p *onnxPredictor) Predict(ctx context.Context, rec Record) (Metrics, error) {
	if err := ctx.Err(); err != nil {
		return Metrics{}, err
	}
	x, err := p.enc.Encode(rec)
	if err != nil {
		return Metrics{}, err
	}
	data := toFloat32(x)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return Metrics{}, errors.New("predictor is closed")
	}
	in, err := ort.NewTensor(ort.NewShape(1, int64(len(data))), data)
	if err != nil {
		return Metrics{}, fmt.Errorf("input tensor: %w", err)
	}
	defer in.Destroy()

	// nil lets onnxruntime allocate the output with whatever shape the graph produces.
	outputs := []ort.Value{nil}
	if err := p.session.Run([]ort.Value{in}, outputs); err != nil {
		return Metrics{}, fmt.Errorf("run onnx session: %w", err)
	}
	if outputs[0] == nil {
		return Metrics{}, errors.New("onnx session produced no output")
	}
	defer outputs[0].Destroy()
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return Metrics{}, fmt.Errorf("onnx output is %T, want a float32 tensor", outputs[0])
	}
	return metricsFromFloat32(out.GetData())
}

func toFloat32(x []float64) []float32 {
	out := make([]float32, len(x))
	for i, v := range x {
		out[i] = float32(v)
	}
	return out
}

func metricsFromFloat32(raw []float32) (Metrics, error) {
	row := make([]float64, len(raw))
	for i, v := range raw {
		row[i] = float64(v)
	}
	return MetricsFromRow(row)
}
