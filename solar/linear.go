package solar

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// linearPredictor evaluates y = W·x + b over the one-hot encoded record.
type linearPredictor struct {
	name string
	enc  *oneHotEncoder
	w    *mat.Dense
	b    *mat.VecDense
}

func newLinearPredictor(name string, enc *oneHotEncoder, coef [][]float64, intercept []float64) (*linearPredictor, error) {
	outputs := len(OutputColumns)
	if len(coef) != outputs {
		return nil, fmt.Errorf("coefficients: want %d rows, got %d", outputs, len(coef))
	}
	width := enc.Width()
	flat := make([]float64, 0, outputs*width)
	for i, row := range coef {
		if len(row) != width {
			return nil, fmt.Errorf("coefficients row %d: want %d columns, got %d", i, width, len(row))
		}
		flat = append(flat, row...)
	}
	b := make([]float64, outputs)
	switch len(intercept) {
	case 0:
	case outputs:
		copy(b, intercept)
	default:
		return nil, fmt.Errorf("intercept: want %d values, got %d", outputs, len(intercept))
	}
	return &linearPredictor{
		name: name,
		enc:  enc,
		w:    mat.NewDense(outputs, width, flat),
		b:    mat.NewVecDense(outputs, b),
	}, nil
}

func (p *linearPredictor) Name() string { return p.name }

func (p *linearPredictor) Close() error { return nil }

func (p *linearPredictor) Predict(ctx context.Context, rec Record) (Metrics, error) {
	if err := ctx.Err(); err != nil {
		return Metrics{}, err
	}
	x, err := p.enc.Encode(rec)
	if err != nil {
		return Metrics{}, err
	}
	var y mat.VecDense
	y.MulVec(p.w, mat.NewVecDense(len(x), x))
	y.AddVec(&y, p.b)
	return MetricsFromRow(y.RawVector().Data)
}
