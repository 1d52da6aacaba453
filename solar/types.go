package solar

import (
	"fmt"
)

// Field identifies one categorical model input.
type Field string

const (
	// FieldETL is the electron transport layer material.
	FieldETL Field = "etl"
	// FieldHTL is the hole transport layer material.
	FieldHTL Field = "htl"
	// FieldPerovskite is the absorber material.
	FieldPerovskite Field = "perovskite"
)

// FieldSpec ties a model input field to its dataset column and its display label.
type FieldSpec struct {
	Field  Field
	Column string
	Label  string
}

// Fields lists the model inputs in encoding and display order.
var Fields = []FieldSpec{
	{Field: FieldETL, Column: "ETL", Label: "Electron Transport Layer (ETL)"},
	{Field: FieldHTL, Column: "HTL", Label: "Hole Transport Layer (HTL)"},
	{Field: FieldPerovskite, Column: "Perovskite Used", Label: "Perovskite Material"},
}

// SpecFor returns the FieldSpec registered for f.
func SpecFor(f Field) (FieldSpec, bool) {
	for _, spec := range Fields {
		if spec.Field == f {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Record is the single row passed to a Predictor.
type Record struct {
	ETL        string `json:"etl"`
	HTL        string `json:"htl"`
	Perovskite string `json:"perovskite"`
}

// Value returns the record value for f.
func (r Record) Value(f Field) string {
	switch f {
	case FieldETL:
		return r.ETL
	case FieldHTL:
		return r.HTL
	case FieldPerovskite:
		return r.Perovskite
	}
	return ""
}

func (r *Record) set(f Field, v string) {
	switch f {
	case FieldETL:
		r.ETL = v
	case FieldHTL:
		r.HTL = v
	case FieldPerovskite:
		r.Perovskite = v
	}
}

// Complete reports whether every field holds a value.
func (r Record) Complete() bool {
	return r.ETL != "" && r.HTL != "" && r.Perovskite != ""
}

// Metrics holds the four predicted performance figures.
type Metrics struct {
	Voc float64 `json:"voc_v"`
	Jsc float64 `json:"jsc_ma_cm2"`
	FF  float64 `json:"ff"`
	PCE float64 `json:"pce_pct"`
}

// OutputColumns is the positional order predictors emit values in.
var OutputColumns = []string{"Voc_V", "Jsc_mA_cm2", "FF", "PCE_pct"}

// MetricsFromRow maps a predictor output row (Voc, Jsc, FF, PCE) to Metrics.
func MetricsFromRow(row []float64) (Metrics, error) {
	if len(row) != len(OutputColumns) {
		return Metrics{}, fmt.Errorf("expected %d output values %v, got %d", len(OutputColumns), OutputColumns, len(row))
	}
	return Metrics{Voc: row[0], Jsc: row[1], FF: row[2], PCE: row[3]}, nil
}

// MetricDisplay is one labelled, formatted metric.
type MetricDisplay struct {
	Label string
	Value string
}

// Display returns the metrics in on-screen order: PCE, Voc, Jsc, FF.
func (m Metrics) Display() []MetricDisplay {
	return []MetricDisplay{
		{Label: "Efficiency (PCE_%)", Value: formatMetric(m.PCE)},
		{Label: "Open-Circuit Voltage (Voc_V)", Value: formatMetric(m.Voc)},
		{Label: "Short-Circuit Current (Jsc_mA/cm²)", Value: formatMetric(m.Jsc)},
		{Label: "Fill Factor (FF)", Value: formatMetric(m.FF)},
	}
}

func formatMetric(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
