package solar

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// FormState is the phase of the prediction form.
type FormState int

const (
	// StateIdle accepts selection changes and submissions.
	StateIdle FormState = iota
	// StateSubmitted is held while the predictor runs.
	StateSubmitted
	// StateDisplayingResult is reported by an outcome carrying metrics.
	StateDisplayingResult
	// StateDisplayingError is reported by an outcome carrying a prediction error.
	StateDisplayingError
)

func (s FormState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSubmitted:
		return "Submitted"
	case StateDisplayingResult:
		return "DisplayingResult"
	case StateDisplayingError:
		return "DisplayingError"
	}
	return fmt.Sprintf("FormState(%d)", int(s))
}

// Outcome is the result of one submission.
type Outcome struct {
	State   FormState
	Record  Record
	Metrics Metrics
	Display []MetricDisplay
	Err     error
}

// OK reports whether the submission produced metrics.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Controller drives the select-then-submit cycle over a loaded predictor and catalog.
// It is not safe for concurrent use; the form processes one submission at a time.
type Controller struct {
	predictor Predictor
	catalog   Catalog
	logger    *log.Logger

	sel   Record
	state FormState
	last  *Outcome
}

// NewController returns a controller with every field set to its first option.
func NewController(p Predictor, c Catalog, logger *log.Logger) (*Controller, error) {
	if p == nil {
		return nil, errors.New("predictor is required")
	}
	for _, spec := range Fields {
		if c.Len(spec.Field) == 0 {
			return nil, fmt.Errorf("no options for %s", spec.Label)
		}
	}
	return &Controller{
		predictor: p,
		catalog:   c,
		logger:    logger,
		sel:       c.Default(),
	}, nil
}

// Options returns the choices offered for f.
func (c *Controller) Options(f Field) []string {
	return c.catalog.Options(f)
}

// Selection returns the current selection.
func (c *Controller) Selection() Record {
	return c.sel
}

// State returns the current form phase.
func (c *Controller) State() FormState {
	return c.state
}

// Last returns the most recent outcome, if any.
func (c *Controller) Last() (Outcome, bool) {
	if c.last == nil {
		return Outcome{}, false
	}
	return *c.last, true
}

// Select changes the value of one field. Values outside the catalog are rejected.
// It never invokes the predictor.
func (c *Controller) Select(f Field, value string) error {
	if _, ok := SpecFor(f); !ok {
		return fmt.Errorf("unknown field %q", f)
	}
	if !c.catalog.Contains(f, value) {
		return fmt.Errorf("%q is not an option for %s", value, f)
	}
	c.sel.set(f, value)
	return nil
}

// Submit runs the predictor on the current selection. Failures are returned
// in the outcome; the controller stays usable for the next submission.
func (c *Controller) Submit(ctx context.Context) Outcome {
	rec := c.sel
	c.state = StateSubmitted
	defer func() { c.state = StateIdle }()

	out := Outcome{Record: rec}
	m, err := c.predict(ctx, rec)
	if err != nil {
		out.State = StateDisplayingError
		out.Err = &PredictionError{Err: err}
		c.logf("prediction failed for %+v: %v", rec, err)
	} else {
		out.State = StateDisplayingResult
		out.Metrics = m
		out.Display = m.Display()
		c.logf("prediction for %+v: PCE=%.2f Voc=%.2f Jsc=%.2f FF=%.2f", rec, m.PCE, m.Voc, m.Jsc, m.FF)
	}
	c.last = &out
	return out
}

func (c *Controller) predict(ctx context.Context, rec Record) (m Metrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("predictor panic: %v", r)
		}
	}()
	if !rec.Complete() {
		return Metrics{}, errors.New("selection is incomplete")
	}
	return c.predictor.Predict(ctx, rec)
}

func (c *Controller) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
