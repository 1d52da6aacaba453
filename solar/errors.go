package solar

import (
	"errors"
	"fmt"
)

// LoadErrorKind classifies start-up failures.
type LoadErrorKind int

const (
	// ArtifactNotFound means the model manifest or a file it references does not exist.
	ArtifactNotFound LoadErrorKind = iota + 1
	// ArtifactCorrupt covers every other model deserialization failure.
	ArtifactCorrupt
	// DatasetNotFound means the option spreadsheet does not exist.
	DatasetNotFound
	// ColumnMissing means a required dataset column is absent.
	ColumnMissing
	// DatasetLoadError covers every other dataset read failure.
	DatasetLoadError
)

func (k LoadErrorKind) String() string {
	switch k {
	case ArtifactNotFound:
		return "ArtifactNotFound"
	case ArtifactCorrupt:
		return "ArtifactCorrupt"
	case DatasetNotFound:
		return "DatasetNotFound"
	case ColumnMissing:
		return "ColumnMissing"
	case DatasetLoadError:
		return "DatasetLoadError"
	}
	return fmt.Sprintf("LoadErrorKind(%d)", int(k))
}

// Sentinels for errors.Is matching against a *LoadError.
var (
	ErrArtifactNotFound = &LoadError{Kind: ArtifactNotFound}
	ErrArtifactCorrupt  = &LoadError{Kind: ArtifactCorrupt}
	ErrDatasetNotFound  = &LoadError{Kind: DatasetNotFound}
	ErrColumnMissing    = &LoadError{Kind: ColumnMissing}
	ErrDatasetLoad      = &LoadError{Kind: DatasetLoadError}
)

// ErrPrediction marks a failed inference call. It never aborts the session.
var ErrPrediction = errors.New("prediction failed")

// LoadError is a fatal start-up failure. Error() yields the message shown to the user.
type LoadError struct {
	Kind   LoadErrorKind
	Path   string
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	switch e.Kind {
	case ArtifactNotFound:
		return fmt.Sprintf("Model file '%s' not found. Please ensure it's in the same directory.", e.Path)
	case ArtifactCorrupt:
		return fmt.Sprintf("An error occurred loading the model: %v", e.Err)
	case DatasetNotFound:
		return fmt.Sprintf("Dataset '%s' not found.", e.Path)
	case ColumnMissing:
		return fmt.Sprintf("Error: A column name is incorrect in your new Excel file. Could not find: '%s'", e.Column)
	case DatasetLoadError:
		return fmt.Sprintf("An error occurred loading the dataset: %v", e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can use the Err* sentinels.
func (e *LoadError) Is(target error) bool {
	t, ok := target.(*LoadError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func artifactErr(path string, err error) *LoadError {
	return &LoadError{Kind: ArtifactCorrupt, Path: path, Err: err}
}

func datasetErr(path string, err error) *LoadError {
	return &LoadError{Kind: DatasetLoadError, Path: path, Err: err}
}

// PredictionError wraps an inference failure for display.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return fmt.Sprintf("An error occurred during prediction: %v", e.Err)
}

func (e *PredictionError) Unwrap() []error {
	return []error{ErrPrediction, e.Err}
}
