package prediction

import (
	"fmt"
	"strings"

	"github.com/sozercan/predict-api/apimodels"
)

// ValidationError is returned by Decode when the request body is malformed
// or any field is missing or out of bounds. The model is not consulted.
type ValidationError struct {
	Fields []apimodels.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(f.Loc, "."), f.Msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PredictionError wraps any failure while building the feature vector or
// scoring it.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return "Prediction failed: " + e.Err.Error()
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}
