package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

const linearRegressionType = "linear_regression"

// LinearRegression is an ordinary least squares model exported from a
// training job. It is never mutated after loading, so one value can serve
// concurrent requests.
type LinearRegression struct {
	featureNames []string
	coefficients []float64
	intercept    float64
}

// linearArtifact is the on-disk JSON layout.
type linearArtifact struct {
	Type         string    `json:"type"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LoadLinearRegression reads and checks a model artifact.
func LoadLinearRegression(path string) (*LinearRegression, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}
	var art linearArtifact
	if err := json.Unmarshal(payload, &art); err != nil {
		return nil, fmt.Errorf("decoding model artifact %s: %w", path, err)
	}
	return NewLinearRegression(art.Type, art.FeatureNames, art.Coefficients, art.Intercept)
}

func NewLinearRegression(kind string, featureNames []string, coefficients []float64, intercept float64) (*LinearRegression, error) {
	if kind != "" && kind != linearRegressionType {
		return nil, fmt.Errorf("unsupported model type %q", kind)
	}
	if len(coefficients) == 0 {
		return nil, errors.New("model has no coefficients")
	}
	if len(featureNames) != 0 && len(featureNames) != len(coefficients) {
		return nil, fmt.Errorf("model declares %d feature names but %d coefficients", len(featureNames), len(coefficients))
	}
	for i, c := range coefficients {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d is not finite", i)
		}
	}
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, errors.New("intercept is not finite")
	}

	return &LinearRegression{
		featureNames: append([]string(nil), featureNames...),
		coefficients: append([]float64(nil), coefficients...),
		intercept:    intercept,
	}, nil
}

func (m *LinearRegression) Predict(_ context.Context, batch [][]float64) ([]float64, error) {
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}
	out := make([]float64, len(batch))
	for i, row := range batch {
		if len(row) != len(m.coefficients) {
			return nil, fmt.Errorf("row %d has %d features, model expects %d", i, len(row), len(m.coefficients))
		}
		y := m.intercept
		for j, x := range row {
			y += m.coefficients[j] * x
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("row %d: prediction is not finite", i)
		}
		out[i] = y
	}
	return out, nil
}

// FeatureNames returns the training-time feature order, or nil when the
// artifact did not record it.
func (m *LinearRegression) FeatureNames() []string {
	return append([]string(nil), m.featureNames...)
}

func (m *LinearRegression) NumFeatures() int {
	return len(m.coefficients)
}

// Save writes the model in the format LoadLinearRegression reads.
func (m *LinearRegression) Save(path string) error {
	payload, err := json.MarshalIndent(linearArtifact{
		Type:         linearRegressionType,
		FeatureNames: m.featureNames,
		Coefficients: m.coefficients,
		Intercept:    m.intercept,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}
