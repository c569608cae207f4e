package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadLinearRegression(t *testing.T) {
	path := writeFile(t, "model.json", `{
		"type": "linear_regression",
		"feature_names": ["a", "b"],
		"coefficients": [2, -1],
		"intercept": 0.5
	}`)

	m, err := LoadLinearRegression(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, m.FeatureNames())
	assert.Equal(t, 2, m.NumFeatures())

	out, err := m.Predict(context.Background(), [][]float64{{1, 1}, {3, 2}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 4.5}, out, 1e-9)
}

func TestLoadLinearRegressionErrors(t *testing.T) {
	tests := map[string]string{
		"malformed":       `{"coefficients": [1,`,
		"wrong type":      `{"type": "random_forest", "coefficients": [1]}`,
		"no coefficients": `{"type": "linear_regression", "coefficients": []}`,
		"names mismatch":  `{"feature_names": ["a"], "coefficients": [1, 2]}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadLinearRegression(writeFile(t, "model.json", content))
			assert.Error(t, err)
		})
	}

	_, err := LoadLinearRegression(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLinearRegressionPredictErrors(t *testing.T) {
	m, err := NewLinearRegression("", nil, []float64{1, 2, 3}, 0)
	require.NoError(t, err)

	_, err = m.Predict(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = m.Predict(context.Background(), [][]float64{{1, 2}})
	assert.ErrorContains(t, err, "model expects 3")

	_, err = m.Predict(context.Background(), [][]float64{{1e308, 1e308, 1e308}})
	assert.ErrorContains(t, err, "not finite")
}

func TestLinearRegressionDeterministic(t *testing.T) {
	m, err := NewLinearRegression(linearRegressionType, nil, []float64{0.3, 0.1, -0.02, 0.05, 0.4}, 1.2)
	require.NoError(t, err)

	row := []float64{3.5, 0, 20, 10, 1}
	first, err := PredictOne(context.Background(), m, row)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := PredictOne(context.Background(), m, row)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLinearRegressionSaveRoundTrip(t *testing.T) {
	m, err := NewLinearRegression(linearRegressionType, []string{"x"}, []float64{4}, -1)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.json")
	require.NoError(t, m.Save(path))

	loaded, err := LoadLinearRegression(path)
	require.NoError(t, err)
	got, err := PredictOne(context.Background(), loaded, []float64{2})
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestLoadBackends(t *testing.T) {
	path := writeFile(t, "model.json", `{"coefficients": [1]}`)

	p, err := Load(Options{Backend: "local", Path: path})
	require.NoError(t, err)
	assert.IsType(t, &LinearRegression{}, p)

	p, err = Load(Options{Backend: "remote", RemoteURL: "http://localhost:9000"})
	require.NoError(t, err)
	assert.IsType(t, &Remote{}, p)

	_, err = Load(Options{Backend: "onnx"})
	assert.Error(t, err)
}
