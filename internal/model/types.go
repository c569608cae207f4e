package model

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Predictor interface {
	// Predict scores every row of batch and returns one value per row
	Predict(ctx context.Context, batch [][]float64) ([]float64, error)
}

// Describer is implemented by predictors that know the feature order they
// were trained on.
type Describer interface {
	FeatureNames() []string
	NumFeatures() int
}

var ErrEmptyBatch = errors.New("empty batch")

// PredictOne scores a single row.
func PredictOne(ctx context.Context, p Predictor, vector []float64) (float64, error) {
	out, err := p.Predict(ctx, [][]float64{vector})
	if err != nil {
		return 0, err
	}
	if len(out) != 1 {
		return 0, fmt.Errorf("expected 1 prediction, got %d", len(out))
	}
	return out[0], nil
}

// Options configure Load.
type Options struct {
	Backend       string
	Path          string
	RemoteURL     string
	RemoteTimeout time.Duration
}

// Load opens the predictor for the configured backend.
func Load(opts Options) (Predictor, error) {
	switch opts.Backend {
	case "", "local":
		return LoadLinearRegression(opts.Path)
	case "remote":
		return NewRemote(opts.RemoteURL, opts.RemoteTimeout)
	default:
		return nil, fmt.Errorf("unsupported model backend %q", opts.Backend)
	}
}
