package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Remote forwards scoring to an HTTP model server that accepts
// {"instances": [[...]]} on POST /predict and answers {"predictions": [...]}.
type Remote struct {
	baseURL string
	client  *http.Client
}

type remoteRequest struct {
	Instances [][]float64 `json:"instances"`
}

type remoteResponse struct {
	Predictions []float64 `json:"predictions"`
}

func NewRemote(baseURL string, timeout time.Duration) (*Remote, error) {
	slog.Info("Creating remote predictor", "endpoint", baseURL)
	if baseURL == "" {
		return nil, errors.New("remote model endpoint cannot be empty")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (r *Remote) Predict(ctx context.Context, batch [][]float64) ([]float64, error) {
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}

	body, err := json.Marshal(remoteRequest{Instances: batch})
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	if len(out.Predictions) != len(batch) {
		return nil, fmt.Errorf("model server returned %d predictions for %d rows", len(out.Predictions), len(batch))
	}
	return out.Predictions, nil
}
