package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "wind", cfg.Model.Variant)
	assert.Equal(t, "local", cfg.Model.Backend)
	assert.Equal(t, "best_timeseries_model.json", cfg.Model.Path)
	assert.Equal(t, "label_encoder.json", cfg.Model.EncoderPath)
	assert.Equal(t, -1, cfg.Model.RoundDecimals)
	assert.True(t, cfg.Model.UsesEncoder())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.CORS.AllowCredentials)
}

func TestLoadConfigYieldVariant(t *testing.T) {
	t.Setenv("MODEL_VARIANT", "Yield")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "yield", cfg.Model.Variant)
	assert.Equal(t, "yield_model.json", cfg.Model.Path)
	assert.False(t, cfg.Model.UsesEncoder())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigExplicitModelPath(t *testing.T) {
	t.Setenv("MODEL_PATH", "/models/wind.json")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/models/wind.json", cfg.Model.Path)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown variant", "MODEL_VARIANT", "rainfall"},
		{"unknown backend", "MODEL_BACKEND", "grpc"},
		{"remote without url", "MODEL_BACKEND", "remote"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad read timeout", "SERVER_READ_TIMEOUT", "soon"},
		{"too many decimals", "MODEL_ROUND_DECIMALS", "20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigRemoteBackend(t *testing.T) {
	t.Setenv("MODEL_BACKEND", "remote")
	t.Setenv("MODEL_REMOTE_URL", "http://scorer:9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "remote", cfg.Model.Backend)
	assert.Equal(t, "http://scorer:9000", cfg.Model.RemoteURL)
	assert.Empty(t, cfg.Model.Path)
}
