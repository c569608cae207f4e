// cmd/server/main.go
package main

import (
	"log"
	"log/slog"

	"github.com/sozercan/predict-api/internal/config"
	"github.com/sozercan/predict-api/internal/logging"
	"github.com/sozercan/predict-api/internal/model"
	"github.com/sozercan/predict-api/internal/prediction"
	"github.com/sozercan/predict-api/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	variant, err := prediction.VariantByName(cfg.Model.Variant)
	if err != nil {
		log.Fatalf("failed to select variant: %v", err)
	}

	predictor, err := model.Load(model.Options{
		Backend:       cfg.Model.Backend,
		Path:          cfg.Model.Path,
		RemoteURL:     cfg.Model.RemoteURL,
		RemoteTimeout: cfg.Model.RemoteTimeout,
	})
	if err != nil {
		log.Fatalf("failed to load model: %v", err)
	}
	if err := prediction.CheckFeatures(variant, predictor); err != nil {
		log.Fatalf("model does not fit the %s schema: %v", variant.Name, err)
	}
	slog.Info("model loaded", "backend", cfg.Model.Backend, "path", cfg.Model.Path, "variant", variant.Name)

	opts := []prediction.Option{prediction.WithRounding(cfg.Model.RoundDecimals)}
	if cfg.Model.UsesEncoder() {
		encoder, err := model.LoadLabelEncoder(cfg.Model.EncoderPath)
		if err != nil {
			log.Fatalf("failed to load label encoder: %v", err)
		}
		slog.Info("label encoder loaded", "path", cfg.Model.EncoderPath, "classes", encoder.Classes())
		opts = append(opts, prediction.WithLabelEncoder(encoder))
	}

	service, err := prediction.New(variant, predictor, opts...)
	if err != nil {
		log.Fatalf("failed to create prediction service: %v", err)
	}

	srv, err := server.New(*cfg, service)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port,
		"variant", variant.Name, "backend", cfg.Model.Backend)
	if err := srv.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
