package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/sozercan/predict-api/apimodels"
	"github.com/sozercan/predict-api/internal/prediction"
)

const docsPath = "/docs"

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	if s.cfg.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	}

	in, err := s.service.Decode(r.Body)
	if err != nil {
		var verr *prediction.ValidationError
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &verr):
			slog.Debug("Rejected prediction request", "error", err)
			writeJSON(w, http.StatusUnprocessableEntity, apimodels.ValidationErrorResponse{Detail: verr.Fields})
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, apimodels.ErrorResponse{
				Detail: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
		default:
			slog.Warn("Reading prediction request failed", "error", err)
			writeJSON(w, http.StatusBadRequest, apimodels.ErrorResponse{Detail: err.Error()})
		}
		return
	}

	result, err := s.service.Predict(r.Context(), in)
	if err != nil {
		slog.Error("Prediction request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, apimodels.ErrorResponse{Detail: err.Error()})
		return
	}

	slog.Debug("Prediction request completed successfully", "result", result)
	writeJSON(w, http.StatusOK, map[string]float64{s.service.Variant().ResultKey: result})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, docsPath, http.StatusTemporaryRedirect)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.openapi)
}

var docsTemplate = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Title}} - Swagger UI</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
SwaggerUIBundle({url: "{{.SpecURL}}", dom_id: "#swagger-ui"});
</script>
</body>
</html>
`))

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := docsTemplate.Execute(w, struct {
		Title   string
		SpecURL string
	}{
		Title:   s.service.Variant().Title,
		SpecURL: "/openapi.json",
	})
	if err != nil {
		slog.Error("Rendering docs page failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apimodels.HealthResponse{
		Status:  "ok",
		Variant: s.service.Variant().Name,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("Encoding response failed", "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(apimodels.ErrorResponse{Detail: "encoding response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
