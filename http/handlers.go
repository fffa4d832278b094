package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"heartrisk/ml"
	"heartrisk/patient"
)

func RegisterHandlers(mux *http.ServeMux, app *App) {
	mux.HandleFunc("GET /{$}", app.handleForm)
	mux.HandleFunc("POST /predict", app.handleFormPredict)
	mux.HandleFunc("GET /api/health", app.handleHealth)
	mux.HandleFunc("GET /api/fields", handleFields)
	mux.HandleFunc("POST /api/predict", app.handlePredict)
	if app.Metrics != nil {
		mux.Handle("GET /metrics", app.Metrics.Handler())
	}
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !app.Predictor.Available() {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "model_unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleFields(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fields": patient.Fields(),
	})
}

func (app *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	raw := make(map[string]*float64)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&raw); err != nil || dec.Decode(&struct{}{}) != io.EOF {
		app.countInvalid()
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be a single JSON object of numbers"})
		return
	}

	values := make(map[string]float64, len(raw))
	var nulls []patient.FieldError
	for _, f := range patient.Fields() {
		v, ok := raw[f.Name]
		if !ok {
			continue
		}
		if v == nil {
			nulls = append(nulls, patient.FieldError{Field: f.Name, Message: "must be a number, not null"})
			continue
		}
		values[f.Name] = *v
	}
	if len(nulls) > 0 {
		app.countInvalid()
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "invalid input",
			"fields": nulls,
		})
		return
	}

	record, err := patient.FromValues(values)
	if err != nil {
		app.countInvalid()
		var verr *patient.ValidationError
		if errors.As(err, &verr) {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  "invalid input",
				"fields": verr.Fields,
			})
			return
		}
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	verdict, err := app.Predictor.Predict(r.Context(), record)
	if err != nil {
		if errors.Is(err, ml.ErrModelUnavailable) {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "model unavailable"})
			return
		}
		app.Logger.Error("Prediction failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "prediction failed"})
		return
	}
	respondJSON(w, http.StatusOK, verdict)
}

func (app *App) countInvalid() {
	if app.Metrics != nil {
		app.Metrics.InvalidInputs.Inc()
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("Failed to encode JSON", zap.Error(err))
	}
}
