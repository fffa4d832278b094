package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"heartrisk/predictor"
)

func newAvailablePredictor() *predictor.Predictor {
	return predictor.New(&fakeModel{label: 1})
}

func TestNewHandlerAppliesMiddleware(t *testing.T) {
	app := newTestApp(nil)
	app.Predictor = predictor.New(&fakeModel{label: 1}, predictor.WithObserver(app.Metrics))
	handler := NewHandler(DefaultServerConfig(), app)

	w := postForm(handler, scenarioForm())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mw := httptest.NewRecorder()
	handler.ServeHTTP(mw, req)
	if mw.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", mw.Code)
	}
	body := mw.Body.String()
	if !strings.Contains(body, `test_http_requests_total{method="POST",route="POST /predict",status="200"} 1`) {
		t.Errorf("expected request counter in metrics output:\n%s", body)
	}
	if !strings.Contains(body, `test_predictions_total{verdict="positive"} 1`) {
		t.Errorf("expected prediction counter in metrics output")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	handler := NewHandler(DefaultServerConfig(), newTestApp(newAvailablePredictor()))
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRecoveryLogsRequestID(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	handler := Chain(RequestIDMiddleware, RecoveryMiddleware(zap.New(core)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	entries := logs.FilterMessage("Panic recovered").All()
	if len(entries) != 1 {
		t.Fatalf("expected one panic log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "req-42" {
		t.Fatalf("expected request id req-42 in panic log, got %v", got)
	}
}

func TestOversizedFormKeepsControls(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.MaxBodyBytes = 16
	handler := NewHandler(cfg, newTestApp(newAvailablePredictor()))
	w := postForm(handler, scenarioForm())
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Could not read the submitted form.") {
		t.Fatal("expected form read error")
	}
	for _, name := range []string{`name="age"`, `name="oldpeak"`, `name="thal"`} {
		if !strings.Contains(body, name) {
			t.Errorf("expected control %s to be rendered", name)
		}
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.MaxBodyBytes = 16
	handler := NewHandler(cfg, newTestApp(newAvailablePredictor()))
	w := postJSON(handler, `{"age":50,"sex":1,"cp":0,"trestbps":120}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized body, got %d", w.Code)
	}
}

func TestNewServerAddr(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Port = 9123
	s := NewServer(cfg, newTestApp(newAvailablePredictor()))
	if s.Addr() != ":9123" {
		t.Fatalf("unexpected addr %s", s.Addr())
	}
}
