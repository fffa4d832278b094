package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"heartrisk/ml"
	"heartrisk/patient"
	"heartrisk/predictor"
)

const inferenceFailedMessage = "Prediction failed. Please try again."

func (app *App) modelErrorMessage() string {
	return fmt.Sprintf("Model file not found. Please ensure '%s' is present.", app.ModelPath)
}

func (app *App) handleForm(w http.ResponseWriter, r *http.Request) {
	if !app.Predictor.Available() {
		app.render(w, r, http.StatusServiceUnavailable, &pageData{ModelError: app.modelErrorMessage()})
		return
	}
	app.render(w, r, http.StatusOK, sessionPage(predictor.NewSession(app.Predictor)))
}

func (app *App) handleFormPredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.countInvalid()
		page := newPage(nil, nil)
		page.Error = "Could not read the submitted form."
		app.render(w, r, http.StatusBadRequest, page)
		return
	}

	record, err := patient.ParseForm(r.PostForm)
	if err != nil {
		app.countInvalid()
		fieldErrors := make(map[string]string)
		var verr *patient.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Fields {
				fieldErrors[fe.Field] = fe.Message
			}
		}
		page := newPage(r.PostForm, fieldErrors)
		page.Error = "Some values are outside their allowed range."
		app.render(w, r, http.StatusBadRequest, page)
		return
	}

	session := predictor.NewSession(app.Predictor)
	session.Update(record)
	if _, err := session.Submit(r.Context()); err != nil {
		if errors.Is(err, ml.ErrModelUnavailable) {
			app.render(w, r, http.StatusServiceUnavailable, &pageData{ModelError: app.modelErrorMessage()})
			return
		}
		app.Logger.Error("Prediction failed",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		page := sessionPage(session)
		page.Error = inferenceFailedMessage
		app.render(w, r, http.StatusInternalServerError, page)
		return
	}
	app.render(w, r, http.StatusOK, sessionPage(session))
}

func (app *App) render(w http.ResponseWriter, r *http.Request, status int, page *pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		app.Logger.Error("Failed to render page",
			zap.String("request_id", GetRequestID(r.Context())),
			zap.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
