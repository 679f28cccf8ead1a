package response

import (
	"log/slog"
	"net/http"
)

// ResponseHandler writes the JSON envelopes every route answers with.
type ResponseHandler interface {
	WriteSuccess(w http.ResponseWriter, r *http.Request, status int, data any)
	WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string)
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

type responseHandler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *responseHandler {
	if log == nil {
		log = slog.Default()
	}
	return &responseHandler{log: log}
}

func writeJSONHeader(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
}
