package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
)

const (
	maxBodySize  = 1 << 20
	maxImageBody = 4 << 20
)

const (
	msgBadRequest = "Requête invalide"
	msgNotFound   = "Not found"
	msgConflict   = "Already exists"
	msgInternal   = "Internal server error"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

var okResponse = successResponse{Success: true}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, successResponse{Error: "Unauthorized"})
}

// decodeJSON reads a bounded JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

// writeServiceError maps service errors to status codes. Messages of
// validation errors are meant for the operator and pass through.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrNotSaved):
		writeError(w, http.StatusBadRequest, msgBadRequest)
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, msgConflict)
	case errors.Is(err, common.ErrorUnauthorized):
		writeUnauthorized(w)
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// idParam reads a positive integer path parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

// textParam returns a decoded path parameter. chi matches on RawPath when it
// is set, and only then is the parameter still escaped.
func textParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
