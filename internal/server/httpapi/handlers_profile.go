package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/cahierdeveille/internal/server/auth"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/services"
)

func session(r *http.Request) auth.Session {
	s, _ := auth.FromContext(r.Context())
	return s
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	view, err := h.Profiles.Get(r.Context(), session(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileUpdateRequest
	if err := decodeJSON(w, r, &req, maxBodySize); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	err := h.Profiles.Update(r.Context(), session(r), services.ProfileUpdate{
		Operator:        req.Operator,
		Matricule:       req.Matricule,
		Service:         req.Service,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

func (h *Handler) setSignature(w http.ResponseWriter, r *http.Request) {
	h.setImage(w, r, profiles.ImageSignature)
}

func (h *Handler) setParaphe(w http.ResponseWriter, r *http.Request) {
	h.setImage(w, r, profiles.ImageParaphe)
}

func (h *Handler) setImage(w http.ResponseWriter, r *http.Request, kind string) {
	var req models.ImageRequest
	if err := decodeJSON(w, r, &req, maxImageBody); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.Profiles.SetImage(r.Context(), session(r), kind, req.Image); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Dashboard.Get(r.Context(), session(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
