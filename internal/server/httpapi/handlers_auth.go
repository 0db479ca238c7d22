package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/cahierdeveille/internal/common"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/auth"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/services"
)

type userResponse struct {
	User *models.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req, maxBodySize); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	user, err := h.Accounts.Register(r.Context(), services.RegisterInput{
		Operator:        req.Operator,
		Matricule:       req.Matricule,
		Service:         req.Service,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		RGPD:            req.RGPD,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.logger.Info(r.Context(), "Registered", "user_id", user.ID)
	writeJSON(w, http.StatusOK, okResponse)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req, maxBodySize); err != nil {
		writeError(w, http.StatusUnauthorized, services.MsgBadCredentials)
		return
	}

	token, user, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, services.MsgBadCredentials)
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	auth.SetSessionCookie(w, token, h.opts.SessionValidity, h.opts.SecureCookie)
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// currentUser never fails: any problem reads as "no user".
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.FromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, userResponse{})
		return
	}
	user, err := h.Accounts.CurrentUser(r.Context(), sess)
	if err != nil {
		if !errors.Is(err, common.ErrorUnauthorized) {
			h.logger.Error(r.Context(), "get user error", "error", err)
		}
		writeJSON(w, http.StatusOK, userResponse{})
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.opts.SecureCookie)
	writeJSON(w, http.StatusOK, okResponse)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.opts.Health != nil {
		if err := h.opts.Health(r.Context()); err != nil {
			h.logger.Error(r.Context(), "health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
