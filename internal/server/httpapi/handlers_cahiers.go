package httpapi

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/cahierdeveille/internal/server/models"
	"github.com/dmitrijs2005/cahierdeveille/internal/server/services"
)

type cahiersResponse struct {
	Cahiers []models.Cahier `json:"cahiers"`
}

type indicatifsResponse struct {
	Indicatifs []string `json:"indicatifs"`
}

func parseRows(in []models.CommunicationInput) ([]models.Communication, error) {
	out := make([]models.Communication, 0, len(in))
	for _, row := range in {
		c, err := row.Parse()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func eventDetails(e models.EventDetailsRequest) services.EventDetails {
	return services.EventDetails{
		Evenement:   e.Evenement,
		Redacteur:   e.Redacteur,
		Poste:       e.Poste,
		Frequence:   e.Frequence,
		Responsable: e.Responsable,
	}
}

func (h *Handler) listCahiers(w http.ResponseWriter, r *http.Request) {
	archived, _ := strconv.ParseBool(r.URL.Query().Get("archived"))
	list, err := h.Cahiers.List(r.Context(), session(r), archived)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cahiersResponse{Cahiers: list})
}

func (h *Handler) createCahier(w http.ResponseWriter, r *http.Request) {
	h.saveCahier(w, r, 0)
}

func (h *Handler) updateCahier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	h.saveCahier(w, r, id)
}

func (h *Handler) saveCahier(w http.ResponseWriter, r *http.Request, id int64) {
	var req models.SaveCahierRequest
	if err := decodeJSON(w, r, &req, maxBodySize); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	rows, err := parseRows(req.Communications)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	detail, err := h.Cahiers.Save(r.Context(), session(r), services.SaveInput{
		ID:             id,
		Event:          eventDetails(req.EventDetailsRequest),
		Communications: rows,
		Indicatifs:     req.Indicatifs,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if id == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, detail)
}

func (h *Handler) getCahier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	detail, err := h.Cahiers.Get(r.Context(), session(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) archiveCahier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err := h.Cahiers.Archive(r.Context(), session(r), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

func (h *Handler) deleteCommunication(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	commID, ok2 := idParam(r, "commId")
	if !ok || !ok2 {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err := h.Cahiers.DeleteCommunication(r.Context(), session(r), id, commID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}

func (h *Handler) exportCahier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	data, name, err := h.Cahiers.Export(r.Context(), session(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// saveCahierLegacy keeps the one-shot endpoint of the first frontend, with
// its own reply envelope.
func (h *Handler) saveCahierLegacy(w http.ResponseWriter, r *http.Request) {
	var req models.LegacySaveRequest
	if err := decodeJSON(w, r, &req, maxBodySize); err != nil {
		writeJSON(w, http.StatusBadRequest, successResponse{Error: msgBadRequest})
		return
	}
	rows, err := parseRows(req.Communications)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, successResponse{Error: msgBadRequest})
		return
	}

	out, err := h.Cahiers.SaveLegacy(r.Context(), session(r), eventDetails(req.EventDetails), rows)
	if err != nil {
		h.logger.Error(r.Context(), "Error saving cahier", "error", err)
		writeJSON(w, http.StatusInternalServerError, successResponse{Error: "Error saving cahier"})
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: out})
}

func (h *Handler) listIndicatifs(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	labels, err := h.Indicatifs.List(r.Context(), session(r), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, indicatifsResponse{Indicatifs: labels})
}

func (h *Handler) addIndicatif(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	var req models.IndicatifRequest
	if err := decodeJSON(w, r, &req, maxBodySize); err != nil {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := h.Indicatifs.Add(r.Context(), session(r), id, req.Indicatif); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, okResponse)
}

func (h *Handler) removeIndicatif(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err := h.Indicatifs.Remove(r.Context(), session(r), id, textParam(r, "label")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}
