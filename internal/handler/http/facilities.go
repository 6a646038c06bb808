package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

func (h *Handler) createFacility(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateRoomFacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createFacility").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	facility, err := h.services.Facilities.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, facility)
}

func (h *Handler) listFacilities(w http.ResponseWriter, r *http.Request) {
	facilities, page, err := h.services.Facilities.List(r.Context(), listFilterFromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Items: facilities, Pagination: page})
}

func (h *Handler) getFacility(w http.ResponseWriter, r *http.Request) {
	facility, err := h.services.Facilities.Get(r.Context(), chi.URLParam(r, "facilityID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, facility)
}

func (h *Handler) updateFacility(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.UpdateRoomFacilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.updateFacility").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	facility, err := h.services.Facilities.Update(r.Context(), chi.URLParam(r, "facilityID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, facility)
}

func (h *Handler) setFacilityActive(w http.ResponseWriter, r *http.Request) {
	id, active, err := activationFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.services.Facilities.SetActive(r.Context(), id, active); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "facility updated"})
}
