package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

func (h *Handler) createBuilding(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createBuilding").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	building, err := h.services.Buildings.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, building)
}

func (h *Handler) listBuildings(w http.ResponseWriter, r *http.Request) {
	buildings, page, err := h.services.Buildings.List(r.Context(), listFilterFromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Items: buildings, Pagination: page})
}

func (h *Handler) getBuilding(w http.ResponseWriter, r *http.Request) {
	building, err := h.services.Buildings.Get(r.Context(), chi.URLParam(r, "buildingID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, building)
}

func (h *Handler) updateBuilding(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.UpdateBuildingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.updateBuilding").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	building, err := h.services.Buildings.Update(r.Context(), chi.URLParam(r, "buildingID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, building)
}

func (h *Handler) setBuildingActive(w http.ResponseWriter, r *http.Request) {
	id, active, err := activationFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.services.Buildings.SetActive(r.Context(), id, active); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "building updated"})
}
