package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

func (h *Handler) createMeter(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateMeterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createMeter").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	meter, err := h.services.Meters.CreateMeter(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, meter)
}

func (h *Handler) listMeters(w http.ResponseWriter, r *http.Request) {
	meters, page, err := h.services.Meters.ListMeters(r.Context(), listFilterFromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Items: meters, Pagination: page})
}

func (h *Handler) closeMeter(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CloseMeterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.closeMeter").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	if err := h.services.Meters.CloseMeter(r.Context(), chi.URLParam(r, "meterID"), req); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "meter closed"})
}

func (h *Handler) createMainMeter(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateMainMeterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createMainMeter").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	meter, err := h.services.Meters.CreateMainMeter(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, meter)
}

func (h *Handler) listMainMeters(w http.ResponseWriter, r *http.Request) {
	meters, page, err := h.services.Meters.ListMainMeters(r.Context(), listFilterFromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Items: meters, Pagination: page})
}

func (h *Handler) setMainMeterActive(w http.ResponseWriter, r *http.Request) {
	id, active, err := activationFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.services.Meters.SetMainMeterActive(r.Context(), id, active); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "main meter updated"})
}
