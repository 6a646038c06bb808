package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

func (h *Handler) createTenant(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createTenant").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	tenant, err := h.services.Tenants.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tenant)
}

func (h *Handler) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, page, err := h.services.Tenants.List(r.Context(), listFilterFromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Items: tenants, Pagination: page})
}

func (h *Handler) getTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.services.Tenants.Get(r.Context(), chi.URLParam(r, "tenantID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

func (h *Handler) updateTenant(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.updateTenant").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	tenant, err := h.services.Tenants.Update(r.Context(), chi.URLParam(r, "tenantID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

func (h *Handler) setTenantActive(w http.ResponseWriter, r *http.Request) {
	id, active, err := activationFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.services.Tenants.SetActive(r.Context(), id, active); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "tenant updated"})
}
