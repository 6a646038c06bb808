package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

func (h *Handler) createRoom(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.createRoom").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	room, err := h.services.Rooms.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, room)
}

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, page, err := h.services.Rooms.List(r.Context(), listFilterFromRequest(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Items: rooms, Pagination: page})
}

func (h *Handler) getRoom(w http.ResponseWriter, r *http.Request) {
	room, err := h.services.Rooms.Get(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

func (h *Handler) updateRoom(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.updateRoom").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON was passed"})
		return
	}

	room, err := h.services.Rooms.Update(r.Context(), chi.URLParam(r, "roomID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, room)
}

// roomPricesResponse pairs the full interval history with the price
// currently in effect.
type roomPricesResponse struct {
	RoomID       string                 `json:"roomId"`
	CurrentPrice float64                `json:"currentPrice"`
	Prices       []models.PriceInterval `json:"prices"`
}

func (h *Handler) getRoomPrices(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	room, err := h.services.Rooms.Get(r.Context(), roomID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	current, err := h.services.Rooms.CurrentPrice(r.Context(), roomID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, roomPricesResponse{
		RoomID:       room.RoomID,
		CurrentPrice: current,
		Prices:       room.Prices,
	})
}

func (h *Handler) setRoomActive(w http.ResponseWriter, r *http.Request) {
	id, active, err := activationFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.services.Rooms.SetActive(r.Context(), id, active); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "room updated"})
}
