package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ashenlk/tenant-keeper/internal/logger"
	"github.com/ashenlk/tenant-keeper/models"
)

// listResponse is the envelope of every paginated listing.
type listResponse struct {
	Items      any               `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and encodes the error envelope. The
// response body carries sanitized sentinel text only; wrapped driver details
// stay in the log.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).
			Str("uri", r.RequestURI).
			Msg("request failed")
	}

	writeJSON(w, status, models.ErrorResponse{
		Error: message,
		Field: fieldFromError(err),
	})
}

// listFilterFromRequest reads the shared paging and filter query parameters.
func listFilterFromRequest(r *http.Request) models.ListFilter {
	q := r.URL.Query()

	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	pageSize, _ := strconv.ParseInt(q.Get("pageSize"), 10, 64)

	return models.ListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     q.Get("search"),
		BuildingID: q.Get("buildingId"),
		RoomID:     q.Get("roomId"),
	}
}

var errUnknownAction = errors.New("action must be \"enable\" or \"disable\"")

// activationFromRequest reads the ?id=&action= pair used by the PATCH
// endpoints that flip the soft-delete flag.
func activationFromRequest(r *http.Request) (id string, active bool, err error) {
	q := r.URL.Query()

	id = q.Get("id")
	if id == "" {
		return "", false, errors.New("id query parameter is required")
	}

	switch q.Get("action") {
	case "enable":
		return id, true, nil
	case "disable":
		return id, false, nil
	default:
		return "", false, errUnknownAction
	}
}
