package models

// Pagination describes the page window of a list response.
type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
	PageSize    int64 `json:"pageSize"`
}

// ListFilter carries the common paging and filtering parameters accepted by
// every list endpoint. Zero values mean "no filter"; Page and PageSize are
// normalised by the store layer.
type ListFilter struct {
	Page       int64
	PageSize   int64
	Search     string
	BuildingID string
	RoomID     string
}

// MessageResponse is the envelope for simple success responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope for error responses. Field names the
// offending attribute for duplicate-identifier conflicts.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
