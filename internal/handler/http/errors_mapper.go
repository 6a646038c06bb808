package http

import (
	"errors"
	"net/http"

	"github.com/ashenlk/tenant-keeper/internal/ledger"
	"github.com/ashenlk/tenant-keeper/internal/service"
	"github.com/ashenlk/tenant-keeper/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:    http.StatusBadRequest,
	service.ErrMalformedSequenceState: http.StatusInternalServerError,
	service.ErrAllocationExhausted:    http.StatusConflict,

	store.ErrNotFound:                   http.StatusNotFound,
	store.ErrDisplayIDTaken:             http.StatusConflict,
	store.ErrNICAlreadyExists:           http.StatusConflict,
	store.ErrContactAlreadyExists:       http.StatusConflict,
	store.ErrRoomNameTaken:              http.StatusConflict,
	store.ErrFacilityNameTaken:          http.StatusConflict,
	store.ErrMeterNoTaken:               http.StatusConflict,
	store.ErrVersionConflict:            http.StatusConflict,
	store.ErrNoOpenPriceInterval:        http.StatusInternalServerError,
	store.ErrMultipleOpenPriceIntervals: http.StatusInternalServerError,

	ledger.ErrNoOpenInterval:        http.StatusInternalServerError,
	ledger.ErrMultipleOpenIntervals: http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

// errorFieldMap names the offending attribute for duplicate-value conflicts
// so clients can point at the right form field.
var errorFieldMap = map[error]string{
	store.ErrNICAlreadyExists:     "nicNo",
	store.ErrContactAlreadyExists: "contactNo",
	store.ErrRoomNameTaken:        "name",
	store.ErrFacilityNameTaken:    "name",
	store.ErrMeterNoTaken:         "meterNo",
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func fieldFromError(err error) string {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Field
	}

	for target, field := range errorFieldMap {
		if errors.Is(err, target) {
			return field
		}
	}
	return ""
}
