package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"coursechain/internal/api/v1/dto"
	"coursechain/internal/contract"
	"coursechain/internal/model"
	"coursechain/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps workflow errors onto HTTP statuses. Local validation is the
// caller's fault; guard failures are conflicts with the service state;
// contract rejections are unprocessable; everything else is a server error.
func statusFor(err error) int {
	var input *service.InputError
	var revert *contract.RevertError
	switch {
	case errors.As(err, &input):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, service.ErrReadOnly),
		errors.Is(err, service.ErrWrongNetwork),
		errors.Is(err, contract.ErrNoSigner),
		errors.Is(err, contract.ErrAlreadyEnrolled):
		return http.StatusConflict
	case errors.As(err, &revert), errors.Is(err, contract.ErrReverted):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeTx reports the outcome of a write workflow. The transaction record is
// returned either way; on failure it carries the user-visible error message.
func writeTx(w http.ResponseWriter, record model.PendingTransaction, err error) {
	if err != nil {
		if record.ID == "" {
			http.Error(w, "The operation could not be completed", statusFor(err))
			return
		}
		writeJSON(w, statusFor(err), dto.FromTransaction(record))
		return
	}
	writeJSON(w, http.StatusOK, dto.FromTransaction(record))
}
