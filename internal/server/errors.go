package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sirahabazaar/delivery/internal/repository"
	"github.com/sirahabazaar/delivery/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusForError is the single place mapping domain errors to HTTP codes.
// Lost claim races get code order_unavailable so clients refresh instead of
// retrying.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, storage.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, repository.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, storage.ErrForbidden), errors.Is(err, storage.ErrNotAssignedPartner):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, storage.ErrPartnerNotEligible):
		return http.StatusForbidden, "partner_not_eligible"
	case errors.Is(err, repository.ErrObjectNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, storage.ErrOrderNotAvailable), errors.Is(err, storage.ErrAlreadyClaimed):
		return http.StatusConflict, "order_unavailable"
	case errors.Is(err, storage.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, storage.ErrTerminalState):
		return http.StatusConflict, "terminal_state"
	case errors.Is(err, storage.ErrDeliveryNotActive):
		return http.StatusConflict, "delivery_not_active"
	case errors.Is(err, storage.ErrPartnerExists), errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, "already_exists"
	case errors.Is(err, storage.ErrPartnerBusy):
		return http.StatusConflict, "partner_busy"
	}
	return http.StatusInternalServerError, "internal_error"
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusForError(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		msg = "internal server error"
	} else {
		s.logger.Warn("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
	}
	respondJSON(w, status, errorResponse{Error: msg, Code: code})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
