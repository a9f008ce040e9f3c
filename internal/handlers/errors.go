package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sentencescramble/internal/service"
	"sentencescramble/internal/validation"
)

// maxBodyBytes bounds request bodies; assignment links stay well below it
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			zap.L().Error(logMsg, zap.Int("status", status), zap.Error(err))
		} else {
			zap.L().Debug(logMsg, zap.Int("status", status), zap.Error(err))
		}
	}

	respondJSON(w, status, errorResponse{Error: userMsg})
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Warn("failed to write response", zap.Error(err))
	}
}

// decodeJSON reads a JSON request body into v, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", err)
		return false
	}
	return true
}

// respondWithServiceError maps service and validation errors to statuses
func respondWithServiceError(w http.ResponseWriter, err error) {
	var vErr validation.ValidationError
	if errors.As(err, &vErr) {
		zap.L().Debug("validation failed", zap.String("field", vErr.Field), zap.Error(err))
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Message, Field: vErr.Field})
		return
	}

	switch {
	case errors.Is(err, service.ErrAssignmentInvalid),
		errors.Is(err, service.ErrSentenceOutOfRange):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", err)
	case errors.Is(err, service.ErrProgressNotFound):
		respondWithError(w, http.StatusNotFound, "Progress not found", "", err)
	case errors.Is(err, service.ErrAlreadyFinished),
		errors.Is(err, service.ErrNotCurrentItem):
		respondWithError(w, http.StatusConflict, err.Error(), "", err)
	case errors.Is(err, service.ErrReceiptInvalid):
		respondWithError(w, http.StatusBadRequest, "Receipt is invalid or expired", "", err)
	case errors.Is(err, service.ErrReceiptNotEnabled):
		respondWithError(w, http.StatusServiceUnavailable, "Receipts are not configured", "", err)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", "", err)
	}
}
