package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/leadflow/crm-directory/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// writeDirectoryError maps directory errors to HTTP statuses.
func writeDirectoryError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case usecase.CodeNotFound:
			writeErrorResponse(w, http.StatusNotFound, de.Code, de.Message)
		case usecase.CodeConflict:
			writeErrorResponse(w, http.StatusConflict, de.Code, de.Message)
		default:
			writeErrorResponse(w, http.StatusBadRequest, de.Code, de.Message)
		}
		return
	}

	code := "INTERNAL_ERROR"
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		code = te.Code
	}
	logger.Error("directory operation failed", zap.String("code", code), zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, code, "internal error")
}

func writeValidationErrors(w http.ResponseWriter, errs []usecase.ValidationError) {
	writeErrorResponse(w, http.StatusBadRequest, usecase.CodeValidation, usecase.JoinValidationErrors(errs))
}

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
