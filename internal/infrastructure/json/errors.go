package json

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/hilthontt/burnroom/internal/domain"
	"github.com/hilthontt/burnroom/internal/infrastructure/logging"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	resp := ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: msg,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func WriteValidationError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
}

func WriteBadRequestError(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, "bad_request", msg)
}

func WriteInternalError(w http.ResponseWriter, logger logging.Logger, err error) {
	if logger != nil {
		logger.Error(logging.Internal, logging.ExternalService, "internal error", map[logging.ExtraKey]any{
			logging.ErrorMessage: err.Error(),
		})
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}

func WriteRateLimitError(w http.ResponseWriter, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again later.")
}

// StatusFor maps a domain error onto an HTTP status.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidInput:
		if errors.Is(err, domain.ErrDisplayNameRequired) {
			return http.StatusForbidden
		}
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindCapacity:
		if errors.Is(err, domain.ErrTooManyRooms) {
			return http.StatusServiceUnavailable
		}
		return http.StatusConflict
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError writes err with the status and reason code its kind calls for.
// Unclassified errors are logged and hidden behind a generic 500.
func WriteDomainError(w http.ResponseWriter, logger logging.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		WriteInternalError(w, logger, err)
		return
	}

	msg := domain.ReasonText(err)
	if msg == "" {
		msg = err.Error()
	}

	writeError(w, status, domain.Code(err), msg)
}
