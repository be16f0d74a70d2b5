package sdk

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRoomCode      = errors.New("missing required room code")
	ErrMissingParticipantID = errors.New("missing required participant id")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Status     string `json:"error"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("burnroom: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("burnroom: %d %s", e.StatusCode, e.Status)
}

// IsCode reports whether err is an APIError carrying the given reason code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}
