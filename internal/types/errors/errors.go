package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrDBInternal = errors.New("database internal error")
	ErrNotFound   = errors.New("record not found")

	ErrAlreadyExists = errors.New("record already exists")
	ErrBadPassword   = errors.New("bad password")
	ErrBadID         = errors.New("bad id")

	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionIsExpired = errors.New("session is expired")
	ErrNoAuth           = errors.New("authorization required")

	ErrInvalidJSONPayload = errors.New("invalid JSON payload")
)

// ValidationError carries the names of required fields missing from a
// create payload. Mapped to HTTP 400 with a field-level breakdown.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}

type ErrorServer struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func (e *ErrorServer) Error() string {
	return e.Message
}

// NewErrorServer accepts a nil error, in which case the envelope reports
// success to the client.
func NewErrorServer(err error) ErrorServer {
	if err == nil {
		return ErrorServer{
			Success: true,
			Message: "success",
		}
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return ErrorServer{
			Success: false,
			Message: vErr.Error(),
			Fields:  vErr.Fields,
		}
	}

	return ErrorServer{
		Success: false,
		Message: err.Error(),
	}
}

func SendErrorTo(w http.ResponseWriter, err error, statusCode int, logger *zap.SugaredLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if errEncode := json.NewEncoder(w).Encode(NewErrorServer(err)); errEncode != nil {
		logger.Error(errEncode)
	}
}
