package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"github.com/mrops-br/products-catalog/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends an error response
func Error(w http.ResponseWriter, status int, err error) {
	errorType := "error"
	switch status {
	case http.StatusNotFound:
		errorType = "not_found"
	case http.StatusBadRequest:
		errorType = "bad_request"
	case http.StatusInternalServerError:
		errorType = "internal_server_error"
	}

	JSON(w, status, ErrorResponse{
		Error:   errorType,
		Message: err.Error(),
	})
}

// StatusFor classifies err into an HTTP status. Domain errors carry their own
// classification; validation failures are bad requests; anything else is internal.
func StatusFor(err error) int {
	if de, ok := domain.AsError(err); ok {
		return de.Status
	}
	switch {
	case errors.Is(err, domain.ErrInvalidProductName),
		errors.Is(err, domain.ErrInvalidProductPrice),
		errors.Is(err, dto.ErrInvalidPagination),
		errors.Is(err, dto.ErrInvalidProductIDs):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// FromError sends err with the status StatusFor assigns to it
func FromError(w http.ResponseWriter, err error) {
	Error(w, StatusFor(err), err)
}
