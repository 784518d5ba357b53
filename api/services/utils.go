package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/EO-DataHub/eodhp-directory-admin/internal/catalog"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/creation"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/directory"
	"github.com/EO-DataHub/eodhp-directory-admin/internal/editor"
	"github.com/EO-DataHub/eodhp-directory-admin/models"
)

// Error codes written to models.Response.ErrorCode.
const (
	ErrCodeValidation  = "validation_failed"
	ErrCodeDirectory   = "directory_error"
	ErrCodeUnreachable = "directory_unreachable"
)

var errBadRequest = errors.New("bad request")

func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}, location ...string) {

	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most curent data
	w.Header().Set("Cache-Control", "max-age=0")

	// Conditionally set the Location header if provided
	if len(location) > 0 && location[0] != "" {
		w.Header().Set("Location", location[0])
	}

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return // **Return immediately to avoid multiple WriteHeader calls**
		}
	}
}

// HandleErrResponse writes err in the response envelope. The raw message of
// the directory is passed through untouched.
func HandleErrResponse(w http.ResponseWriter, err error) {
	statusCode, code := classify(err)

	response := models.Response{
		Success:      0,
		ErrorCode:    code,
		ErrorDetails: err.Error(),
	}

	var validationErr *creation.ValidationError
	if errors.As(err, &validationErr) {
		response.Violations = validationErr.Messages()
	}

	WriteResponse(w, statusCode, response)
}

// HandleSuccessResponse writes data in the response envelope.
func HandleSuccessResponse(w http.ResponseWriter, statusCode int, data interface{}, location ...string) {
	WriteResponse(w, statusCode, models.Response{Success: 1, Data: data}, location...)
}

// classify maps err to an HTTP status and an error code. Validation errors
// are the caller's fault, a directory that answered with an HTTP status
// keeps it, and anything else is a bad gateway.
func classify(err error) (int, string) {
	var validationErr *creation.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, errBadRequest),
		errors.Is(err, editor.ErrReadOnlyField),
		errors.Is(err, editor.ErrUnknownField),
		errors.Is(err, editor.ErrUnknownGroup),
		errors.Is(err, catalog.ErrInvalidAttributeType):
		return http.StatusBadRequest, ErrCodeValidation
	}

	var transportErr *directory.TransportError
	if errors.As(err, &transportErr) {
		if transportErr.Status != 0 {
			return transportErr.Status, ErrCodeDirectory
		}
		return http.StatusBadGateway, ErrCodeUnreachable
	}

	return http.StatusBadGateway, ErrCodeDirectory
}

// decodeBody decodes the JSON request body into v.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

// groupIDVar parses the numeric group id of a route.
func groupIDVar(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid group id %q", errBadRequest, value)
	}
	return id, nil
}
