package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pixelvault-dev/pixelvault/internal/errors"
	"github.com/pixelvault-dev/pixelvault/internal/logger"
)

// ErrorResponse is the envelope every failed request gets back.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WriteErrorAndStatusCode maps the error taxonomy to a transport status
// and writes the standard error envelope. Unclassified errors become 500
// without exposing internal detail to the caller.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch e := err.(type) {
	case *errors.ValidationError:
		status = http.StatusBadRequest
		message = e.Message
	case *errors.DuplicateIdError:
		status = http.StatusBadRequest
		message = e.Error()
	case *errors.NotFoundError:
		status = http.StatusNotFound
		message = e.Error()
	case *errors.ExpiredError:
		status = http.StatusGone
		message = e.Error()
	case *errors.StoreUnavailableError:
		status = http.StatusServiceUnavailable
		message = "Storage temporarily unavailable"
	case *errors.ErrorWithStatusCode:
		status = e.StatusCode
		message = e.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(ErrorResponse{Success: false, Message: message}); encodeErr != nil {
		logger.Log.Error("failed to encode error response", "error", encodeErr)
	}
}

// DecodeValidate decodes a JSON body and checks validator tags.
// Any failure maps to a ValidationError so the caller gets a 400.
func DecodeValidate(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return &errors.ValidationError{Message: "Body is invalid json"}
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(body); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(errs))
			for _, fe := range errs {
				fields = append(fields, fe.Field())
			}
			return &errors.ValidationError{Message: "Missing required fields: " + strings.Join(fields, ", ")}
		}
		return &errors.ValidationError{Message: "Required fields missing"}
	}
	return nil
}

// Decode decodes a JSON body without validation.
func Decode(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		return &errors.ValidationError{Message: "Body is invalid json"}
	}
	return nil
}
