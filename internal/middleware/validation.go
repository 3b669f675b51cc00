package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ErrEmptyBody is returned by DecodeAndValidate when the request has no body
var ErrEmptyBody = errors.New("request body is empty")

// ValidateRequest validates v against its validation tags
func ValidateRequest(v interface{}) error {
	return validate.Struct(v)
}

// DecodeAndValidate decodes the JSON request body into v and validates it.
// Unknown fields are rejected.
func DecodeAndValidate(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return ValidateRequest(v)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors to a readable format.
// Errors that are not validation failures yield an empty list.
func FormatValidationErrors(err error) []ValidationError {
	out := []ValidationError{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}
	for _, e := range verrs {
		out = append(out, ValidationError{
			Field:   e.Field(),
			Message: fieldMessage(e),
		})
	}
	return out
}

// RespondWithDecodeError answers a failed DecodeAndValidate with a 400
func RespondWithDecodeError(w http.ResponseWriter, err error) {
	if verrs := FormatValidationErrors(err); len(verrs) > 0 {
		RespondWithValidationErrors(w, verrs)
		return
	}
	RespondWithError(w, http.StatusBadRequest, err.Error())
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "oneof":
		return "Must be one of: " + strings.Join(strings.Fields(e.Param()), ", ")
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "gt":
		return "Value must be greater than " + e.Param()
	default:
		return "Invalid value"
	}
}
