// Package validator decodes JSON request bodies and runs go-playground tag
// validation on them. Shape checks live here; catalog rules such as required
// book fields and ISBN format are enforced by the domain layer.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/catalog/pkg/httpx"
)

// DateLayout is the wire format of calendar dates such as publication_date.
const DateLayout = "2006-01-02"

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// JSON field name to a human-readable message.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "datetime":
		return fmt.Sprintf("Must be a date in the format %s", e.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

const unknownFieldPrefix = "json: unknown field "

// ValidateRequest decodes the JSON request body into T, validates it, and
// writes an error response if either step fails:
//   - 413 when the body exceeds the router's cap
//   - 400 for an empty body, malformed JSON or trailing data
//   - 422 for properties T does not declare, and for failed tags
//
// Returns (parsedStruct, true) on success or (nil, false) on failure.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			httpx.JSONError(w, http.StatusBadRequest, "Request body is required")
		case strings.HasPrefix(err.Error(), unknownFieldPrefix):
			field := strings.Trim(strings.TrimPrefix(err.Error(), unknownFieldPrefix), `"`)
			writeFieldErrors(w, map[string]string{field: "Unknown field"})
		default:
			httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		}
		return nil, false
	}
	if dec.More() {
		httpx.JSONError(w, http.StatusBadRequest, "Request body must contain a single JSON object")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		writeFieldErrors(w, FormatValidationErrors(err))
		return nil, false
	}
	return &req, true
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	httpx.JSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  "Validation failed",
		"fields": fields,
	})
}
