// Package errhttp maps catalog domain errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/catalog/pkg/httpx"
	"github.com/ghuser/catalog/services/catalog/domain"
)

// ErrorResponse is the body written for every error. Kind and Fields are set
// for validation rejections only.
type ErrorResponse struct {
	Error  string   `json:"error"            example:"Missing required fields: title, isbn"`
	Kind   string   `json:"kind,omitempty"   example:"missing_fields"`
	Fields []string `json:"fields,omitempty" example:"title,isbn"`
} // @name ErrorResponse

// WriteSafeError maps err to an HTTP status code and writes a JSON error
// response. Wrapped sentinels are matched with errors.Is, and anything
// unrecognised is a 500. In production, 5xx messages are replaced by the
// status text.
func WriteSafeError(w http.ResponseWriter, err error, isProduction bool) {
	status := mapErrorToStatus(err)
	body := ErrorResponse{Error: httpx.SafeError(err, status, isProduction)}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Error = verr.Error()
		body.Kind = domain.KindOf(verr)
		body.Fields = verr.Fields
	}
	httpx.JSON(w, status, body)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrServerFault):
		return http.StatusInternalServerError // 500
	case errors.Is(err, domain.ErrMissingFields):
		return http.StatusBadRequest // 400
	case errors.Is(err, domain.ErrDuplicateISBN):
		return http.StatusConflict // 409
	case errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidValue),
		errors.Is(err, domain.ErrReferentialViolation):
		return http.StatusUnprocessableEntity // 422
	case errors.Is(err, domain.ErrBookNotFound),
		errors.Is(err, domain.ErrAuthorNotFound),
		errors.Is(err, domain.ErrCategoryNotFound):
		return http.StatusNotFound // 404
	default:
		return http.StatusInternalServerError // 500
	}
}
