package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path"
	"strconv"
)

const contentTypeJSON = "application/json; charset=utf-8"

// JSON writes v as JSON with the given status code. The body is encoded
// before any header is written, so an unencodable value yields a clean 500
// instead of a truncated document under a success status.
func JSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"Internal Server Error"}` + "\n")
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// JSONError writes a standard {"error": message} JSON response.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Created writes v with 201 and a Location header pointing at the new
// resource, which lives at the collection path plus its id.
func Created(w http.ResponseWriter, r *http.Request, id int64, v any) {
	w.Header().Set("Location", path.Join(r.URL.Path, strconv.FormatInt(id, 10)))
	JSON(w, http.StatusCreated, v)
}

// NoContent writes an empty 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// SafeError returns the error message for client responses.
// In production (isProduction=true), internal server errors (5xx) are replaced
// with a generic message to avoid leaking implementation details.
func SafeError(err error, status int, isProduction bool) string {
	if isProduction && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
