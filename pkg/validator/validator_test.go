package validator_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
)

type sampleStruct struct {
	Title    string  `validate:"required,min=1,max=10"`
	Released *string `validate:"omitempty,datetime=2006-01-02"`
	AuthorID *int64  `validate:"omitempty,gt=0"`
}

func strPtr(s string) *string { return &s }
func intPtr(i int64) *int64   { return &i }

func TestValidate_valid(t *testing.T) {
	s := sampleStruct{Title: "hello", Released: strPtr("1969-03-01"), AuthorID: intPtr(3)}
	if err := pkgvalidator.Validate(&s); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestValidate_missingRequired(t *testing.T) {
	s := sampleStruct{}
	if err := pkgvalidator.Validate(&s); err == nil {
		t.Fatal("expected validation error for empty struct")
	}
}

func TestFormatValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    sampleStruct
		field string
		want  string
	}{
		{"required", sampleStruct{}, "Title", "This field is required"},
		{"max", sampleStruct{Title: "12345678901"}, "Title", "Maximum length is 10"},
		{"datetime", sampleStruct{Title: "ok", Released: strPtr("03/01/1969")}, "Released", "Must be a date in the format 2006-01-02"},
		{"gt", sampleStruct{Title: "ok", AuthorID: intPtr(0)}, "AuthorID", "Must be greater than 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pkgvalidator.FormatValidationErrors(pkgvalidator.Validate(&tt.in))
			if m[tt.field] != tt.want {
				t.Errorf("%s message = %q, want %q", tt.field, m[tt.field], tt.want)
			}
		})
	}
}

func TestFormatValidationErrors_nonValidationError(t *testing.T) {
	m := pkgvalidator.FormatValidationErrors(http.ErrNoCookie)
	if len(m) != 0 {
		t.Errorf("expected empty map for non-validation error, got %v", m)
	}
}

// --- ValidateRequest ---

type bookReq struct {
	Title           *string `json:"title"            validate:"omitempty,max=255"`
	PublicationDate *string `json:"publication_date" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidateRequest_valid(t *testing.T) {
	body := `{"title":"Kindred","publication_date":"1979-06-01"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	req, ok := pkgvalidator.ValidateRequest[bookReq](w, r)
	if !ok {
		t.Fatalf("expected ok=true, got false. Response: %s", w.Body.String())
	}
	if req.Title == nil || *req.Title != "Kindred" {
		t.Errorf("unexpected Title: %v", req.Title)
	}
}

func TestValidateRequest_invalidJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{bad json"))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[bookReq](w, r)
	if ok {
		t.Fatal("expected ok=false for malformed JSON")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid JSON") {
		t.Errorf("expected 'Invalid JSON' in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_badDate(t *testing.T) {
	body := `{"title":"Kindred","publication_date":"June 1979"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	_, ok := pkgvalidator.ValidateRequest[bookReq](w, r)
	if ok {
		t.Fatal("expected ok=false for malformed date")
	}
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "publication_date") {
		t.Errorf("expected publication_date error in body, got: %s", w.Body.String())
	}
}

func TestValidateRequest_bodyTooLarge(t *testing.T) {
	body := `{"title":"` + strings.Repeat("a", 64) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.Body = http.MaxBytesReader(w, r.Body, 16)

	_, ok := pkgvalidator.ValidateRequest[bookReq](w, r)
	if ok {
		t.Fatal("expected ok=false for oversized body")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestValidateRequest_strictDecoding(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{name: "empty body", body: "", wantCode: http.StatusBadRequest, wantBody: "Request body is required"},
		{name: "unknown property", body: `{"title":"Kindred","author":"Butler"}`, wantCode: http.StatusUnprocessableEntity, wantBody: `"author":"Unknown field"`},
		{name: "trailing document", body: `{"title":"Kindred"}{"title":"Dawn"}`, wantCode: http.StatusBadRequest, wantBody: "single JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			if _, ok := pkgvalidator.ValidateRequest[bookReq](w, r); ok {
				t.Fatal("expected ok=false")
			}
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", w.Body.String(), tt.wantBody)
			}
		})
	}
}
