package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/catalog/services/catalog/domain"
	"github.com/ghuser/catalog/services/catalog/domain/models"
)

type stubAuthors struct {
	calls     int
	lastPatch models.AuthorPatch
	err       error
}

func (s *stubAuthors) author(name string) *models.Author {
	return &models.Author{ID: 1, Name: models.AuthorName(name)}
}

func (s *stubAuthors) Create(_ context.Context, name string) (*models.Author, error) {
	s.calls++
	return s.author(name), s.err
}

func (s *stubAuthors) GetByID(context.Context, int64) (*models.Author, error) {
	return s.author("Octavia Butler"), s.err
}

func (s *stubAuthors) List(context.Context) ([]*models.Author, error) { return nil, s.err }

func (s *stubAuthors) Count(context.Context) (int64, error) { return 0, s.err }

func (s *stubAuthors) Patch(_ context.Context, _ int64, p models.AuthorPatch) (*models.Author, error) {
	s.calls++
	s.lastPatch = p
	return s.author("Octavia Butler"), s.err
}

func (s *stubAuthors) Replace(_ context.Context, _ int64, name string) (*models.Author, error) {
	s.calls++
	return s.author(name), s.err
}

func (s *stubAuthors) Delete(context.Context, int64) error { return s.err }

func authorRouter(svc AuthorUseCases) http.Handler {
	h := NewAuthorHandler(svc, false)
	r := chi.NewRouter()
	r.Post("/authors", h.Create)
	r.Get("/authors", h.List)
	r.Patch("/authors/{id}", h.Patch)
	r.Put("/authors/{id}", h.Replace)
	r.Delete("/authors/{id}", h.Delete)
	return r
}

func TestAuthorHandler_CreateRequiresName(t *testing.T) {
	svc := &stubAuthors{}
	w := do(t, authorRouter(svc), http.MethodPost, "/authors", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.calls != 0 {
		t.Error("service must not be called without a name")
	}

	w = do(t, authorRouter(svc), http.MethodPost, "/authors", `{"name":"Octavia Butler"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var resp AuthorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Name != "Octavia Butler" {
		t.Errorf("name = %q", resp.Name)
	}
}

func TestAuthorHandler_PatchWithoutName(t *testing.T) {
	svc := &stubAuthors{}
	w := do(t, authorRouter(svc), http.MethodPatch, "/authors/1", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.lastPatch.Name != nil {
		t.Errorf("Name should be absent, got %q", *svc.lastPatch.Name)
	}
}

func TestAuthorHandler_ListEmptyIsArray(t *testing.T) {
	w := do(t, authorRouter(&stubAuthors{}), http.MethodGet, "/authors", "")
	if w.Code != http.StatusOK || w.Body.String() != "[]\n" {
		t.Errorf("status %d body %q", w.Code, w.Body.String())
	}
}

func TestAuthorHandler_DeleteInUse(t *testing.T) {
	svc := &stubAuthors{err: domain.ReferentialViolation("id", int64(1), domain.ErrAuthorInUse, "Author with ID 1 is referenced by books.")}
	w := do(t, authorRouter(svc), http.MethodDelete, "/authors/1", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCategoryHandler_ReplaceRequiresGenre(t *testing.T) {
	h := NewCategoryHandler(nil, false)
	r := chi.NewRouter()
	r.Put("/categories/{id}", h.Replace)

	w := do(t, r, http.MethodPut, "/categories/4", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestCategoryHandler_RejectsUnknownProperty(t *testing.T) {
	h := NewCategoryHandler(nil, false)
	r := chi.NewRouter()
	r.Post("/categories", h.Create)

	w := do(t, r, http.MethodPost, "/categories", `{"name":"wrong key"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"name":"Unknown field"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
