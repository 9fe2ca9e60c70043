package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// recorder notes which handler method served the request.
type recorder struct{ name string }

func (rec *recorder) hit(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Handler", rec.name+"."+name)
		if id := chi.URLParam(r, "id"); id != "" {
			w.Header().Set("X-ID", id)
		}
	}
}

func (rec *recorder) Create(w http.ResponseWriter, r *http.Request)  { rec.hit("Create")(w, r) }
func (rec *recorder) List(w http.ResponseWriter, r *http.Request)    { rec.hit("List")(w, r) }
func (rec *recorder) Count(w http.ResponseWriter, r *http.Request)   { rec.hit("Count")(w, r) }
func (rec *recorder) Get(w http.ResponseWriter, r *http.Request)     { rec.hit("Get")(w, r) }
func (rec *recorder) Patch(w http.ResponseWriter, r *http.Request)   { rec.hit("Patch")(w, r) }
func (rec *recorder) Replace(w http.ResponseWriter, r *http.Request) { rec.hit("Replace")(w, r) }
func (rec *recorder) Delete(w http.ResponseWriter, r *http.Request)  { rec.hit("Delete")(w, r) }

func TestMount_Routes(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, &recorder{"authors"}, &recorder{"categories"}, &recorder{"books"})

	tests := []struct {
		method, path, handler, id string
	}{
		{http.MethodPost, "/authors", "authors.Create", ""},
		{http.MethodGet, "/categories", "categories.List", ""},
		{http.MethodGet, "/books/count", "books.Count", ""},
		{http.MethodGet, "/books/12", "books.Get", "12"},
		{http.MethodPatch, "/books/12", "books.Patch", "12"},
		{http.MethodPut, "/categories/3", "categories.Replace", "3"},
		{http.MethodDelete, "/authors/5", "authors.Delete", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if got := w.Header().Get("X-Handler"); got != tt.handler {
				t.Errorf("handler = %q, want %q", got, tt.handler)
			}
			if got := w.Header().Get("X-ID"); got != tt.id {
				t.Errorf("id = %q, want %q", got, tt.id)
			}
		})
	}
}

func TestMount_UnknownMethod(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, &recorder{"authors"}, &recorder{"categories"}, &recorder{"books"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/books/1", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
