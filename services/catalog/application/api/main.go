package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/catalog/services/catalog/application/services"
)

// resource is the method set every catalog entity handler exposes.
type resource interface {
	Create(http.ResponseWriter, *http.Request)
	List(http.ResponseWriter, *http.Request)
	Count(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Patch(http.ResponseWriter, *http.Request)
	Replace(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// CatalogRoutes registers author, category and book endpoints on the provided
// chi router.
func CatalogRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	prod := a.IsProduction()

	Mount(r,
		handlers.NewAuthorHandler(svcs.Author, prod),
		handlers.NewCategoryHandler(svcs.Category, prod),
		handlers.NewBookHandler(svcs.Book, prod),
	)
}

// Mount wires the three entity handlers under /authors, /categories and /books.
func Mount(r chi.Router, authors, categories, books resource) {
	r.Group(func(r chi.Router) {
		r.Route("/authors", crud(authors))
		r.Route("/categories", crud(categories))
		r.Route("/books", crud(books))
	})
}

func crud(h resource) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/count", h.Count)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Patch)
		r.Put("/{id}", h.Replace)
		r.Delete("/{id}", h.Delete)
	}
}
