// Package handlers exposes the catalog application services over HTTP.
// Each entity gets one handler whose methods are mounted by api.CatalogRoutes.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/catalog/pkg/errhttp"
	"github.com/ghuser/catalog/pkg/httpx"
	"github.com/ghuser/catalog/services/catalog/domain/models"
)

// AuthorUseCases is the slice of the author service the handlers call.
type AuthorUseCases interface {
	Create(ctx context.Context, name string) (*models.Author, error)
	GetByID(ctx context.Context, id int64) (*models.Author, error)
	List(ctx context.Context) ([]*models.Author, error)
	Count(ctx context.Context) (int64, error)
	Patch(ctx context.Context, id int64, patch models.AuthorPatch) (*models.Author, error)
	Replace(ctx context.Context, id int64, name string) (*models.Author, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryUseCases is the slice of the category service the handlers call.
type CategoryUseCases interface {
	Create(ctx context.Context, genre string) (*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Count(ctx context.Context) (int64, error)
	Patch(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error)
	Replace(ctx context.Context, id int64, genre string) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// BookUseCases is the slice of the book service the handlers call.
type BookUseCases interface {
	Create(ctx context.Context, candidate models.BookPatch) (*models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	List(ctx context.Context) ([]*models.Book, error)
	Count(ctx context.Context) (int64, error)
	Patch(ctx context.Context, id int64, patch models.BookPatch) (*models.Book, error)
	Replace(ctx context.Context, id int64, candidate models.BookPatch) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

// CountResponse is returned by every /count endpoint.
type CountResponse struct {
	Count int64 `json:"count" example:"42"`
} // @name CountResponse

// errorWriter carries the production flag so 5xx bodies stay generic in production.
type errorWriter struct {
	isProduction bool
}

func (e errorWriter) fail(w http.ResponseWriter, err error) {
	errhttp.WriteSafeError(w, err, e.isProduction)
}

// pathID parses the {id} URL parameter. It writes a 400 and returns false when
// the parameter is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
