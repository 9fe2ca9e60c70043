package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/catalog/pkg/httpx"
	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
	"github.com/ghuser/catalog/services/catalog/domain"
	"github.com/ghuser/catalog/services/catalog/domain/models"
)

// CategoryRequest is the request body for category writes. genre is required on
// POST and PUT and optional on PATCH.
type CategoryRequest struct {
	Genre *string `json:"genre" validate:"omitempty,max=255" example:"Science Fiction"`
} // @name CategoryRequest

// CategoryResponse is the wire representation of a category.
type CategoryResponse struct {
	ID        int64     `json:"id"         example:"1"`
	Genre     string    `json:"genre"      example:"Science Fiction"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
} // @name CategoryResponse

func toCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Genre: c.Genre.String(), CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

// CategoryHandler serves /categories.
type CategoryHandler struct {
	svc CategoryUseCases
	errorWriter
}

// NewCategoryHandler returns a CategoryHandler backed by svc.
func NewCategoryHandler(svc CategoryUseCases, isProduction bool) *CategoryHandler {
	return &CategoryHandler{svc: svc, errorWriter: errorWriter{isProduction: isProduction}}
}

// Create creates a category.
//
//	@Summary		Create category
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CategoryRequest	true	"Category"
//	@Header		201		{string}	Location	"URL of the created resource"
//	@Success		201		{object}	CategoryResponse
//	@Failure		400		{object}	errhttp.ErrorResponse
//	@Failure		422		{object}	errhttp.ErrorResponse
//	@Router			/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[CategoryRequest](w, r)
	if !ok {
		return
	}
	if req.Genre == nil {
		h.fail(w, domain.MissingFields("genre"))
		return
	}

	category, err := h.svc.Create(r.Context(), *req.Genre)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.Created(w, r, category.ID, toCategoryResponse(category))
}

// List returns every category.
//
//	@Summary	List categories
//	@Tags		categories
//	@Produce	json
//	@Success	200	{array}	CategoryResponse
//	@Router		/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Count returns the number of categories.
//
//	@Summary	Count categories
//	@Tags		categories
//	@Produce	json
//	@Success	200	{object}	CountResponse
//	@Router		/categories/count [get]
func (h *CategoryHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, CountResponse{Count: n})
}

// Get returns one category.
//
//	@Summary	Get category
//	@Tags		categories
//	@Produce	json
//	@Param		id	path		int	true	"Category ID"
//	@Success	200	{object}	CategoryResponse
//	@Failure	404	{object}	errhttp.ErrorResponse
//	@Router		/categories/{id} [get]
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	category, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(category))
}

// Patch updates the fields present in the body.
//
//	@Summary	Patch category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Category ID"
//	@Param		request	body		CategoryRequest	true	"Fields to change"
//	@Success	200		{object}	CategoryResponse
//	@Failure	404		{object}	errhttp.ErrorResponse
//	@Failure	422		{object}	errhttp.ErrorResponse
//	@Router		/categories/{id} [patch]
func (h *CategoryHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CategoryRequest](w, r)
	if !ok {
		return
	}
	category, err := h.svc.Patch(r.Context(), id, models.CategoryPatch{Genre: req.Genre})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(category))
}

// Replace overwrites a category.
//
//	@Summary	Replace category
//	@Tags		categories
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Category ID"
//	@Param		request	body		CategoryRequest	true	"Category"
//	@Success	200		{object}	CategoryResponse
//	@Failure	400		{object}	errhttp.ErrorResponse
//	@Failure	404		{object}	errhttp.ErrorResponse
//	@Failure	422		{object}	errhttp.ErrorResponse
//	@Router		/categories/{id} [put]
func (h *CategoryHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[CategoryRequest](w, r)
	if !ok {
		return
	}
	if req.Genre == nil {
		h.fail(w, domain.MissingFields("genre"))
		return
	}
	category, err := h.svc.Replace(r.Context(), id, *req.Genre)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCategoryResponse(category))
}

// Delete removes a category that no book references.
//
//	@Summary	Delete category
//	@Tags		categories
//	@Param		id	path	int	true	"Category ID"
//	@Success	204
//	@Failure	404	{object}	errhttp.ErrorResponse
//	@Failure	422	{object}	errhttp.ErrorResponse
//	@Router		/categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.fail(w, err)
		return
	}
	httpx.NoContent(w)
}
