package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/catalog/pkg/httpx"
	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
	"github.com/ghuser/catalog/services/catalog/domain"
	"github.com/ghuser/catalog/services/catalog/domain/models"
)

// AuthorRequest is the request body for author writes. name is required on
// POST and PUT and optional on PATCH.
type AuthorRequest struct {
	Name *string `json:"name" validate:"omitempty,max=255" example:"Ursula Le Guin"`
} // @name AuthorRequest

// AuthorResponse is the wire representation of an author.
type AuthorResponse struct {
	ID        int64     `json:"id"         example:"1"`
	Name      string    `json:"name"       example:"Ursula Le Guin"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2024-01-15T10:30:00Z"`
} // @name AuthorResponse

func toAuthorResponse(a *models.Author) AuthorResponse {
	return AuthorResponse{ID: a.ID, Name: a.Name.String(), CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt}
}

// AuthorHandler serves /authors.
type AuthorHandler struct {
	svc AuthorUseCases
	errorWriter
}

// NewAuthorHandler returns an AuthorHandler backed by svc.
func NewAuthorHandler(svc AuthorUseCases, isProduction bool) *AuthorHandler {
	return &AuthorHandler{svc: svc, errorWriter: errorWriter{isProduction: isProduction}}
}

// Create creates an author.
//
//	@Summary		Create author
//	@Tags			authors
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AuthorRequest	true	"Author"
//	@Header		201		{string}	Location	"URL of the created resource"
//	@Success		201		{object}	AuthorResponse
//	@Failure		400		{object}	errhttp.ErrorResponse
//	@Failure		422		{object}	errhttp.ErrorResponse
//	@Router			/authors [post]
func (h *AuthorHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[AuthorRequest](w, r)
	if !ok {
		return
	}
	if req.Name == nil {
		h.fail(w, domain.MissingFields("name"))
		return
	}

	author, err := h.svc.Create(r.Context(), *req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.Created(w, r, author.ID, toAuthorResponse(author))
}

// List returns every author.
//
//	@Summary	List authors
//	@Tags		authors
//	@Produce	json
//	@Success	200	{array}	AuthorResponse
//	@Router		/authors [get]
func (h *AuthorHandler) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]AuthorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, toAuthorResponse(a))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Count returns the number of authors.
//
//	@Summary	Count authors
//	@Tags		authors
//	@Produce	json
//	@Success	200	{object}	CountResponse
//	@Router		/authors/count [get]
func (h *AuthorHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, CountResponse{Count: n})
}

// Get returns one author.
//
//	@Summary	Get author
//	@Tags		authors
//	@Produce	json
//	@Param		id	path		int	true	"Author ID"
//	@Success	200	{object}	AuthorResponse
//	@Failure	404	{object}	errhttp.ErrorResponse
//	@Router		/authors/{id} [get]
func (h *AuthorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	author, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAuthorResponse(author))
}

// Patch updates the fields present in the body.
//
//	@Summary	Patch author
//	@Tags		authors
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Author ID"
//	@Param		request	body		AuthorRequest	true	"Fields to change"
//	@Success	200		{object}	AuthorResponse
//	@Failure	404		{object}	errhttp.ErrorResponse
//	@Failure	422		{object}	errhttp.ErrorResponse
//	@Router		/authors/{id} [patch]
func (h *AuthorHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AuthorRequest](w, r)
	if !ok {
		return
	}
	author, err := h.svc.Patch(r.Context(), id, models.AuthorPatch{Name: req.Name})
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAuthorResponse(author))
}

// Replace overwrites an author.
//
//	@Summary	Replace author
//	@Tags		authors
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int				true	"Author ID"
//	@Param		request	body		AuthorRequest	true	"Author"
//	@Success	200		{object}	AuthorResponse
//	@Failure	400		{object}	errhttp.ErrorResponse
//	@Failure	404		{object}	errhttp.ErrorResponse
//	@Failure	422		{object}	errhttp.ErrorResponse
//	@Router		/authors/{id} [put]
func (h *AuthorHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[AuthorRequest](w, r)
	if !ok {
		return
	}
	if req.Name == nil {
		h.fail(w, domain.MissingFields("name"))
		return
	}
	author, err := h.svc.Replace(r.Context(), id, *req.Name)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toAuthorResponse(author))
}

// Delete removes an author that no book references.
//
//	@Summary	Delete author
//	@Tags		authors
//	@Param		id	path	int	true	"Author ID"
//	@Success	204
//	@Failure	404	{object}	errhttp.ErrorResponse
//	@Failure	422	{object}	errhttp.ErrorResponse
//	@Router		/authors/{id} [delete]
func (h *AuthorHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
