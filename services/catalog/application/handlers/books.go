package handlers

import (
	"net/http"
	"time"

	"github.com/ghuser/catalog/pkg/httpx"
	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
	"github.com/ghuser/catalog/services/catalog/domain/models"
)

// BookRequest is the request body for every book write. All fields are
// optional at the wire level; which ones must be present is decided by the
// book service for each operation.
type BookRequest struct {
	Title           *string  `json:"title"            validate:"omitempty,max=255"             example:"The Left Hand of Darkness"`
	ISBN            *string  `json:"isbn"                                                      example:"9780441478125"`
	PublicationDate *string  `json:"publication_date" validate:"omitempty,datetime=2006-01-02" example:"1969-03-01"`
	Price           *float64 `json:"price"                                                     example:"9.99"`
	AuthorID        *int64   `json:"author_id"                                                 example:"1"`
	CategoryID      *int64   `json:"category_id"                                               example:"1"`
} // @name BookRequest

// toPatch converts the request into the domain's optional-field view.
// publication_date has already passed the datetime tag.
func (r *BookRequest) toPatch() models.BookPatch {
	p := models.BookPatch{
		Title:      r.Title,
		ISBN:       r.ISBN,
		Price:      r.Price,
		AuthorID:   r.AuthorID,
		CategoryID: r.CategoryID,
	}
	if r.PublicationDate != nil {
		if d, err := time.Parse(pkgvalidator.DateLayout, *r.PublicationDate); err == nil {
			p.PublicationDate = &d
		}
	}
	return p
}

// BookResponse is the wire representation of a book.
type BookResponse struct {
	ID              int64     `json:"id"               example:"1"`
	Title           string    `json:"title"            example:"The Left Hand of Darkness"`
	ISBN            string    `json:"isbn"             example:"9780441478125"`
	PublicationDate string    `json:"publication_date" example:"1969-03-01"`
	Price           float64   `json:"price"            example:"9.99"`
	AuthorID        int64     `json:"author_id"        example:"1"`
	CategoryID      int64     `json:"category_id"      example:"1"`
	CreatedAt       time.Time `json:"created_at"       example:"2024-01-15T10:30:00Z"`
	UpdatedAt       time.Time `json:"updated_at"       example:"2024-01-15T10:30:00Z"`
} // @name BookResponse

func toBookResponse(b *models.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate.Format(pkgvalidator.DateLayout),
		Price:           b.Price,
		AuthorID:        b.AuthorID,
		CategoryID:      b.CategoryID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// BookHandler serves /books.
type BookHandler struct {
	svc BookUseCases
	errorWriter
}

// NewBookHandler returns a BookHandler backed by svc.
func NewBookHandler(svc BookUseCases, isProduction bool) *BookHandler {
	return &BookHandler{svc: svc, errorWriter: errorWriter{isProduction: isProduction}}
}

// Create validates and stores a new book.
//
//	@Summary		Create book
//	@Description	Requires title, publication_date, price and isbn. author_id and category_id must reference existing records and isbn must be unique.
//	@Tags			books
//	@Accept			json
//	@Produce		json
//	@Param			request	body		BookRequest	true	"Book"
//	@Header		201		{string}	Location	"URL of the created resource"
//	@Success		201		{object}	BookResponse
//	@Failure		400		{object}	errhttp.ErrorResponse
//	@Failure		409		{object}	errhttp.ErrorResponse
//	@Failure		422		{object}	errhttp.ErrorResponse
//	@Failure		500		{object}	errhttp.ErrorResponse
//	@Router			/books [post]
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[BookRequest](w, r)
	if !ok {
		return
	}

	book, err := h.svc.Create(r.Context(), req.toPatch())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.Created(w, r, book.ID, toBookResponse(book))
}

// List returns every book.
//
//	@Summary	List books
//	@Tags		books
//	@Produce	json
//	@Success	200	{array}	BookResponse
//	@Router		/books [get]
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// Count returns the number of books.
//
//	@Summary	Count books
//	@Tags		books
//	@Produce	json
//	@Success	200	{object}	CountResponse
//	@Router		/books/count [get]
func (h *BookHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Count(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, CountResponse{Count: n})
}

// Get returns one book.
//
//	@Summary	Get book
//	@Tags		books
//	@Produce	json
//	@Param		id	path		int	true	"Book ID"
//	@Success	200	{object}	BookResponse
//	@Failure	404	{object}	errhttp.ErrorResponse
//	@Router		/books/{id} [get]
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	book, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBookResponse(book))
}

// Patch changes the fields present in the body. The merged book must still
// carry every required field.
//
//	@Summary	Patch book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int			true	"Book ID"
//	@Param		request	body		BookRequest	true	"Fields to change"
//	@Success	200		{object}	BookResponse
//	@Failure	400		{object}	errhttp.ErrorResponse
//	@Failure	404		{object}	errhttp.ErrorResponse
//	@Failure	409		{object}	errhttp.ErrorResponse
//	@Failure	422		{object}	errhttp.ErrorResponse
//	@Router		/books/{id} [patch]
func (h *BookHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[BookRequest](w, r)
	if !ok {
		return
	}
	book, err := h.svc.Patch(r.Context(), id, req.toPatch())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBookResponse(book))
}

// Replace overwrites a book with a full representation.
//
//	@Summary	Replace book
//	@Tags		books
//	@Accept		json
//	@Produce	json
//	@Param		id		path		int			true	"Book ID"
//	@Param		request	body		BookRequest	true	"Book"
//	@Success	200		{object}	BookResponse
//	@Failure	400		{object}	errhttp.ErrorResponse
//	@Failure	404		{object}	errhttp.ErrorResponse
//	@Failure	409		{object}	errhttp.ErrorResponse
//	@Failure	422		{object}	errhttp.ErrorResponse
//	@Router		/books/{id} [put]
func (h *BookHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[BookRequest](w, r)
	if !ok {
		return
	}
	book, err := h.svc.Replace(r.Context(), id, req.toPatch())
	if err != nil {
		h.fail(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toBookResponse(book))
}

// Delete removes a book.
//
//	@Summary	Delete book
//	@Tags		books
//	@Param		id	path	int	true	"Book ID"
//	@Success	204
//	@Failure	404	{object}	errhttp.ErrorResponse
//	@Router		/books/{id} [delete]
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
