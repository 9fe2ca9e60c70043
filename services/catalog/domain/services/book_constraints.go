package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghuser/catalog/services/catalog/domain"
	"github.com/ghuser/catalog/services/catalog/domain/models"
	"github.com/ghuser/catalog/services/catalog/domain/repositories"
)

// ValidateRequiredFields checks that title, publication_date, price and isbn
// are all present in candidate. A present but non-positive price is rejected
// first with InvalidValue; otherwise every missing field is reported in one
// MissingFields rejection, in that fixed order.
func ValidateRequiredFields(candidate models.BookPatch) error {
	if candidate.Price != nil && *candidate.Price <= 0 {
		return domain.InvalidValue("price", *candidate.Price,
			"Invalid price: It must be greater than 0.")
	}

	var missing []string
	if candidate.Title == nil || *candidate.Title == "" {
		missing = append(missing, "title")
	}
	if candidate.PublicationDate == nil || candidate.PublicationDate.IsZero() {
		missing = append(missing, "publication_date")
	}
	if candidate.Price == nil {
		missing = append(missing, "price")
	}
	if candidate.ISBN == nil || *candidate.ISBN == "" {
		missing = append(missing, "isbn")
	}

	if len(missing) > 0 {
		return domain.MissingFields(missing...)
	}
	return nil
}

// ConstraintChecker runs the lookup-backed checks for a book write. It holds
// no mutable state and is safe for concurrent use.
type ConstraintChecker struct {
	gateway repositories.EntityGateway
}

// NewConstraintChecker returns a ConstraintChecker reading through gateway.
func NewConstraintChecker(gateway repositories.EntityGateway) *ConstraintChecker {
	return &ConstraintChecker{gateway: gateway}
}

// ValidateBookConstraints checks, in order and stopping at the first failure:
// ISBN format, author existence, category existence and ISBN uniqueness.
// A book found under the same ISBN is only a duplicate when its ID differs
// from candidate.ID, so an update never collides with its own stored row.
// Gateway failures are returned wrapped in ErrServerFault.
func (c *ConstraintChecker) ValidateBookConstraints(ctx context.Context, candidate *models.Book) error {
	if !IsValidISBN(candidate.ISBN) {
		return domain.InvalidFormat("isbn", candidate.ISBN,
			"Invalid ISBN: It must be exactly 13 digits.")
	}

	ok, err := c.gateway.AuthorExists(ctx, candidate.AuthorID)
	if err != nil {
		return domain.ServerFault("author exists", err)
	}
	if !ok {
		return domain.ReferentialViolation("author_id", candidate.AuthorID, domain.ErrAuthorNotFound,
			fmt.Sprintf("Author with ID %d does not exist.", candidate.AuthorID))
	}

	ok, err = c.gateway.CategoryExists(ctx, candidate.CategoryID)
	if err != nil {
		return domain.ServerFault("category exists", err)
	}
	if !ok {
		return domain.ReferentialViolation("category_id", candidate.CategoryID, domain.ErrCategoryNotFound,
			fmt.Sprintf("Category with ID %d does not exist.", candidate.CategoryID))
	}

	existing, err := c.gateway.FindBookByISBN(ctx, candidate.ISBN)
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		return nil
	case err != nil:
		return domain.ServerFault("find book by isbn", err)
	case existing != nil && existing.ID != candidate.ID:
		return domain.ReferentialViolation("isbn", candidate.ISBN, domain.ErrDuplicateISBN,
			fmt.Sprintf("A book with ISBN %s already exists.", candidate.ISBN))
	}
	return nil
}
