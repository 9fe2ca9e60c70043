package postgres

import (
	"context"

	"github.com/ghuser/catalog/services/catalog/domain/models"
)

// EntityGateway serves the constraint checker's lookups from the catalog
// repositories.
type EntityGateway struct {
	authors    *AuthorRepository
	categories *CategoryRepository
	books      *BookRepository
}

// NewEntityGateway composes the three repositories into one lookup surface.
func NewEntityGateway(authors *AuthorRepository, categories *CategoryRepository, books *BookRepository) *EntityGateway {
	return &EntityGateway{authors: authors, categories: categories, books: books}
}

func (g *EntityGateway) AuthorExists(ctx context.Context, id int64) (bool, error) {
	return g.authors.Exists(ctx, id)
}

func (g *EntityGateway) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return g.categories.Exists(ctx, id)
}

func (g *EntityGateway) FindBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	return g.books.FindByISBN(ctx, isbn)
}
