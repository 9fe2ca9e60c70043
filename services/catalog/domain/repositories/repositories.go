package repositories

import (
	"context"

	"github.com/ghuser/catalog/services/catalog/domain/models"
)

// EntityGateway is the lookup surface the constraint checker depends on.
// Every method must be safe to call with ids that have no record: a missing
// author or category is (false, nil) and a missing book is ErrBookNotFound.
// Any other error is an infrastructure failure.
type EntityGateway interface {
	AuthorExists(ctx context.Context, id int64) (bool, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	FindBookByISBN(ctx context.Context, isbn string) (*models.Book, error)
}

// AuthorRepository is the persistence interface for Author.
// The domain layer owns this interface; infrastructure implements it.
type AuthorRepository interface {
	Save(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id int64) (*models.Author, error)
	List(ctx context.Context) ([]*models.Author, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, author *models.Author) error
	// Delete returns ErrAuthorInUse when books still reference the author.
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// CategoryRepository is the persistence interface for Category.
type CategoryRepository interface {
	Save(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete returns ErrCategoryInUse when books still reference the category.
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

// BookRepository is the persistence interface for Book. Save and Update map
// storage-level unique and foreign key violations onto the domain errors, so
// they stay authoritative when two writers race past the checker.
type BookRepository interface {
	Save(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	List(ctx context.Context) ([]*models.Book, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id int64) error
	FindByISBN(ctx context.Context, isbn string) (*models.Book, error)
}
