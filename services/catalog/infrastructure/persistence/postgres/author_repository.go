package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/services/catalog/domain"
	"github.com/ghuser/catalog/services/catalog/domain/models"
	"github.com/ghuser/catalog/services/catalog/infrastructure/persistence/postgres/db"
)

// AuthorRepository implements repositories.AuthorRepository against PostgreSQL.
type AuthorRepository struct {
	db *database.Database
}

// NewAuthorRepository returns an AuthorRepository backed by the given pool.
func NewAuthorRepository(database *database.Database) *AuthorRepository {
	return &AuthorRepository{db: database}
}

// Save inserts author and assigns its generated ID.
func (r *AuthorRepository) Save(ctx context.Context, author *models.Author) error {
	id, err := db.New(r.db.DB()).InsertAuthor(ctx, db.InsertAuthorParams{
		Name:      author.Name.String(),
		CreatedAt: author.CreatedAt,
		UpdatedAt: author.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert author: %w", err)
	}
	author.ID = id
	return nil
}

// GetByID returns ErrAuthorNotFound when no row matches.
func (r *AuthorRepository) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	row, err := db.New(r.db.DB()).GetAuthorByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("query author: %w", err)
	}
	return rowToAuthor(row), nil
}

// List returns every author ordered by id.
func (r *AuthorRepository) List(ctx context.Context) ([]*models.Author, error) {
	rows, err := db.New(r.db.DB()).ListAuthors(ctx)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}
	authors := make([]*models.Author, len(rows))
	for i, row := range rows {
		authors[i] = rowToAuthor(row)
	}
	return authors, nil
}

// Count returns the number of authors.
func (r *AuthorRepository) Count(ctx context.Context) (int64, error) {
	n, err := db.New(r.db.DB()).CountAuthors(ctx)
	if err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}

// Update persists the name of an existing author.
func (r *AuthorRepository) Update(ctx context.Context, author *models.Author) error {
	n, err := db.New(r.db.DB()).UpdateAuthor(ctx, db.UpdateAuthorParams{
		ID:        author.ID,
		Name:      author.Name.String(),
		UpdatedAt: author.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	if n == 0 {
		return domain.ErrAuthorNotFound
	}
	return nil
}

// Delete removes an author. Books keep their foreign key, so an author that
// still has books is rejected with ErrAuthorInUse.
func (r *AuthorRepository) Delete(ctx context.Context, id int64) error {
	n, err := db.New(r.db.DB()).DeleteAuthor(ctx, id)
	if err != nil {
		if code, _ := pgError(err); code == pgForeignKeyViolation {
			return domain.ReferentialViolation("id", id, domain.ErrAuthorInUse,
				fmt.Sprintf("Author with ID %d is still referenced by books.", id))
		}
		return fmt.Errorf("delete author: %w", err)
	}
	if n == 0 {
		return domain.ErrAuthorNotFound
	}
	return nil
}

// Exists reports whether an author with the given ID exists.
func (r *AuthorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := db.New(r.db.DB()).AuthorExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check author exists: %w", err)
	}
	return ok, nil
}

func rowToAuthor(row db.CatalogAuthor) *models.Author {
	return &models.Author{
		ID:        row.ID,
		Name:      models.AuthorName(row.Name),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
