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

// CategoryRepository implements repositories.CategoryRepository against PostgreSQL.
type CategoryRepository struct {
	db *database.Database
}

// NewCategoryRepository returns a CategoryRepository backed by the given pool.
func NewCategoryRepository(database *database.Database) *CategoryRepository {
	return &CategoryRepository{db: database}
}

func (r *CategoryRepository) Save(ctx context.Context, category *models.Category) error {
	id, err := db.New(r.db.DB()).InsertCategory(ctx, db.InsertCategoryParams{
		Genre:     category.Genre.String(),
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	category.ID = id
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	row, err := db.New(r.db.DB()).GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("query category: %w", err)
	}
	return rowToCategory(row), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := db.New(r.db.DB()).ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	categories := make([]*models.Category, len(rows))
	for i, row := range rows {
		categories[i] = rowToCategory(row)
	}
	return categories, nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	n, err := db.New(r.db.DB()).CountCategories(ctx)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	n, err := db.New(r.db.DB()).UpdateCategory(ctx, db.UpdateCategoryParams{
		ID:        category.ID,
		Genre:     category.Genre.String(),
		UpdatedAt: category.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// Delete rejects categories still referenced by books with ErrCategoryInUse.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	n, err := db.New(r.db.DB()).DeleteCategory(ctx, id)
	if err != nil {
		if code, _ := pgError(err); code == pgForeignKeyViolation {
			return domain.ReferentialViolation("id", id, domain.ErrCategoryInUse,
				fmt.Sprintf("Category with ID %d is still referenced by books.", id))
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if n == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := db.New(r.db.DB()).CategoryExists(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check category exists: %w", err)
	}
	return ok, nil
}

func rowToCategory(row db.CatalogCategory) *models.Category {
	return &models.Category{
		ID:        row.ID,
		Genre:     models.Genre(row.Genre),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
