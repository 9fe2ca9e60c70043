package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/catalog/domain/models"
	"github.com/ghuser/catalog/services/catalog/domain/repositories"
	domainsvcs "github.com/ghuser/catalog/services/catalog/domain/services"
)

// CategoryService orchestrates category writes and reads.
type CategoryService struct {
	repo repositories.CategoryRepository
	instruments
}

// NewCategoryService returns a CategoryService backed by repo.
func NewCategoryService(repo repositories.CategoryRepository, log logger.Logger) *CategoryService {
	return &CategoryService{repo: repo, instruments: newInstruments(log)}
}

func (s *CategoryService) Create(ctx context.Context, genre string) (*models.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CategoryService.Create")
	defer span.End()

	if err := domainsvcs.ValidateGenre(genre); err != nil {
		return nil, s.fail(ctx, span, "category", "create", err)
	}

	category := models.NewCategory(models.Genre(genre))
	if err := s.repo.Save(ctx, category); err != nil {
		return nil, s.fail(ctx, span, "category", "create", fmt.Errorf("save category: %w", err))
	}

	s.log.InfoContext(ctx, "category created", "category_id", category.ID)
	return category, nil
}

func (s *CategoryService) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// Patch applies the present fields of patch. A present genre is validated.
func (s *CategoryService) Patch(ctx context.Context, id int64, patch models.CategoryPatch) (*models.Category, error) {
	ctx, span := s.tracer.Start(ctx, "CategoryService.Patch", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	if patch.Genre != nil {
		if err := domainsvcs.ValidateGenre(*patch.Genre); err != nil {
			return nil, s.fail(ctx, span, "category", "patch", err)
		}
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "category", "patch", fmt.Errorf("get category: %w", err))
	}
	patch.ApplyTo(category)
	category.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, s.fail(ctx, span, "category", "patch", fmt.Errorf("update category: %w", err))
	}
	return category, nil
}

func (s *CategoryService) Replace(ctx context.Context, id int64, genre string) (*models.Category, error) {
	return s.Patch(ctx, id, models.CategoryPatch{Genre: &genre})
}

// Delete removes a category. Categories still referenced by books are rejected.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "CategoryService.Delete", trace.WithAttributes(attribute.Int64("category.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, span, "category", "delete", fmt.Errorf("delete category: %w", err))
	}
	return nil
}
