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

// AuthorService orchestrates author writes and reads.
type AuthorService struct {
	repo repositories.AuthorRepository
	instruments
}

// NewAuthorService returns an AuthorService backed by repo.
func NewAuthorService(repo repositories.AuthorRepository, log logger.Logger) *AuthorService {
	return &AuthorService{repo: repo, instruments: newInstruments(log)}
}

// Create validates name and persists a new author.
func (s *AuthorService) Create(ctx context.Context, name string) (*models.Author, error) {
	ctx, span := s.tracer.Start(ctx, "AuthorService.Create")
	defer span.End()

	if err := domainsvcs.ValidateAuthorName(name); err != nil {
		return nil, s.fail(ctx, span, "author", "create", err)
	}

	author := models.NewAuthor(models.AuthorName(name))
	if err := s.repo.Save(ctx, author); err != nil {
		return nil, s.fail(ctx, span, "author", "create", fmt.Errorf("save author: %w", err))
	}

	s.log.InfoContext(ctx, "author created", "author_id", author.ID)
	return author, nil
}

// GetByID returns ErrAuthorNotFound when the author does not exist.
func (s *AuthorService) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	author, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	return author, nil
}

// List returns every author.
func (s *AuthorService) List(ctx context.Context) ([]*models.Author, error) {
	authors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// Count returns the number of authors.
func (s *AuthorService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}

// Patch applies the present fields of patch. A present name is validated.
func (s *AuthorService) Patch(ctx context.Context, id int64, patch models.AuthorPatch) (*models.Author, error) {
	ctx, span := s.tracer.Start(ctx, "AuthorService.Patch", trace.WithAttributes(attribute.Int64("author.id", id)))
	defer span.End()

	if patch.Name != nil {
		if err := domainsvcs.ValidateAuthorName(*patch.Name); err != nil {
			return nil, s.fail(ctx, span, "author", "patch", err)
		}
	}

	author, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "author", "patch", fmt.Errorf("get author: %w", err))
	}
	patch.ApplyTo(author)
	author.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, author); err != nil {
		return nil, s.fail(ctx, span, "author", "patch", fmt.Errorf("update author: %w", err))
	}
	return author, nil
}

// Replace overwrites the author's name.
func (s *AuthorService) Replace(ctx context.Context, id int64, name string) (*models.Author, error) {
	return s.Patch(ctx, id, models.AuthorPatch{Name: &name})
}

// Delete removes an author. Authors still referenced by books are rejected.
func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "AuthorService.Delete", trace.WithAttributes(attribute.Int64("author.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, span, "author", "delete", fmt.Errorf("delete author: %w", err))
	}
	return nil
}
