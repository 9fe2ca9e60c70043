package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	pkgcache "github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/pkg/logger"
	"github.com/ghuser/catalog/services/catalog/domain/models"
	"github.com/ghuser/catalog/services/catalog/domain/repositories"
	domainsvcs "github.com/ghuser/catalog/services/catalog/domain/services"
)

// BookCache is the read-model cache the BookService reads through.
// *pkgcache.BookCache satisfies it. Set must refuse versions older than the
// entry or than the last Evict, and must refuse every version after Delete.
type BookCache interface {
	Get(ctx context.Context, id int64) (*pkgcache.CachedBook, error)
	Set(ctx context.Context, b *pkgcache.CachedBook) (bool, error)
	Evict(ctx context.Context, id int64, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
}

// BookService runs every book write through the required-field check and the
// constraint checker before it reaches the repository. Event publishing is
// handled by the repository layer (outbox pattern).
type BookService struct {
	repo    repositories.BookRepository
	checker *domainsvcs.ConstraintChecker
	cache   BookCache
	instruments
}

// NewBookService wires a BookService. cache may be nil.
func NewBookService(
	repo repositories.BookRepository,
	gateway repositories.EntityGateway,
	cache BookCache,
	log logger.Logger,
) *BookService {
	return &BookService{
		repo:        repo,
		checker:     domainsvcs.NewConstraintChecker(gateway),
		cache:       cache,
		instruments: newInstruments(log),
	}
}

// Create validates candidate as a full book and persists it.
func (s *BookService) Create(ctx context.Context, candidate models.BookPatch) (*models.Book, error) {
	ctx, span := s.tracer.Start(ctx, "BookService.Create")
	defer span.End()

	if err := domainsvcs.ValidateRequiredFields(candidate); err != nil {
		return nil, s.fail(ctx, span, "book", "create", err)
	}

	book := candidate.NewBook()
	if err := s.checker.ValidateBookConstraints(ctx, book); err != nil {
		return nil, s.fail(ctx, span, "book", "create", err)
	}

	if err := s.repo.Save(ctx, book); err != nil {
		return nil, s.fail(ctx, span, "book", "create", fmt.Errorf("save book: %w", err))
	}
	span.SetAttributes(attribute.Int64("book.id", book.ID))

	s.log.InfoContext(ctx, "book created", "book_id", book.ID, "isbn", book.ISBN)
	return book, nil
}

// Patch applies the present fields of patch to book id. The required-field
// check runs on the patch laid over the stored book, and the lookup checks
// run only when the ISBN, author or category actually change.
func (s *BookService) Patch(ctx context.Context, id int64, patch models.BookPatch) (*models.Book, error) {
	ctx, span := s.tracer.Start(ctx, "BookService.Patch", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "book", "patch", fmt.Errorf("get book: %w", err))
	}

	if err := domainsvcs.ValidateRequiredFields(patch.Over(models.PatchFromBook(stored))); err != nil {
		return nil, s.fail(ctx, span, "book", "patch", err)
	}

	recheck := patch.ChangesReferences(stored)
	patch.ApplyTo(stored)
	stored.UpdatedAt = time.Now().UTC()

	if recheck {
		if err := s.checker.ValidateBookConstraints(ctx, stored); err != nil {
			return nil, s.fail(ctx, span, "book", "patch", err)
		}
	}

	if err := s.repo.Update(ctx, stored); err != nil {
		return nil, s.fail(ctx, span, "book", "patch", fmt.Errorf("update book: %w", err))
	}
	s.evict(ctx, id, stored.UpdatedAt)

	s.log.InfoContext(ctx, "book patched", "book_id", id, "rechecked", recheck)
	return stored, nil
}

// Replace overwrites book id with candidate, which must be a full book.
// The duplicate ISBN check ignores the book's own row.
func (s *BookService) Replace(ctx context.Context, id int64, candidate models.BookPatch) (*models.Book, error) {
	ctx, span := s.tracer.Start(ctx, "BookService.Replace", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	if err := domainsvcs.ValidateRequiredFields(candidate); err != nil {
		return nil, s.fail(ctx, span, "book", "replace", err)
	}

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail(ctx, span, "book", "replace", fmt.Errorf("get book: %w", err))
	}

	book := candidate.NewBook()
	book.ID = stored.ID
	book.CreatedAt = stored.CreatedAt

	if err := s.checker.ValidateBookConstraints(ctx, book); err != nil {
		return nil, s.fail(ctx, span, "book", "replace", err)
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, s.fail(ctx, span, "book", "replace", fmt.Errorf("update book: %w", err))
	}
	s.evict(ctx, id, book.UpdatedAt)

	s.log.InfoContext(ctx, "book replaced", "book_id", id)
	return book, nil
}

// GetByID retrieves a Book using a read-through cache:
//  1. Check Redis first.
//  2. On a miss (or cache error), query Postgres.
//  3. Warm the cache asynchronously with the Postgres result. The warm is
//     dropped if a write or delete fenced the entry in the meantime.
func (s *BookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, id)
		if err == nil {
			return fromCachedBook(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "book cache read failed", "book_id", id, "error", err)
		}
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	if s.cache != nil {
		warmCtx := context.WithoutCancel(ctx)
		go func() {
			if _, err := s.cache.Set(warmCtx, toCachedBook(book)); err != nil {
				s.log.WarnContext(warmCtx, "book cache warm failed", "book_id", book.ID, "error", err)
			}
		}()
	}

	return book, nil
}

// List returns every book.
func (s *BookService) List(ctx context.Context) ([]*models.Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// Count returns the number of books.
func (s *BookService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// Delete removes book id. Returns ErrBookNotFound if it does not exist.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "BookService.Delete", trace.WithAttributes(attribute.Int64("book.id", id)))
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(ctx, span, "book", "delete", fmt.Errorf("delete book: %w", err))
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.log.WarnContext(ctx, "book cache delete failed", "book_id", id, "error", err)
		}
	}
	return nil
}

func (s *BookService) evict(ctx context.Context, id int64, updatedAt time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Evict(ctx, id, updatedAt); err != nil {
		s.log.WarnContext(ctx, "book cache evict failed", "book_id", id, "error", err)
	}
}

func toCachedBook(b *models.Book) *pkgcache.CachedBook {
	return &pkgcache.CachedBook{
		ID:              b.ID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		PublicationDate: b.PublicationDate,
		Price:           b.Price,
		AuthorID:        b.AuthorID,
		CategoryID:      b.CategoryID,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func fromCachedBook(c *pkgcache.CachedBook) *models.Book {
	return &models.Book{
		ID:              c.ID,
		Title:           c.Title,
		ISBN:            c.ISBN,
		PublicationDate: c.PublicationDate,
		Price:           c.Price,
		AuthorID:        c.AuthorID,
		CategoryID:      c.CategoryID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
