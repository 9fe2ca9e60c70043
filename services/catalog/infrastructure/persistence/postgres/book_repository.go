package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/services/catalog/domain"
	domainevents "github.com/ghuser/catalog/services/catalog/domain/events"
	"github.com/ghuser/catalog/services/catalog/domain/models"
	"github.com/ghuser/catalog/services/catalog/infrastructure/persistence/postgres/db"
)

// BookRepository implements repositories.BookRepository against PostgreSQL.
// Every write publishes its domain event through the outbox in the same transaction.
type BookRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewBookRepository returns a BookRepository. bus may be nil, in which case no
// events are published.
func NewBookRepository(database *database.Database, bus *events.EventBus) *BookRepository {
	return &BookRepository{db: database, bus: bus}
}

// Save inserts book, assigns its ID and publishes BookCreatedEvent.
// Unique and foreign key violations come back as referential violations.
func (r *BookRepository) Save(ctx context.Context, book *models.Book) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		id, err := db.New(tx).InsertBook(ctx, db.InsertBookParams{
			Title:           book.Title,
			Isbn:            book.ISBN,
			PublicationDate: book.PublicationDate,
			Price:           book.Price,
			AuthorID:        book.AuthorID,
			CategoryID:      book.CategoryID,
			CreatedAt:       book.CreatedAt,
			UpdatedAt:       book.UpdatedAt,
		})
		if err != nil {
			return mapBookWriteError(book, fmt.Errorf("insert book: %w", err))
		}
		book.ID = id

		evt := domainevents.BookCreatedEvent{
			EventID:    uuid.New(),
			Version:    domainevents.BookEventVersion,
			Book:       snapshot(book),
			OccurredAt: book.CreatedAt,
		}
		return r.publish(ctx, tx, domainevents.TopicBookCreated, evt.EventID, evt)
	})
}

// GetByID returns ErrBookNotFound when no row matches.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	row, err := db.New(r.db.DB()).GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("query book: %w", err)
	}
	return rowToBook(row), nil
}

// FindByISBN returns ErrBookNotFound when no book carries isbn.
func (r *BookRepository) FindByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	row, err := db.New(r.db.DB()).GetBookByISBN(ctx, isbn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("query book by isbn: %w", err)
	}
	return rowToBook(row), nil
}

// List returns every book ordered by id.
func (r *BookRepository) List(ctx context.Context) ([]*models.Book, error) {
	rows, err := db.New(r.db.DB()).ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	books := make([]*models.Book, len(rows))
	for i, row := range rows {
		books[i] = rowToBook(row)
	}
	return books, nil
}

// Count returns the number of books.
func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	n, err := db.New(r.db.DB()).CountBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// Update overwrites every column of an existing book and publishes BookUpdatedEvent.
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		n, err := db.New(tx).UpdateBook(ctx, db.UpdateBookParams{
			ID:              book.ID,
			Title:           book.Title,
			Isbn:            book.ISBN,
			PublicationDate: book.PublicationDate,
			Price:           book.Price,
			AuthorID:        book.AuthorID,
			CategoryID:      book.CategoryID,
			UpdatedAt:       book.UpdatedAt,
		})
		if err != nil {
			return mapBookWriteError(book, fmt.Errorf("update book: %w", err))
		}
		if n == 0 {
			return domain.ErrBookNotFound
		}

		evt := domainevents.BookUpdatedEvent{
			EventID:    uuid.New(),
			Version:    domainevents.BookEventVersion,
			Book:       snapshot(book),
			OccurredAt: book.UpdatedAt,
		}
		return r.publish(ctx, tx, domainevents.TopicBookUpdated, evt.EventID, evt)
	})
}

// Delete removes a book and publishes BookDeletedEvent.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		isbn, err := db.New(tx).DeleteBook(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrBookNotFound
			}
			return fmt.Errorf("delete book: %w", err)
		}

		evt := domainevents.BookDeletedEvent{
			EventID:    uuid.New(),
			Version:    domainevents.BookEventVersion,
			BookID:     id,
			ISBN:       isbn,
			OccurredAt: time.Now().UTC(),
		}
		return r.publish(ctx, tx, domainevents.TopicBookDeleted, evt.EventID, evt)
	})
}

func (r *BookRepository) publish(ctx context.Context, tx *sql.Tx, topic string, id uuid.UUID, event any) error {
	if r.bus == nil {
		return nil
	}
	msg, err := events.NewJSONMessage(ctx, id, domainevents.BookEventVersion, event)
	if err != nil {
		return fmt.Errorf("build %s: %w", topic, err)
	}
	if err := r.bus.PublishTx(tx, topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// mapBookWriteError turns storage constraint violations into the same
// rejections the constraint checker produces. The unique index on isbn is the
// authoritative guard when two writers pass the checker concurrently.
func mapBookWriteError(book *models.Book, err error) error {
	code, constraint := pgError(err)
	switch {
	case code == pgUniqueViolation && constraint == constraintBookISBN:
		return domain.ReferentialViolation("isbn", book.ISBN, domain.ErrDuplicateISBN,
			fmt.Sprintf("A book with ISBN %s already exists.", book.ISBN))
	case code == pgForeignKeyViolation && constraint == constraintBookAuthor:
		return domain.ReferentialViolation("author_id", book.AuthorID, domain.ErrAuthorNotFound,
			fmt.Sprintf("Author with ID %d does not exist.", book.AuthorID))
	case code == pgForeignKeyViolation && constraint == constraintBookCategory:
		return domain.ReferentialViolation("category_id", book.CategoryID, domain.ErrCategoryNotFound,
			fmt.Sprintf("Category with ID %d does not exist.", book.CategoryID))
	default:
		return err
	}
}

func snapshot(b *models.Book) domainevents.BookSnapshot {
	return domainevents.BookSnapshot{
		BookID:          b.ID,
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

func rowToBook(row db.CatalogBook) *models.Book {
	return &models.Book{
		ID:              row.ID,
		Title:           row.Title,
		ISBN:            row.Isbn,
		PublicationDate: row.PublicationDate,
		Price:           row.Price,
		AuthorID:        row.AuthorID,
		CategoryID:      row.CategoryID,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}
