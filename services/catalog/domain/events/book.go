package events

import (
	"time"

	"github.com/google/uuid"
)

// Watermill topics published by the book repository.
const (
	TopicBookCreated = "book.created"
	TopicBookUpdated = "book.updated"
	TopicBookDeleted = "book.deleted"
)

// BookEventVersion is the schema version of the book event payloads.
// Increment on breaking changes.
const BookEventVersion = 1

// BookSnapshot is the state of a book carried by created and updated events.
type BookSnapshot struct {
	BookID          int64     `json:"book_id"`
	Title           string    `json:"title"`
	ISBN            string    `json:"isbn"`
	PublicationDate time.Time `json:"publication_date"`
	Price           float64   `json:"price"`
	AuthorID        int64     `json:"author_id"`
	CategoryID      int64     `json:"category_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookCreatedEvent is published after a new Book is persisted.
type BookCreatedEvent struct {
	EventID    uuid.UUID    `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int          `json:"version"`
	Book       BookSnapshot `json:"book"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// BookUpdatedEvent is published after a PATCH or PUT changes a Book.
type BookUpdatedEvent struct {
	EventID    uuid.UUID    `json:"event_id"`
	Version    int          `json:"version"`
	Book       BookSnapshot `json:"book"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// BookDeletedEvent is published after a Book is removed.
type BookDeletedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Version    int       `json:"version"`
	BookID     int64     `json:"book_id"`
	ISBN       string    `json:"isbn"`
	OccurredAt time.Time `json:"occurred_at"`
}
