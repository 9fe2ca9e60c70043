package models

import "time"

// Genre names a category of books.
type Genre string

// String returns the underlying string value.
func (g Genre) String() string {
	return string(g)
}

// Category groups books by genre.
type Category struct {
	ID        int64
	Genre     Genre
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory constructs an unsaved Category. ID is assigned by storage.
func NewCategory(genre Genre) *Category {
	now := time.Now().UTC()
	return &Category{
		Genre:     genre,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CategoryPatch is the optional-field view of a Category. A nil field is absent.
type CategoryPatch struct {
	Genre *string
}

// ApplyTo copies every present field onto c.
func (p CategoryPatch) ApplyTo(c *Category) {
	if p.Genre != nil {
		c.Genre = Genre(*p.Genre)
	}
}
