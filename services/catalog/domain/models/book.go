package models

import "time"

// Book belongs to exactly one Author and one Category. Both are references by
// id; a Book owns neither.
type Book struct {
	ID              int64
	Title           string
	ISBN            string
	PublicationDate time.Time
	Price           float64
	AuthorID        int64
	CategoryID      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookPatch is the optional-field view of a Book. Presence is tracked by the
// pointer alone; whether a present value is valid is decided elsewhere.
type BookPatch struct {
	Title           *string
	ISBN            *string
	PublicationDate *time.Time
	Price           *float64
	AuthorID        *int64
	CategoryID      *int64
}

// PatchFromBook returns a view with every field of b present.
func PatchFromBook(b *Book) BookPatch {
	title, isbn, date, price := b.Title, b.ISBN, b.PublicationDate, b.Price
	authorID, categoryID := b.AuthorID, b.CategoryID
	return BookPatch{
		Title:           &title,
		ISBN:            &isbn,
		PublicationDate: &date,
		Price:           &price,
		AuthorID:        &authorID,
		CategoryID:      &categoryID,
	}
}

// Over returns the view obtained by laying p on top of base: fields present in
// p win, the rest come from base.
func (p BookPatch) Over(base BookPatch) BookPatch {
	out := base
	if p.Title != nil {
		out.Title = p.Title
	}
	if p.ISBN != nil {
		out.ISBN = p.ISBN
	}
	if p.PublicationDate != nil {
		out.PublicationDate = p.PublicationDate
	}
	if p.Price != nil {
		out.Price = p.Price
	}
	if p.AuthorID != nil {
		out.AuthorID = p.AuthorID
	}
	if p.CategoryID != nil {
		out.CategoryID = p.CategoryID
	}
	return out
}

// ApplyTo copies every present field onto b.
func (p BookPatch) ApplyTo(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.PublicationDate != nil {
		b.PublicationDate = *p.PublicationDate
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.AuthorID != nil {
		b.AuthorID = *p.AuthorID
	}
	if p.CategoryID != nil {
		b.CategoryID = *p.CategoryID
	}
}

// NewBook builds an unsaved Book from the present fields of p. Absent fields
// keep their zero value.
func (p BookPatch) NewBook() *Book {
	now := time.Now().UTC()
	b := &Book{CreatedAt: now, UpdatedAt: now}
	p.ApplyTo(b)
	return b
}

// ChangesReferences reports whether applying p to b would alter the ISBN, the
// author or the category, the fields covered by the lookup checks.
func (p BookPatch) ChangesReferences(b *Book) bool {
	return (p.ISBN != nil && *p.ISBN != b.ISBN) ||
		(p.AuthorID != nil && *p.AuthorID != b.AuthorID) ||
		(p.CategoryID != nil && *p.CategoryID != b.CategoryID)
}

// IsEmpty reports whether no field is present.
func (p BookPatch) IsEmpty() bool {
	return p == BookPatch{}
}
