package models

import "time"

// AuthorName is the display name of an author. Format rules are enforced by
// services.ValidateAuthorName before a value reaches persistence.
type AuthorName string

// String returns the underlying string value.
func (n AuthorName) String() string {
	return string(n)
}

// Author writes zero or more books.
type Author struct {
	ID        int64
	Name      AuthorName
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAuthor constructs an unsaved Author. ID is assigned by storage.
func NewAuthor(name AuthorName) *Author {
	now := time.Now().UTC()
	return &Author{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AuthorPatch is the optional-field view of an Author. A nil field is absent.
type AuthorPatch struct {
	Name *string
}

// ApplyTo copies every present field onto a.
func (p AuthorPatch) ApplyTo(a *Author) {
	if p.Name != nil {
		a.Name = AuthorName(*p.Name)
	}
}
