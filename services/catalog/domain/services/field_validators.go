// Package services contains stateless domain services for the catalog bounded
// context: field predicates and the book constraint checker.
package services

import (
	"fmt"
	"regexp"

	"github.com/ghuser/catalog/services/catalog/domain"
)

var (
	authorNamePattern = regexp.MustCompile(`^[a-zA-Z\s]{3,}$`)
	genrePattern      = regexp.MustCompile(`^[a-zA-Z\s]{5,}$`)
	isbnPattern       = regexp.MustCompile(`^[0-9]{13}$`)
)

// IsValidAuthorName reports whether name is at least 3 characters of letters
// and whitespace only.
func IsValidAuthorName(name string) bool {
	return authorNamePattern.MatchString(name)
}

// IsValidGenre reports whether genre is at least 5 characters of letters and
// whitespace only.
func IsValidGenre(genre string) bool {
	return genrePattern.MatchString(genre)
}

// IsValidISBN reports whether isbn is exactly 13 ASCII digits. Hyphens and
// check digits are not considered.
func IsValidISBN(isbn string) bool {
	return isbnPattern.MatchString(isbn)
}

// ValidateAuthorName returns an InvalidFormat rejection for a bad author name.
func ValidateAuthorName(name string) error {
	if !IsValidAuthorName(name) {
		return domain.InvalidFormat("name", name,
			fmt.Sprintf("Invalid author name %q: It must be at least 3 letters or spaces.", name))
	}
	return nil
}

// ValidateGenre returns an InvalidFormat rejection for a bad genre.
func ValidateGenre(genre string) error {
	if !IsValidGenre(genre) {
		return domain.InvalidFormat("genre", genre,
			fmt.Sprintf("Invalid genre %q: It must be at least 5 letters or spaces.", genre))
	}
	return nil
}
