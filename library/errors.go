package library

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Sentinel errors returned by Store operations. Callers match them with
// errors.Is; wrapped messages carry the operation and driver detail.
var (
	// ErrUniqueConstraint signals an insert colliding with an existing
	// unique value (author email, book ISBN, member email).
	ErrUniqueConstraint = errors.New("unique constraint violation")

	// ErrMissingField signals a required field that was absent or blank.
	ErrMissingField = errors.New("missing required field")

	// ErrForeignKey signals an operation that would create or orphan a
	// dangling reference (unknown author/member/book id, or deleting a
	// book that borrowings still reference).
	ErrForeignKey = errors.New("foreign key constraint violation")

	// ErrNegativePrice signals a negative book price.
	ErrNegativePrice = errors.New("price must be non-negative")
)

// classify maps driver-level constraint failures onto the sentinel
// taxonomy. Anything that is not a recognized constraint failure is
// returned unchanged so infrastructure errors keep propagating.
func classify(err error) error {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return err
	}
	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return errors.Join(ErrUniqueConstraint, err)
	case sqlite3.ErrConstraintForeignKey:
		return errors.Join(ErrForeignKey, err)
	case sqlite3.ErrConstraintNotNull:
		return errors.Join(ErrMissingField, err)
	}
	return err
}
