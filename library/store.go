package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Store owns a single SQLite-backed library database: four tables
// (authors, books, members, borrowings) and a fixed set of typed
// operations over them. It keeps no state between calls; every read
// reflects the file's current content.
type Store struct {
	db  *sqlx.DB
	log *zap.Logger

	addAuthorStmt *sqlx.Stmt
	addBookStmt   *sqlx.Stmt
	addMemberStmt *sqlx.Stmt
	borrowStmt    *sqlx.Stmt
}

// Option configures a Store during construction.
type Option func(*Store)

// WithLogger attaches a structured logger. The default is a no-op
// logger, so library consumers opt in to output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore opens (or creates) the SQLite database at dbPath, ensures
// the schema exists, and prepares the insert statements. Opening a
// database that already carries the schema is a no-op for schema
// purposes.
func NewStore(dbPath string, opts ...Option) (*Store, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Busy timeout covers cross-process writers, foreign keys are
	// enforced (see DESIGN.md), WAL improves write concurrency.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1&_journal_mode=WAL", dbPath)
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	store := &Store{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(store)
	}

	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	store.log.Debug("library store opened", zap.String("path", dbPath))
	return store, nil
}

// Close releases prepared statements and closes the database. Safe to
// call more than once.
func (s *Store) Close() error {
	for _, stmt := range []*sqlx.Stmt{s.addAuthorStmt, s.addBookStmt, s.addMemberStmt, s.borrowStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	s.log.Debug("library store closed")
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

const schema = `
CREATE TABLE IF NOT EXISTS authors (
    author_id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS books (
    book_id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    isbn TEXT UNIQUE,
    author_id INTEGER REFERENCES authors(author_id),
    publication_year INTEGER,
    price REAL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_books_author ON books(author_id);

CREATE TABLE IF NOT EXISTS members (
    member_id INTEGER PRIMARY KEY AUTOINCREMENT,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL,
    phone TEXT,
    join_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS borrowings (
    borrowing_id INTEGER PRIMARY KEY AUTOINCREMENT,
    member_id INTEGER NOT NULL REFERENCES members(member_id),
    book_id INTEGER NOT NULL REFERENCES books(book_id),
    borrow_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    return_date TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_borrowings_member ON borrowings(member_id);
CREATE INDEX IF NOT EXISTS idx_borrowings_book ON borrowings(book_id);
`

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	s.log.Debug("schema ensured")
	return nil
}

func (s *Store) prepareStatements() error {
	var err error
	if s.addAuthorStmt, err = s.db.Preparex(`INSERT INTO authors (first_name, last_name, email) VALUES (?, ?, ?)`); err != nil {
		return err
	}
	if s.addBookStmt, err = s.db.Preparex(`INSERT INTO books (title, isbn, author_id, publication_year, price) VALUES (?, ?, ?, ?, ?)`); err != nil {
		return err
	}
	if s.addMemberStmt, err = s.db.Preparex(`INSERT INTO members (first_name, last_name, email, phone) VALUES (?, ?, ?, ?)`); err != nil {
		return err
	}
	if s.borrowStmt, err = s.db.Preparex(`INSERT INTO borrowings (member_id, book_id) VALUES (?, ?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Inserts
// ---------------------------------------------------------------------------

// AddAuthor inserts an author and returns the generated id. Email is
// optional; a duplicate email fails with ErrUniqueConstraint.
func (s *Store) AddAuthor(firstName, lastName string, email *string) (int64, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return 0, fmt.Errorf("add author: %w: first_name and last_name", ErrMissingField)
	}
	res, err := s.addAuthorStmt.Exec(firstName, lastName, email)
	if err != nil {
		return 0, fmt.Errorf("add author: %w", classify(err))
	}
	return res.LastInsertId()
}

// AddBook inserts a book and returns the generated id. Everything but
// the title is optional. A colliding ISBN fails with
// ErrUniqueConstraint; an authorID that matches no author fails with
// ErrForeignKey; a negative price fails with ErrNegativePrice.
func (s *Store) AddBook(title string, authorID *int64, isbn *string, year *int, price *float64) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("add book: %w: title", ErrMissingField)
	}
	if price != nil && *price < 0 {
		return 0, fmt.Errorf("add book: %w: %v", ErrNegativePrice, *price)
	}
	res, err := s.addBookStmt.Exec(title, isbn, authorID, year, price)
	if err != nil {
		return 0, fmt.Errorf("add book: %w", classify(err))
	}
	return res.LastInsertId()
}

// AddMember inserts a member and returns the generated id. First name,
// last name and email are required; a duplicate email fails with
// ErrUniqueConstraint.
func (s *Store) AddMember(firstName, lastName, email string, phone *string) (int64, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" || strings.TrimSpace(email) == "" {
		return 0, fmt.Errorf("add member: %w: first_name, last_name and email", ErrMissingField)
	}
	res, err := s.addMemberStmt.Exec(firstName, lastName, email, phone)
	if err != nil {
		return 0, fmt.Errorf("add member: %w", classify(err))
	}
	return res.LastInsertId()
}

// BorrowBook records an active borrowing (no return date) and returns
// the generated borrowing id. Unknown member or book ids fail with
// ErrForeignKey. Whether the book is already out is not checked; the
// schema places no limit on concurrent borrowings of one book.
func (s *Store) BorrowBook(memberID, bookID int64) (int64, error) {
	res, err := s.borrowStmt.Exec(memberID, bookID)
	if err != nil {
		return 0, fmt.Errorf("borrow book: %w", classify(err))
	}
	return res.LastInsertId()
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

// ListAuthors returns all authors ordered by last name then first name.
func (s *Store) ListAuthors() ([]Author, error) {
	var authors []Author
	err := s.db.Select(&authors, `
        SELECT author_id, first_name, last_name, email, created_at
        FROM authors
        ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

// ListMembers returns all members ordered by last name then first name.
func (s *Store) ListMembers() ([]Member, error) {
	var members []Member
	err := s.db.Select(&members, `
        SELECT member_id, first_name, last_name, email, phone, join_date
        FROM members
        ORDER BY last_name, first_name`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// ListBooks returns all books ordered by title, each joined with its
// author's display name. Books without an author still appear, with a
// nil AuthorName (left outer join).
func (s *Store) ListBooks() ([]BookWithAuthor, error) {
	var books []BookWithAuthor
	err := s.db.Select(&books, `
        SELECT b.book_id, b.title, b.isbn, b.publication_year, b.price,
               a.first_name || ' ' || a.last_name AS author_name
        FROM books b
        LEFT JOIN authors a ON b.author_id = a.author_id
        ORDER BY b.title`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// ListBooksByAuthor returns the books carrying the given author
// reference, newest publication year first. Books with no publication
// year sort after all dated books.
func (s *Store) ListBooksByAuthor(authorID int64) ([]Book, error) {
	var books []Book
	err := s.db.Select(&books, `
        SELECT book_id, title, isbn, author_id, publication_year, price, created_at
        FROM books
        WHERE author_id = ?
        ORDER BY publication_year DESC NULLS LAST`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list books by author: %w", err)
	}
	return books, nil
}

// ListMemberBorrowings returns a member's full borrowing history joined
// with book titles, most recent borrow first.
func (s *Store) ListMemberBorrowings(memberID int64) ([]BorrowingWithTitle, error) {
	var borrowings []BorrowingWithTitle
	err := s.db.Select(&borrowings, `
        SELECT br.borrowing_id, b.title, br.borrow_date, br.return_date
        FROM borrowings br
        JOIN books b ON br.book_id = b.book_id
        WHERE br.member_id = ?
        ORDER BY br.borrow_date DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list member borrowings: %w", err)
	}
	return borrowings, nil
}

// ---------------------------------------------------------------------------
// Updates and deletes
// ---------------------------------------------------------------------------

// UpdateBookPrice sets a book's price. It reports whether a row
// matched; false means no book has that id. Negative prices fail with
// ErrNegativePrice.
func (s *Store) UpdateBookPrice(bookID int64, newPrice float64) (bool, error) {
	if newPrice < 0 {
		return false, fmt.Errorf("update book price: %w: %v", ErrNegativePrice, newPrice)
	}
	res, err := s.db.Exec(`UPDATE books SET price = ? WHERE book_id = ?`, newPrice, bookID)
	if err != nil {
		return false, fmt.Errorf("update book price: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update book price: %w", err)
	}
	return n > 0, nil
}

// ReturnBook stamps a borrowing's return date, only if the row exists
// and has not already been returned. It reports whether exactly one row
// changed; false covers both an unknown id and an already-returned
// borrowing, which callers cannot distinguish from the result alone.
// A return date, once set, never changes.
func (s *Store) ReturnBook(borrowingID int64) (bool, error) {
	res, err := s.db.Exec(`
        UPDATE borrowings
        SET return_date = CURRENT_TIMESTAMP
        WHERE borrowing_id = ? AND return_date IS NULL`, borrowingID)
	if err != nil {
		return false, fmt.Errorf("return book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("return book: %w", err)
	}
	return n == 1, nil
}

// DeleteBook removes a book row. It reports whether a row was removed;
// false means no book has that id. Deleting a book that borrowing rows
// still reference fails with ErrForeignKey rather than leaving the
// borrowings dangling.
func (s *Store) DeleteBook(bookID int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM books WHERE book_id = ?`, bookID)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	return n > 0, nil
}
