package library

import "time"

// Author is a row in the authors table. Email is optional but unique
// across all authors when present.
type Author struct {
	ID        int64     `db:"author_id" json:"author_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Book is a row in the books table. AuthorID may be nil for books whose
// author is unknown.
type Book struct {
	ID        int64     `db:"book_id" json:"book_id"`
	Title     string    `db:"title" json:"title"`
	ISBN      *string   `db:"isbn" json:"isbn,omitempty"`
	AuthorID  *int64    `db:"author_id" json:"author_id,omitempty"`
	Year      *int      `db:"publication_year" json:"publication_year,omitempty"`
	Price     *float64  `db:"price" json:"price,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// BookWithAuthor is a book joined with its author's display name.
// AuthorName is nil when the book has no author reference.
type BookWithAuthor struct {
	ID         int64    `db:"book_id" json:"book_id"`
	Title      string   `db:"title" json:"title"`
	ISBN       *string  `db:"isbn" json:"isbn,omitempty"`
	Year       *int     `db:"publication_year" json:"publication_year,omitempty"`
	Price      *float64 `db:"price" json:"price,omitempty"`
	AuthorName *string  `db:"author_name" json:"author_name,omitempty"`
}

// Member is a row in the members table. Email is required and unique.
type Member struct {
	ID        int64     `db:"member_id" json:"member_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	JoinDate  time.Time `db:"join_date" json:"join_date"`
}

// Borrowing is a row in the borrowings table. ReturnDate is nil while
// the book is still out.
type Borrowing struct {
	ID         int64      `db:"borrowing_id" json:"borrowing_id"`
	MemberID   int64      `db:"member_id" json:"member_id"`
	BookID     int64      `db:"book_id" json:"book_id"`
	BorrowDate time.Time  `db:"borrow_date" json:"borrow_date"`
	ReturnDate *time.Time `db:"return_date" json:"return_date,omitempty"`
}

// BorrowingWithTitle is a borrowing joined with the book's title, for a
// member's borrowing history.
type BorrowingWithTitle struct {
	ID         int64      `db:"borrowing_id" json:"borrowing_id"`
	Title      string     `db:"title" json:"title"`
	BorrowDate time.Time  `db:"borrow_date" json:"borrow_date"`
	ReturnDate *time.Time `db:"return_date" json:"return_date,omitempty"`
}

// BookSummary holds the book columns returned by author-scoped reads.
type BookSummary struct {
	Title string   `db:"title" json:"title"`
	Year  *int     `db:"publication_year" json:"publication_year,omitempty"`
	Price *float64 `db:"price" json:"price,omitempty"`
}

// BookSummaryWithAuthor is a dated book joined with its author's name.
type BookSummaryWithAuthor struct {
	Title      string `db:"title" json:"title"`
	Year       int    `db:"publication_year" json:"publication_year"`
	AuthorName string `db:"author_name" json:"author_name"`
}

// AuthorBookCount is one row of the books-per-author aggregate.
// Authors with no books appear with BookCount 0.
type AuthorBookCount struct {
	AuthorName string `db:"author_name" json:"author_name"`
	BookCount  int    `db:"book_count" json:"book_count"`
}

// ActiveBorrowing is a not-yet-returned borrowing joined with member
// and book display data.
type ActiveBorrowing struct {
	MemberName string    `db:"member_name" json:"member_name"`
	Title      string    `db:"title" json:"title"`
	BorrowDate time.Time `db:"borrow_date" json:"borrow_date"`
}

// AuthorAveragePrice is one row of the average-price-per-author
// aggregate, restricted to authors with at least one priced book.
type AuthorAveragePrice struct {
	AuthorName   string  `db:"author_name" json:"author_name"`
	AveragePrice float64 `db:"avg_price" json:"avg_price"`
	BookCount    int     `db:"book_count" json:"book_count"`
}
