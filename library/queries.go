package library

import "fmt"

// Read-only analytical queries. None of these mutate state; each is a
// single round trip against the current database content.

// BooksByAuthorName returns the books whose author has exactly the
// given last name, oldest publication year first.
func (s *Store) BooksByAuthorName(lastName string) ([]BookSummary, error) {
	var books []BookSummary
	err := s.db.Select(&books, `
        SELECT b.title, b.publication_year, b.price
        FROM books b
        JOIN authors a ON b.author_id = a.author_id
        WHERE a.last_name = ?
        ORDER BY b.publication_year`, lastName)
	if err != nil {
		return nil, fmt.Errorf("books by author name: %w", err)
	}
	return books, nil
}

// BookCountsPerAuthor returns every author with the number of books
// carrying their reference, most prolific first. Authors with no books
// appear with a count of 0 (left outer join).
func (s *Store) BookCountsPerAuthor() ([]AuthorBookCount, error) {
	var counts []AuthorBookCount
	err := s.db.Select(&counts, `
        SELECT a.first_name || ' ' || a.last_name AS author_name,
               COUNT(b.book_id) AS book_count
        FROM authors a
        LEFT JOIN books b ON a.author_id = b.author_id
        GROUP BY a.author_id
        ORDER BY book_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("book counts per author: %w", err)
	}
	return counts, nil
}

// ActiveBorrowings returns every borrowing with no return date, joined
// with member and book display data, earliest borrow first.
func (s *Store) ActiveBorrowings() ([]ActiveBorrowing, error) {
	var active []ActiveBorrowing
	err := s.db.Select(&active, `
        SELECT m.first_name || ' ' || m.last_name AS member_name,
               b.title,
               br.borrow_date
        FROM borrowings br
        JOIN members m ON br.member_id = m.member_id
        JOIN books b ON br.book_id = b.book_id
        WHERE br.return_date IS NULL
        ORDER BY br.borrow_date`)
	if err != nil {
		return nil, fmt.Errorf("active borrowings: %w", err)
	}
	return active, nil
}

// AveragePriceByAuthor returns the average priced-book price per
// author, highest average first. Authors with no priced books are
// excluded.
func (s *Store) AveragePriceByAuthor() ([]AuthorAveragePrice, error) {
	var averages []AuthorAveragePrice
	err := s.db.Select(&averages, `
        SELECT a.first_name || ' ' || a.last_name AS author_name,
               AVG(b.price) AS avg_price,
               COUNT(b.book_id) AS book_count
        FROM authors a
        JOIN books b ON a.author_id = b.author_id
        WHERE b.price IS NOT NULL
        GROUP BY a.author_id
        HAVING COUNT(b.book_id) > 0
        ORDER BY avg_price DESC`)
	if err != nil {
		return nil, fmt.Errorf("average price by author: %w", err)
	}
	return averages, nil
}

// SearchBooksByTitle returns books whose title contains the given
// substring, joined with author names. Case sensitivity follows
// SQLite's default LIKE collation (ASCII case-insensitive).
func (s *Store) SearchBooksByTitle(substr string) ([]BookWithAuthor, error) {
	var books []BookWithAuthor
	err := s.db.Select(&books, `
        SELECT b.book_id, b.title, b.isbn, b.publication_year, b.price,
               a.first_name || ' ' || a.last_name AS author_name
        FROM books b
        LEFT JOIN authors a ON b.author_id = a.author_id
        WHERE b.title LIKE '%' || ? || '%'
        ORDER BY b.title`, substr)
	if err != nil {
		return nil, fmt.Errorf("search books by title: %w", err)
	}
	return books, nil
}

// BooksInYearRange returns books published between from and to
// inclusive, earliest first, joined with author names.
func (s *Store) BooksInYearRange(from, to int) ([]BookSummaryWithAuthor, error) {
	var books []BookSummaryWithAuthor
	err := s.db.Select(&books, `
        SELECT b.title, b.publication_year,
               a.first_name || ' ' || a.last_name AS author_name
        FROM books b
        JOIN authors a ON b.author_id = a.author_id
        WHERE b.publication_year BETWEEN ? AND ?
        ORDER BY b.publication_year`, from, to)
	if err != nil {
		return nil, fmt.Errorf("books in year range: %w", err)
	}
	return books, nil
}
