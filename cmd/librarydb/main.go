// Command librarydb is a thin demonstration CLI over the library
// package. It holds no business logic: every subcommand opens the
// store, calls one or two operations, and prints the rows.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"librarydb/library"
)

var (
	dbPath  string
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "librarydb",
		Short:         "Library lending database demo",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dbPath, "db", "library.db", "path to the SQLite database file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newSeedCmd(),
		newAuthorsCmd(),
		newBooksCmd(),
		newMembersCmd(),
		newBorrowingsCmd(),
		newActiveCmd(),
	)
	return root
}

func openStore() (*library.Store, error) {
	opts := []library.Option{}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, library.WithLogger(logger))
	}
	return library.NewStore(dbPath, opts...)
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Recreate the database and load sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Start from a clean file, including WAL side files.
			for _, f := range []string{dbPath, dbPath + "-shm", dbPath + "-wal"} {
				if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
					return err
				}
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rowling, err := s.AddAuthor("J.K.", "Rowling", ptr("jkrowling@example.com"))
			if err != nil {
				return err
			}
			orwell, err := s.AddAuthor("George", "Orwell", ptr("gorwell@example.com"))
			if err != nil {
				return err
			}
			austen, err := s.AddAuthor("Jane", "Austen", ptr("jausten@example.com"))
			if err != nil {
				return err
			}

			hp, err := s.AddBook("Harry Potter and the Philosopher's Stone", &rowling, ptr("978-0747532699"), ptr(1997), ptr(12.99))
			if err != nil {
				return err
			}
			nineteen, err := s.AddBook("1984", &orwell, ptr("978-0451524935"), ptr(1949), ptr(9.99))
			if err != nil {
				return err
			}
			if _, err := s.AddBook("Pride and Prejudice", &austen, ptr("978-0141439518"), ptr(1813), ptr(8.99)); err != nil {
				return err
			}
			if _, err := s.AddBook("Animal Farm", &orwell, ptr("978-0451526342"), ptr(1945), ptr(7.99)); err != nil {
				return err
			}

			john, err := s.AddMember("John", "Doe", "john.doe@example.com", ptr("555-0101"))
			if err != nil {
				return err
			}
			jane, err := s.AddMember("Jane", "Smith", "jane.smith@example.com", ptr("555-0102"))
			if err != nil {
				return err
			}

			if _, err := s.BorrowBook(john, hp); err != nil {
				return err
			}
			if _, err := s.BorrowBook(jane, nineteen); err != nil {
				return err
			}
			if _, err := s.UpdateBookPrice(hp, 14.99); err != nil {
				return err
			}

			fmt.Printf("Seeded %s: 3 authors, 4 books, 2 members, 2 active borrowings\n", dbPath)
			return nil
		},
	}
}

func newAuthorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "authors",
		Short: "List all authors",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			authors, err := s.ListAuthors()
			if err != nil {
				return err
			}
			fmt.Printf("%-4s %-25s %-30s\n", "ID", "Name", "Email")
			for _, a := range authors {
				fmt.Printf("%-4d %-25s %-30s\n", a.ID, a.FirstName+" "+a.LastName, orNA(a.Email))
			}
			return nil
		},
	}
}

func newBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List all books with author names",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			books, err := s.ListBooks()
			if err != nil {
				return err
			}
			fmt.Printf("%-4s %-45s %-20s %-6s %-8s\n", "ID", "Title", "Author", "Year", "Price")
			for _, b := range books {
				author := "Unknown"
				if b.AuthorName != nil {
					author = *b.AuthorName
				}
				year := "N/A"
				if b.Year != nil {
					year = strconv.Itoa(*b.Year)
				}
				price := "N/A"
				if b.Price != nil {
					price = fmt.Sprintf("$%.2f", *b.Price)
				}
				fmt.Printf("%-4d %-45s %-20s %-6s %-8s\n", b.ID, b.Title, author, year, price)
			}
			return nil
		},
	}
}

func newMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List all members",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			members, err := s.ListMembers()
			if err != nil {
				return err
			}
			fmt.Printf("%-4s %-25s %-30s %-12s\n", "ID", "Name", "Email", "Phone")
			for _, m := range members {
				fmt.Printf("%-4d %-25s %-30s %-12s\n", m.ID, m.FirstName+" "+m.LastName, m.Email, orNA(m.Phone))
			}
			return nil
		},
	}
}

func newBorrowingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "borrowings <member-id>",
		Short: "List a member's borrowing history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid member id %q", args[0])
			}

			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			history, err := s.ListMemberBorrowings(memberID)
			if err != nil {
				return err
			}
			for _, h := range history {
				returned := "still out"
				if h.ReturnDate != nil {
					returned = "returned " + h.ReturnDate.Format("2006-01-02")
				}
				fmt.Printf("%-45s borrowed %s (%s)\n", h.Title, h.BorrowDate.Format("2006-01-02"), returned)
			}
			return nil
		},
	}
}

func newActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "List currently-active borrowings",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			active, err := s.ActiveBorrowings()
			if err != nil {
				return err
			}
			for _, a := range active {
				fmt.Printf("%s borrowed %q on %s\n", a.MemberName, a.Title, a.BorrowDate.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func ptr[T any](v T) *T { return &v }

func orNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}
