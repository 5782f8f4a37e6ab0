package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
)

type postgresBookRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBookRepository(pool *pgxpool.Pool) BookRepository {
	return &postgresBookRepository{pool: pool}
}

const bookColumns = `id, title, author_id, isbn, published_year, publisher, genre, edition,
	pages, language, synopsis, cover_url, price, stock_available, stock_total, active,
	created_at, updated_at`

func scanBook(row pgx.Row, b *model.Book) error {
	return row.Scan(&b.ID, &b.Title, &b.AuthorID, &b.ISBN, &b.PublishedYear, &b.Publisher,
		&b.Genre, &b.Edition, &b.Pages, &b.Language, &b.Synopsis, &b.CoverURL,
		&b.Price, &b.StockAvailable, &b.StockTotal, &b.Active, &b.CreatedAt, &b.UpdatedAt)
}

func (r *postgresBookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (title, author_id, isbn, published_year, publisher, genre, edition,
			pages, language, synopsis, cover_url, price, stock_available, stock_total, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13, TRUE)
		RETURNING ` + bookColumns

	row := r.pool.QueryRow(ctx, query,
		book.Title, book.AuthorID, book.ISBN, book.PublishedYear, book.Publisher,
		book.Genre, book.Edition, book.Pages, book.Language, book.Synopsis,
		book.CoverURL, book.Price, book.StockTotal)
	if err := scanBook(row, book); err != nil {
		return mapBookError(err)
	}
	return nil
}

func (r *postgresBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error) {
	query := `
		SELECT b.id, b.title, b.author_id, b.isbn, b.published_year, b.publisher, b.genre,
			b.edition, b.pages, b.language, b.synopsis, b.cover_url, b.price,
			b.stock_available, b.stock_total, b.active, b.created_at, b.updated_at,
			a.name
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE b.id = $1`

	var bk model.BookWithAuthor
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&bk.ID, &bk.Title, &bk.AuthorID, &bk.ISBN, &bk.PublishedYear, &bk.Publisher,
		&bk.Genre, &bk.Edition, &bk.Pages, &bk.Language, &bk.Synopsis, &bk.CoverURL,
		&bk.Price, &bk.StockAvailable, &bk.StockTotal, &bk.Active, &bk.CreatedAt, &bk.UpdatedAt,
		&bk.AuthorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &bk, nil
}

func (r *postgresBookRepository) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`

	var book model.Book
	if err := scanBook(r.pool.QueryRow(ctx, query, isbn), &book); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by isbn: %w", err)
	}
	return &book, nil
}

func (r *postgresBookRepository) List(ctx context.Context, q model.ListBooksQuery) ([]model.BookWithAuthor, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if q.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(b.title ILIKE $%d OR b.isbn = $%d)", argIdx, argIdx+1))
		args = append(args, "%"+q.Search+"%", q.Search)
		argIdx += 2
	}
	if q.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("b.genre = $%d", argIdx))
		args = append(args, q.Genre)
		argIdx++
	}
	if q.AuthorID != "" {
		conditions = append(conditions, fmt.Sprintf("b.author_id = $%d", argIdx))
		args = append(args, q.AuthorID)
		argIdx++
	}
	if q.Active != nil {
		conditions = append(conditions, fmt.Sprintf("b.active = $%d", argIdx))
		args = append(args, *q.Active)
		argIdx++
	}
	if q.InStock {
		conditions = append(conditions, "b.stock_available > 0")
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM books b WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT b.id, b.title, b.author_id, b.isbn, b.published_year, b.publisher, b.genre,
			b.edition, b.pages, b.language, b.synopsis, b.cover_url, b.price,
			b.stock_available, b.stock_total, b.active, b.created_at, b.updated_at,
			a.name
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE %s
		ORDER BY b.title ASC
		LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.BookWithAuthor, 0)
	for rows.Next() {
		var bk model.BookWithAuthor
		if err := rows.Scan(
			&bk.ID, &bk.Title, &bk.AuthorID, &bk.ISBN, &bk.PublishedYear, &bk.Publisher,
			&bk.Genre, &bk.Edition, &bk.Pages, &bk.Language, &bk.Synopsis, &bk.CoverURL,
			&bk.Price, &bk.StockAvailable, &bk.StockTotal, &bk.Active, &bk.CreatedAt,
			&bk.UpdatedAt, &bk.AuthorName); err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, bk)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, total, nil
}

// Update never touches stock_available directly. Growing stock_total adds
// the new copies to the shelf; shrinking it caps stock_available so the
// invariant stock_available <= stock_total survives.
func (r *postgresBookRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $2, author_id = $3, published_year = $4, publisher = $5, genre = $6,
		    edition = $7, pages = $8, language = $9, synopsis = $10, price = $11,
		    stock_available = LEAST(GREATEST(stock_available + ($12 - stock_total), 0), $12),
		    stock_total = $12,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + bookColumns

	row := r.pool.QueryRow(ctx, query,
		book.ID, book.Title, book.AuthorID, book.PublishedYear, book.Publisher,
		book.Genre, book.Edition, book.Pages, book.Language, book.Synopsis,
		book.Price, book.StockTotal)
	if err := scanBook(row, book); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookNotFound
		}
		return mapBookError(err)
	}
	return nil
}

func (r *postgresBookRepository) UpdateCoverURL(ctx context.Context, id uuid.UUID, coverURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET cover_url = $2, updated_at = NOW() WHERE id = $1`, id, coverURL)
	if err != nil {
		return fmt.Errorf("failed to update cover url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

// Delete hard-deletes the book. The FK on loans.book_id protects history:
// any referencing loan turns this into ErrBookHasLoans.
func (r *postgresBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return mapBookError(err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresBookRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.setActive(ctx, id, false)
}

func (r *postgresBookRepository) Activate(ctx context.Context, id uuid.UUID) error {
	return r.setActive(ctx, id, true)
}

func (r *postgresBookRepository) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update book status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresBookRepository) GetActiveLoanCount(ctx context.Context, bookID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM loans WHERE book_id = $1 AND status = 'active'`, bookID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active loans: %w", err)
	}
	return count, nil
}

func mapBookError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return model.ErrDuplicateISBN
		case "23503": // foreign_key_violation
			if strings.Contains(pgErr.ConstraintName, "author") {
				return model.ErrAuthorNotFound
			}
			return model.ErrBookHasLoans
		case "23514": // check_violation
			return model.ErrInvalidStock
		}
	}
	return fmt.Errorf("database error: %w", err)
}
