package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"library-backend/internal/domains/loan/model"
	"library-backend/pkg/database"
)

type postgresLoanRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresLoanRepository(pool *pgxpool.Pool) LoanRepository {
	return &postgresLoanRepository{pool: pool}
}

const loanColumns = `id, book_id, borrower_name, borrower_document, borrower_email, borrower_phone,
	loan_date, due_date, return_date, overdue_fine, notes, status, created_at, updated_at`

func scanLoan(row pgx.Row, l *model.Loan) error {
	return row.Scan(&l.ID, &l.BookID, &l.BorrowerName, &l.BorrowerDocument, &l.BorrowerEmail,
		&l.BorrowerPhone, &l.LoanDate, &l.DueDate, &l.ReturnDate, &l.OverdueFine,
		&l.Notes, &l.Status, &l.CreatedAt, &l.UpdatedAt)
}

// Issue runs the whole issuance as one transaction. The FOR UPDATE lock on
// the book row serializes concurrent issuances of the same title, so the
// availability check and the decrement cannot race.
func (r *postgresLoanRepository) Issue(ctx context.Context, loan *model.Loan) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		var available int
		var active bool
		err := tx.QueryRow(ctx,
			`SELECT stock_available, active FROM books WHERE id = $1 FOR UPDATE`,
			loan.BookID).Scan(&available, &active)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.ErrBookNotFound
			}
			return fmt.Errorf("failed to lock book: %w", err)
		}

		if !active {
			return model.ErrBookInactive
		}
		if available <= 0 {
			return model.ErrOutOfStock
		}

		_, err = tx.Exec(ctx,
			`UPDATE books SET stock_available = stock_available - 1, updated_at = NOW() WHERE id = $1`,
			loan.BookID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		query := `
			INSERT INTO loans (book_id, borrower_name, borrower_document, borrower_email,
				borrower_phone, loan_date, due_date, notes, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING ` + loanColumns

		row := tx.QueryRow(ctx, query,
			loan.BookID, loan.BorrowerName, loan.BorrowerDocument, loan.BorrowerEmail,
			loan.BorrowerPhone, loan.LoanDate, loan.DueDate, loan.Notes, model.StatusActive)
		if err := scanLoan(row, loan); err != nil {
			return fmt.Errorf("failed to insert loan: %w", err)
		}
		return nil
	})
}

// Return is the inverse transaction. The loan row is locked so a double
// return cannot slip through, and the stock increment is capped at
// stock_total in case the total shrank while the copy was out.
func (r *postgresLoanRepository) Return(ctx context.Context, id uuid.UUID, returnDate time.Time, dailyFineRate decimal.Decimal) (*model.Loan, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Loan, error) {
		var loan model.Loan
		err := scanLoan(tx.QueryRow(ctx,
			`SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id), &loan)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrLoanNotFound
			}
			return nil, fmt.Errorf("failed to lock loan: %w", err)
		}

		if loan.Status != model.StatusActive {
			return nil, model.ErrAlreadyReturned
		}

		fine := model.ComputeFine(loan.DueDate, returnDate, dailyFineRate)

		row := tx.QueryRow(ctx, `
			UPDATE loans
			SET return_date = $2, overdue_fine = $3, status = $4, updated_at = NOW()
			WHERE id = $1
			RETURNING `+loanColumns,
			id, returnDate, fine, model.StatusFinished)
		if err := scanLoan(row, &loan); err != nil {
			return nil, fmt.Errorf("failed to finish loan: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE books
			SET stock_available = LEAST(stock_available + 1, stock_total), updated_at = NOW()
			WHERE id = $1`, loan.BookID)
		if err != nil {
			return nil, fmt.Errorf("failed to restore stock: %w", err)
		}

		return &loan, nil
	})
}

const loanWithBookSelect = `
	SELECT l.id, l.book_id, l.borrower_name, l.borrower_document, l.borrower_email,
		l.borrower_phone, l.loan_date, l.due_date, l.return_date, l.overdue_fine,
		l.notes, l.status, l.created_at, l.updated_at,
		b.title, b.isbn
	FROM loans l
	JOIN books b ON b.id = l.book_id`

func scanLoanWithBook(row pgx.Row, l *model.LoanWithBook) error {
	return row.Scan(&l.ID, &l.BookID, &l.BorrowerName, &l.BorrowerDocument, &l.BorrowerEmail,
		&l.BorrowerPhone, &l.LoanDate, &l.DueDate, &l.ReturnDate, &l.OverdueFine,
		&l.Notes, &l.Status, &l.CreatedAt, &l.UpdatedAt, &l.BookTitle, &l.BookISBN)
}

func (r *postgresLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.LoanWithBook, error) {
	var loan model.LoanWithBook
	err := scanLoanWithBook(r.pool.QueryRow(ctx, loanWithBookSelect+` WHERE l.id = $1`, id), &loan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLoanNotFound
		}
		return nil, fmt.Errorf("failed to get loan: %w", err)
	}
	return &loan, nil
}

func (r *postgresLoanRepository) List(ctx context.Context, q model.ListLoansQuery) ([]model.LoanWithBook, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if q.Status != "" {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", argIdx))
		args = append(args, q.Status)
		argIdx++
	}
	if q.BookID != "" {
		conditions = append(conditions, fmt.Sprintf("l.book_id = $%d", argIdx))
		args = append(args, q.BookID)
		argIdx++
	}
	if q.BorrowerDocument != "" {
		conditions = append(conditions, fmt.Sprintf("l.borrower_document = $%d", argIdx))
		args = append(args, q.BorrowerDocument)
		argIdx++
	}
	if q.Overdue {
		conditions = append(conditions, fmt.Sprintf("l.status = $%d AND l.due_date < $%d", argIdx, argIdx+1))
		args = append(args, model.StatusActive, time.Now())
		argIdx += 2
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM loans l WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY l.loan_date DESC LIMIT $%d OFFSET $%d",
		loanWithBookSelect, where, argIdx, argIdx+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	loans := make([]model.LoanWithBook, 0)
	for rows.Next() {
		var loan model.LoanWithBook
		if err := scanLoanWithBook(rows, &loan); err != nil {
			return nil, 0, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate loans: %w", err)
	}

	return loans, total, nil
}

func (r *postgresLoanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanWithBook, error) {
	query := loanWithBookSelect + `
		WHERE l.status = $1 AND l.due_date < $2
		ORDER BY l.due_date ASC`

	rows, err := r.pool.Query(ctx, query, model.StatusActive, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue loans: %w", err)
	}
	defer rows.Close()

	loans := make([]model.LoanWithBook, 0)
	for rows.Next() {
		var loan model.LoanWithBook
		if err := scanLoanWithBook(rows, &loan); err != nil {
			return nil, fmt.Errorf("failed to scan overdue loan: %w", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overdue loans: %w", err)
	}

	return loans, nil
}
