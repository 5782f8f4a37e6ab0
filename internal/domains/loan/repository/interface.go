package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"library-backend/internal/domains/loan/model"
)

// LoanRepository owns the loan lifecycle. Issue and Return each run as a
// single transaction so stock counts and loan rows can never drift apart.
type LoanRepository interface {
	// Issue locks the book row, checks availability, decrements
	// stock_available and inserts the loan.
	Issue(ctx context.Context, loan *model.Loan) error

	// Return locks the loan row, computes the fine from the daily rate,
	// marks the loan finished and puts the copy back on the shelf.
	Return(ctx context.Context, id uuid.UUID, returnDate time.Time, dailyFineRate decimal.Decimal) (*model.Loan, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.LoanWithBook, error)
	List(ctx context.Context, query model.ListLoansQuery) ([]model.LoanWithBook, int64, error)

	// ListOverdue returns active loans whose due date is before asOf.
	ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanWithBook, error)
}
