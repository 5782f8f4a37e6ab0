package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
)

type LoanService interface {
	Issue(ctx context.Context, req model.IssueLoanRequest) (*model.Loan, error)
	Return(ctx context.Context, id uuid.UUID, req model.ReturnLoanRequest) (*model.Loan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.LoanWithBook, error)
	List(ctx context.Context, query model.ListLoansQuery) ([]model.LoanWithBook, int64, error)
	ListOverdue(ctx context.Context) ([]model.LoanWithBook, error)

	// ExportXLSX renders the loans matching query as a spreadsheet.
	ExportXLSX(ctx context.Context, query model.ListLoansQuery) ([]byte, error)
}
