package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
)

type loanService struct {
	repo   repository.LoanRepository
	policy config.LoanConfig
	now    func() time.Time
}

func NewLoanService(repo repository.LoanRepository, policy config.LoanConfig) LoanService {
	return &loanService{repo: repo, policy: policy, now: time.Now}
}

// Issue lends one copy of a book. The due date defaults to the configured
// loan period unless the request asks for a shorter or longer one.
func (s *loanService) Issue(ctx context.Context, req model.IssueLoanRequest) (*model.Loan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	now := s.now()

	var dueDate time.Time
	switch {
	case req.DueDate != nil:
		if !req.DueDate.After(now) {
			return nil, fmt.Errorf("%w: due date must be after the loan date", model.ErrInvalidInput)
		}
		dueDate = *req.DueDate
	case req.PeriodDays > 0:
		dueDate = now.AddDate(0, 0, req.PeriodDays)
	default:
		dueDate = now.AddDate(0, 0, s.policy.DefaultPeriodDays)
	}

	loan := &model.Loan{
		BookID:           req.BookID,
		BorrowerName:     req.BorrowerName,
		BorrowerDocument: req.BorrowerDocument,
		BorrowerEmail:    req.BorrowerEmail,
		BorrowerPhone:    req.BorrowerPhone,
		LoanDate:         now,
		DueDate:          dueDate,
		Notes:            req.Notes,
	}

	if err := s.repo.Issue(ctx, loan); err != nil {
		return nil, err
	}

	log.Info().
		Str("loan_id", loan.ID.String()).
		Str("book_id", loan.BookID.String()).
		Str("borrower", loan.BorrowerDocument).
		Time("due_date", loan.DueDate).
		Msg("loan issued")
	return loan, nil
}

// Return finishes a loan. The fine is computed from the configured daily
// rate; on-time returns carry an explicit zero fine.
func (s *loanService) Return(ctx context.Context, id uuid.UUID, req model.ReturnLoanRequest) (*model.Loan, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	returnDate := s.now()
	if req.ReturnDate != nil {
		returnDate = *req.ReturnDate
	}

	loan, err := s.repo.Return(ctx, id, returnDate, s.policy.DailyFineRate)
	if err != nil {
		return nil, err
	}

	event := log.Info().
		Str("loan_id", loan.ID.String()).
		Str("book_id", loan.BookID.String())
	if loan.OverdueFine != nil && loan.OverdueFine.IsPositive() {
		event = event.Str("fine", loan.OverdueFine.StringFixed(2))
	}
	event.Msg("loan returned")
	return loan, nil
}

func (s *loanService) GetByID(ctx context.Context, id uuid.UUID) (*model.LoanWithBook, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *loanService) List(ctx context.Context, query model.ListLoansQuery) ([]model.LoanWithBook, int64, error) {
	if err := query.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}
	query.Normalize()
	return s.repo.List(ctx, query)
}

func (s *loanService) ListOverdue(ctx context.Context) ([]model.LoanWithBook, error) {
	return s.repo.ListOverdue(ctx, s.now())
}
