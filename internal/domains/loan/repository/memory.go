package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"library-backend/internal/domains/loan/model"
)

// memoryBook is the slice of a book the loan engine cares about.
type memoryBook struct {
	Title     string
	ISBN      string
	Available int
	Total     int
	Active    bool
}

// MemoryLoanRepository is an in-memory LoanRepository guarded by a single
// mutex, which gives it the same serialization guarantee the Postgres
// implementation gets from row locks.
type MemoryLoanRepository struct {
	mu    sync.Mutex
	books map[uuid.UUID]*memoryBook
	loans map[uuid.UUID]*model.Loan
}

func NewMemoryLoanRepository() *MemoryLoanRepository {
	return &MemoryLoanRepository{
		books: make(map[uuid.UUID]*memoryBook),
		loans: make(map[uuid.UUID]*model.Loan),
	}
}

var _ LoanRepository = (*MemoryLoanRepository)(nil)

// AddBook registers a book with the given stock. Returns its id.
func (r *MemoryLoanRepository) AddBook(title, isbn string, stock int) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	r.books[id] = &memoryBook{Title: title, ISBN: isbn, Available: stock, Total: stock, Active: true}
	return id
}

// DeactivateBook marks a book unavailable for new loans.
func (r *MemoryLoanRepository) DeactivateBook(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.books[id]; ok {
		b.Active = false
	}
}

// StockAvailable reports the current shelf count for a book.
func (r *MemoryLoanRepository) StockAvailable(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.books[id]; ok {
		return b.Available
	}
	return 0
}

func (r *MemoryLoanRepository) Issue(ctx context.Context, loan *model.Loan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[loan.BookID]
	if !ok {
		return model.ErrBookNotFound
	}
	if !book.Active {
		return model.ErrBookInactive
	}
	if book.Available <= 0 {
		return model.ErrOutOfStock
	}

	book.Available--

	now := time.Now()
	loan.ID = uuid.New()
	loan.Status = model.StatusActive
	loan.CreatedAt = now
	loan.UpdatedAt = now

	stored := *loan
	r.loans[loan.ID] = &stored
	return nil
}

func (r *MemoryLoanRepository) Return(ctx context.Context, id uuid.UUID, returnDate time.Time, dailyFineRate decimal.Decimal) (*model.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[id]
	if !ok {
		return nil, model.ErrLoanNotFound
	}
	if loan.Status != model.StatusActive {
		return nil, model.ErrAlreadyReturned
	}

	fine := model.ComputeFine(loan.DueDate, returnDate, dailyFineRate)

	loan.ReturnDate = &returnDate
	loan.OverdueFine = &fine
	loan.Status = model.StatusFinished
	loan.UpdatedAt = time.Now()

	if book, ok := r.books[loan.BookID]; ok && book.Available < book.Total {
		book.Available++
	}

	result := *loan
	return &result, nil
}

func (r *MemoryLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.LoanWithBook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loan, ok := r.loans[id]
	if !ok {
		return nil, model.ErrLoanNotFound
	}
	return r.withBook(loan), nil
}

func (r *MemoryLoanRepository) List(ctx context.Context, q model.ListLoansQuery) ([]model.LoanWithBook, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]model.LoanWithBook, 0)
	now := time.Now()
	for _, loan := range r.loans {
		if q.Status != "" && loan.Status != q.Status {
			continue
		}
		if q.BookID != "" && loan.BookID.String() != q.BookID {
			continue
		}
		if q.BorrowerDocument != "" && loan.BorrowerDocument != q.BorrowerDocument {
			continue
		}
		if q.Overdue && !loan.IsOverdue(now) {
			continue
		}
		matched = append(matched, *r.withBook(loan))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].LoanDate.After(matched[j].LoanDate)
	})

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return []model.LoanWithBook{}, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *MemoryLoanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]model.LoanWithBook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	overdue := make([]model.LoanWithBook, 0)
	for _, loan := range r.loans {
		if loan.Status == model.StatusActive && loan.DueDate.Before(asOf) {
			overdue = append(overdue, *r.withBook(loan))
		}
	}

	sort.Slice(overdue, func(i, j int) bool {
		return overdue[i].DueDate.Before(overdue[j].DueDate)
	})
	return overdue, nil
}

func (r *MemoryLoanRepository) withBook(loan *model.Loan) *model.LoanWithBook {
	result := &model.LoanWithBook{Loan: *loan}
	if book, ok := r.books[loan.BookID]; ok {
		result.BookTitle = book.Title
		result.BookISBN = book.ISBN
	}
	return result
}
