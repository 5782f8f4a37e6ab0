package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"library-backend/internal/config"
	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
)

func newTestService(t *testing.T, now time.Time) (*loanService, *repository.MemoryLoanRepository) {
	t.Helper()

	repo := repository.NewMemoryLoanRepository()
	policy := config.LoanConfig{
		DailyFineRate:     decimal.RequireFromString("1.00"),
		DefaultPeriodDays: 14,
	}
	svc := NewLoanService(repo, policy).(*loanService)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestIssueAndReturnRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)
	bookID := repo.AddBook("The Go Programming Language", "9780134190440", 2)

	req := model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Maria Silva",
		BorrowerDocument: "12345678900",
	}
	loan, err := svc.Issue(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, model.StatusActive, loan.Status)
	assert.Equal(t, now.AddDate(0, 0, 14), loan.DueDate, "due date defaults to the configured period")
	assert.Equal(t, 1, repo.StockAvailable(bookID), "issuing takes a copy off the shelf")

	returned, err := svc.Return(context.Background(), loan.ID, model.ReturnLoanRequest{})
	require.NoError(t, err)

	assert.Equal(t, model.StatusFinished, returned.Status)
	require.NotNil(t, returned.ReturnDate)
	require.NotNil(t, returned.OverdueFine, "on-time returns carry an explicit zero fine")
	assert.True(t, returned.OverdueFine.IsZero())
	assert.Equal(t, 2, repo.StockAvailable(bookID), "returning puts the copy back")
}

func TestIssueCustomPeriod(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)
	bookID := repo.AddBook("Clean Code", "9780132350884", 1)

	loan, err := svc.Issue(context.Background(), model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Joao Souza",
		BorrowerDocument: "98765432100",
		PeriodDays:       7,
	})
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 7), loan.DueDate)
}

func TestIssueExplicitDueDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)
	bookID := repo.AddBook("Short Loan", "9780000000007", 1)

	t.Run("due date wins over period days", func(t *testing.T) {
		due := time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC)
		loan, err := svc.Issue(context.Background(), model.IssueLoanRequest{
			BookID:           bookID,
			BorrowerName:     "Maria Silva",
			BorrowerDocument: "12345678900",
			DueDate:          &due,
			PeriodDays:       30,
		})
		require.NoError(t, err)
		assert.Equal(t, due, loan.DueDate)

		_, err = svc.Return(context.Background(), loan.ID, model.ReturnLoanRequest{})
		require.NoError(t, err)
	})

	t.Run("due date before the loan date is rejected", func(t *testing.T) {
		past := now.AddDate(0, 0, -1)
		_, err := svc.Issue(context.Background(), model.IssueLoanRequest{
			BookID:           bookID,
			BorrowerName:     "Maria Silva",
			BorrowerDocument: "12345678900",
			DueDate:          &past,
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

func TestIssueOutOfStock(t *testing.T) {
	svc, repo := newTestService(t, time.Now())
	bookID := repo.AddBook("Rare Edition", "9780000000001", 1)

	req := model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "First Borrower",
		BorrowerDocument: "11111111111",
	}
	_, err := svc.Issue(context.Background(), req)
	require.NoError(t, err)

	req.BorrowerDocument = "22222222222"
	_, err = svc.Issue(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrOutOfStock)
}

func TestIssueInactiveBook(t *testing.T) {
	svc, repo := newTestService(t, time.Now())
	bookID := repo.AddBook("Withdrawn Title", "9780000000002", 3)
	repo.DeactivateBook(bookID)

	_, err := svc.Issue(context.Background(), model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Maria Silva",
		BorrowerDocument: "12345678900",
	})
	assert.ErrorIs(t, err, model.ErrBookInactive)
}

func TestIssueValidation(t *testing.T) {
	svc, _ := newTestService(t, time.Now())

	_, err := svc.Issue(context.Background(), model.IssueLoanRequest{})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestReturnOverdueFine(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, issuedAt)
	bookID := repo.AddBook("Domain-Driven Design", "9780321125217", 1)

	loan, err := svc.Issue(context.Background(), model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Maria Silva",
		BorrowerDocument: "12345678900",
		PeriodDays:       7,
	})
	require.NoError(t, err)

	// Three days past the due date at 1.00/day.
	late := loan.DueDate.AddDate(0, 0, 3)
	returned, err := svc.Return(context.Background(), loan.ID, model.ReturnLoanRequest{ReturnDate: &late})
	require.NoError(t, err)

	require.NotNil(t, returned.OverdueFine)
	assert.True(t, returned.OverdueFine.Equal(decimal.RequireFromString("3.00")),
		"expected fine 3.00, got %s", returned.OverdueFine)
}

func TestReturnTwice(t *testing.T) {
	svc, repo := newTestService(t, time.Now())
	bookID := repo.AddBook("Refactoring", "9780201485677", 1)

	loan, err := svc.Issue(context.Background(), model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Maria Silva",
		BorrowerDocument: "12345678900",
	})
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), loan.ID, model.ReturnLoanRequest{})
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), loan.ID, model.ReturnLoanRequest{})
	assert.ErrorIs(t, err, model.ErrAlreadyReturned)
	assert.Equal(t, 1, repo.StockAvailable(bookID), "a double return must not inflate stock")
}

func TestConcurrentIssueSingleCopy(t *testing.T) {
	svc, repo := newTestService(t, time.Now())
	bookID := repo.AddBook("Last Copy", "9780000000003", 1)

	const borrowers = 5
	results := make(chan error, borrowers)

	var wg sync.WaitGroup
	for i := 0; i < borrowers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.Issue(context.Background(), model.IssueLoanRequest{
				BookID:           bookID,
				BorrowerName:     "Borrower",
				BorrowerDocument: string(rune('0'+n)) + "0000000000",
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded, outOfStock int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, model.ErrOutOfStock):
			outOfStock++
		}
	}

	assert.Equal(t, 1, succeeded, "exactly one issuance may win the last copy")
	assert.Equal(t, borrowers-1, outOfStock)
	assert.Equal(t, 0, repo.StockAvailable(bookID))
}

func TestListFilters(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)
	bookID := repo.AddBook("Filtered Title", "9780000000004", 2)

	first, err := svc.Issue(context.Background(), model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Maria Silva",
		BorrowerDocument: "12345678900",
	})
	require.NoError(t, err)

	_, err = svc.Issue(context.Background(), model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Joao Souza",
		BorrowerDocument: "98765432100",
	})
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), first.ID, model.ReturnLoanRequest{})
	require.NoError(t, err)

	active, total, err := svc.List(context.Background(), model.ListLoansQuery{Status: model.StatusActive})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, active, 1)
	assert.Equal(t, "98765432100", active[0].BorrowerDocument)

	byBorrower, total, err := svc.List(context.Background(), model.ListLoansQuery{BorrowerDocument: "12345678900"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byBorrower, 1)
	assert.Equal(t, model.StatusFinished, byBorrower[0].Status)
}

func TestListOverdue(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, issuedAt)
	bookID := repo.AddBook("Overdue Title", "9780000000005", 1)

	loan, err := svc.Issue(context.Background(), model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Maria Silva",
		BorrowerDocument: "12345678900",
		PeriodDays:       7,
	})
	require.NoError(t, err)

	svc.now = func() time.Time { return loan.DueDate.AddDate(0, 0, 2) }

	overdue, err := svc.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, loan.ID, overdue[0].ID)
	assert.Equal(t, "Overdue Title", overdue[0].BookTitle)
}

func TestOverdueFilterMatchesOverdueListing(t *testing.T) {
	issuedAt := time.Now().Add(-3 * time.Hour)
	svc, repo := newTestService(t, issuedAt)
	bookID := repo.AddBook("Two Hours Late", "9780000000008", 1)

	// Due two hours ago: past due on the clock but zero whole days late.
	due := time.Now().Add(-2 * time.Hour)
	loan, err := svc.Issue(context.Background(), model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Maria Silva",
		BorrowerDocument: "12345678900",
		DueDate:          &due,
	})
	require.NoError(t, err)

	svc.now = time.Now

	fromScan, err := svc.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, fromScan, 1)

	fromFilter, total, err := svc.List(context.Background(), model.ListLoansQuery{Overdue: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "the overdue list filter must agree with the overdue scan")
	require.Len(t, fromFilter, 1)
	assert.Equal(t, loan.ID, fromFilter[0].ID)
}

func TestExportXLSX(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc, repo := newTestService(t, now)
	bookID := repo.AddBook("Exported Title", "9780000000006", 1)

	loan, err := svc.Issue(context.Background(), model.IssueLoanRequest{
		BookID:           bookID,
		BorrowerName:     "Maria Silva",
		BorrowerDocument: "12345678900",
	})
	require.NoError(t, err)

	data, err := svc.ExportXLSX(context.Background(), model.ListLoansQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellValue("Loans", "A2")
	require.NoError(t, err)
	assert.Equal(t, loan.ID.String(), id)

	title, err := f.GetCellValue("Loans", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Exported Title", title)

	status, err := f.GetCellValue("Loans", "I2")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, status)
}
