package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan statuses. A loan is active from issue until return; returning it
// finishes it permanently.
const (
	StatusActive   = "active"
	StatusFinished = "finished"
)

// Loan records one copy of a book lent to a borrower.
type Loan struct {
	ID               uuid.UUID        `json:"id"`
	BookID           uuid.UUID        `json:"book_id"`
	BorrowerName     string           `json:"borrower_name"`
	BorrowerDocument string           `json:"borrower_document"`
	BorrowerEmail    string           `json:"borrower_email,omitempty"`
	BorrowerPhone    string           `json:"borrower_phone,omitempty"`
	LoanDate         time.Time        `json:"loan_date"`
	DueDate          time.Time        `json:"due_date"`
	ReturnDate       *time.Time       `json:"return_date,omitempty"`
	OverdueFine      *decimal.Decimal `json:"overdue_fine,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	Status           string           `json:"status"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// LoanWithBook is the list/detail view including the book's title and ISBN.
type LoanWithBook struct {
	Loan
	BookTitle string `json:"book_title"`
	BookISBN  string `json:"book_isbn"`
}

// IsOverdue reports whether an active loan is past due at the given time.
// This is a strict timestamp comparison; day truncation applies only to the
// fine math in OverdueDays.
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.Status == StatusActive && now.After(l.DueDate)
}

// OverdueDays counts whole days between the due date and the return date.
// Same-day and early returns count zero. Partial days do not count: a
// return any time on the day after the due date is one day overdue.
func OverdueDays(dueDate, returnDate time.Time) int {
	due := truncateToDay(dueDate)
	ret := truncateToDay(returnDate)
	if !ret.After(due) {
		return 0
	}
	return int(ret.Sub(due).Hours() / 24)
}

// ComputeFine charges dailyRate per whole overdue day. On-time returns get
// a zero fine, never a missing one.
func ComputeFine(dueDate, returnDate time.Time, dailyRate decimal.Decimal) decimal.Decimal {
	days := OverdueDays(dueDate, returnDate)
	if days <= 0 {
		return decimal.Zero
	}
	return dailyRate.Mul(decimal.NewFromInt(int64(days)))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
