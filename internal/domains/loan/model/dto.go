package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// IssueLoanRequest lends one copy. The due date resolves in order:
// explicit DueDate, then PeriodDays, then the configured default period.
type IssueLoanRequest struct {
	BookID           uuid.UUID  `json:"book_id"`
	BorrowerName     string     `json:"borrower_name"`
	BorrowerDocument string     `json:"borrower_document"`
	BorrowerEmail    string     `json:"borrower_email"`
	BorrowerPhone    string     `json:"borrower_phone"`
	DueDate          *time.Time `json:"due_date"`
	PeriodDays       int        `json:"period_days"`
	Notes            string     `json:"notes"`
}

func (r IssueLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, validation.By(uuidNotNil)),
		validation.Field(&r.BorrowerName, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.BorrowerDocument, validation.Required, validation.Length(1, 50)),
		validation.Field(&r.BorrowerEmail, validation.When(r.BorrowerEmail != "", is.Email)),
		validation.Field(&r.BorrowerPhone, validation.Length(0, 30)),
		validation.Field(&r.PeriodDays, validation.Min(0), validation.Max(365)),
		validation.Field(&r.Notes, validation.Length(0, 2000)),
	)
}

// ReturnLoanRequest is optional; an empty body returns the loan as of now.
type ReturnLoanRequest struct {
	ReturnDate *time.Time `json:"return_date"`
	Notes      string     `json:"notes"`
}

func (r ReturnLoanRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Notes, validation.Length(0, 2000)),
	)
}

type ListLoansQuery struct {
	Page             int    `form:"page"`
	Limit            int    `form:"limit"`
	Status           string `form:"status"`
	BookID           string `form:"book_id"`
	BorrowerDocument string `form:"borrower_document"`
	Overdue          bool   `form:"overdue"`
}

func (q ListLoansQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Status, validation.In("", StatusActive, StatusFinished)),
	)
}

func (q *ListLoansQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}

func uuidNotNil(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "must be a valid uuid")
	}
	return nil
}
