package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateBookRequest struct {
	Title         string          `json:"title"`
	AuthorID      uuid.UUID       `json:"author_id"`
	ISBN          string          `json:"isbn"`
	PublishedYear int             `json:"published_year"`
	Publisher     string          `json:"publisher"`
	Genre         string          `json:"genre"`
	Edition       string          `json:"edition"`
	Pages         int             `json:"pages"`
	Language      string          `json:"language"`
	Synopsis      string          `json:"synopsis"`
	Price         decimal.Decimal `json:"price"`
	StockTotal    int             `json:"stock_total"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.AuthorID, validation.Required, validation.By(uuidNotNil)),
		validation.Field(&r.ISBN, validation.Required, is.ISBN),
		validation.Field(&r.PublishedYear, validation.Min(0), validation.Max(time.Now().Year()+1)),
		validation.Field(&r.Pages, validation.Min(0)),
		validation.Field(&r.StockTotal, validation.Min(0)),
		validation.Field(&r.Price, validation.By(decimalNotNegative)),
	)
}

type UpdateBookRequest struct {
	Title         *string          `json:"title"`
	AuthorID      *uuid.UUID       `json:"author_id"`
	PublishedYear *int             `json:"published_year"`
	Publisher     *string          `json:"publisher"`
	Genre         *string          `json:"genre"`
	Edition       *string          `json:"edition"`
	Pages         *int             `json:"pages"`
	Language      *string          `json:"language"`
	Synopsis      *string          `json:"synopsis"`
	Price         *decimal.Decimal `json:"price"`
	StockTotal    *int             `json:"stock_total"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
		validation.Field(&r.PublishedYear, validation.Min(0), validation.Max(time.Now().Year()+1)),
		validation.Field(&r.Pages, validation.Min(0)),
		validation.Field(&r.StockTotal, validation.Min(0)),
	)
}

type ListBooksQuery struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Genre    string `form:"genre"`
	AuthorID string `form:"author_id"`
	Active   *bool  `form:"active"`
	InStock  bool   `form:"in_stock"`
}

func (q *ListBooksQuery) Normalize() {
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

// PrefillResponse carries metadata fetched from Open Library so the client
// can pre-fill the create form.
type PrefillResponse struct {
	Title         string `json:"title,omitempty"`
	PublishedYear int    `json:"published_year,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	Pages         int    `json:"pages,omitempty"`
	CoverURL      string `json:"cover_url,omitempty"`
	Found         bool   `json:"found"`
}

func uuidNotNil(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "must be a valid uuid")
	}
	return nil
}

func decimalNotNegative(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok || d.IsNegative() {
		return validation.NewError("validation_decimal", "must not be negative")
	}
	return nil
}
