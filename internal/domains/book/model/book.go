package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Book is a catalog entry. StockAvailable counts copies on the shelf;
// StockTotal counts copies owned. 0 <= StockAvailable <= StockTotal always
// holds.
type Book struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	AuthorID       uuid.UUID       `json:"author_id"`
	ISBN           string          `json:"isbn"`
	PublishedYear  int             `json:"published_year,omitempty"`
	Publisher      string          `json:"publisher,omitempty"`
	Genre          string          `json:"genre,omitempty"`
	Edition        string          `json:"edition,omitempty"`
	Pages          int             `json:"pages,omitempty"`
	Language       string          `json:"language,omitempty"`
	Synopsis       string          `json:"synopsis,omitempty"`
	CoverURL       string          `json:"cover_url,omitempty"`
	Price          decimal.Decimal `json:"price"`
	StockAvailable int             `json:"stock_available"`
	StockTotal     int             `json:"stock_total"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BookWithAuthor is the list/detail view including the author's name.
type BookWithAuthor struct {
	Book
	AuthorName string `json:"author_name"`
}
