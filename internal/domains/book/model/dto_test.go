package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validCreateRequest() CreateBookRequest {
	return CreateBookRequest{
		Title:         "The Go Programming Language",
		AuthorID:      uuid.New(),
		ISBN:          "9780134190440",
		PublishedYear: 2015,
		Pages:         380,
		Price:         decimal.RequireFromString("59.90"),
		StockTotal:    3,
	}
}

func TestCreateBookRequestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validCreateRequest().Validate())
	})

	t.Run("missing title", func(t *testing.T) {
		req := validCreateRequest()
		req.Title = ""
		assert.Error(t, req.Validate())
	})

	t.Run("nil author id", func(t *testing.T) {
		req := validCreateRequest()
		req.AuthorID = uuid.Nil
		assert.Error(t, req.Validate())
	})

	t.Run("bad isbn", func(t *testing.T) {
		req := validCreateRequest()
		req.ISBN = "not-an-isbn"
		assert.Error(t, req.Validate())
	})

	t.Run("negative price", func(t *testing.T) {
		req := validCreateRequest()
		req.Price = decimal.RequireFromString("-1")
		assert.Error(t, req.Validate())
	})

	t.Run("negative stock", func(t *testing.T) {
		req := validCreateRequest()
		req.StockTotal = -1
		assert.Error(t, req.Validate())
	})
}

func TestListBooksQueryNormalize(t *testing.T) {
	q := ListBooksQuery{Page: 0, Limit: 500}
	q.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 100, q.Limit)
}
