package model

import (
	"errors"
	"net/http"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrDuplicateISBN  = errors.New("isbn already registered")
	ErrAuthorNotFound = errors.New("author not found")
	ErrBookHasLoans   = errors.New("book has active loans")
	ErrInvalidStock   = errors.New("available stock cannot exceed total stock")
	ErrInvalidInput   = errors.New("invalid input")
)

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrDuplicateISBN):
		return "DUPLICATE_ISBN"
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, ErrBookHasLoans):
		return "BOOK_HAS_LOANS"
	case errors.Is(err, ErrInvalidStock):
		return "INVALID_STOCK"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound), errors.Is(err, ErrAuthorNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateISBN), errors.Is(err, ErrBookHasLoans):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidStock), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
