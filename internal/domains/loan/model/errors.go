package model

import (
	"errors"
	"net/http"
)

var (
	ErrLoanNotFound    = errors.New("loan not found")
	ErrBookNotFound    = errors.New("book not found")
	ErrBookInactive    = errors.New("book is not available for loan")
	ErrOutOfStock      = errors.New("no copies available")
	ErrAlreadyReturned = errors.New("loan already returned")
	ErrInvalidInput    = errors.New("invalid input")
)

func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrLoanNotFound):
		return "LOAN_NOT_FOUND"
	case errors.Is(err, ErrBookNotFound):
		return "BOOK_NOT_FOUND"
	case errors.Is(err, ErrBookInactive):
		return "BOOK_INACTIVE"
	case errors.Is(err, ErrOutOfStock):
		return "OUT_OF_STOCK"
	case errors.Is(err, ErrAlreadyReturned):
		return "ALREADY_RETURNED"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrLoanNotFound), errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOutOfStock), errors.Is(err, ErrAlreadyReturned), errors.Is(err, ErrBookInactive):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
