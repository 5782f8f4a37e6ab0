package model

import (
	"errors"
	"net/http"
)

var (
	ErrAuthorNotFound  = errors.New("author not found")
	ErrDuplicateEmail  = errors.New("author email already registered")
	ErrAuthorHasBooks  = errors.New("author still has books in the catalog")
	ErrProfileNotFound = errors.New("author profile not found")
	ErrProfileExists   = errors.New("author already has a profile")
	ErrInvalidInput    = errors.New("invalid input")
)

// ToErrorCode maps a domain error to the stable code used in API responses.
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthorNotFound):
		return "AUTHOR_NOT_FOUND"
	case errors.Is(err, ErrDuplicateEmail):
		return "DUPLICATE_EMAIL"
	case errors.Is(err, ErrAuthorHasBooks):
		return "AUTHOR_HAS_BOOKS"
	case errors.Is(err, ErrProfileNotFound):
		return "PROFILE_NOT_FOUND"
	case errors.Is(err, ErrProfileExists):
		return "PROFILE_EXISTS"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus maps a domain error to an HTTP status code.
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthorNotFound), errors.Is(err, ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrProfileExists), errors.Is(err, ErrAuthorHasBooks):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
