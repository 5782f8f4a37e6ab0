package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error)
	GetByISBN(ctx context.Context, isbn string) (*model.Book, error)
	List(ctx context.Context, query model.ListBooksQuery) ([]model.BookWithAuthor, int64, error)
	Update(ctx context.Context, book *model.Book) error
	UpdateCoverURL(ctx context.Context, id uuid.UUID, coverURL string) error

	// Delete removes the book row. Fails with ErrBookHasLoans while any
	// loan, active or finished, still references it.
	Delete(ctx context.Context, id uuid.UUID) error

	// Deactivate soft-deletes the book so loan history stays intact.
	Deactivate(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error

	GetActiveLoanCount(ctx context.Context, bookID uuid.UUID) (int64, error)
}
