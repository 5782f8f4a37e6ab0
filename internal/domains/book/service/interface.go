package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

type BookService interface {
	Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error)
	List(ctx context.Context, query model.ListBooksQuery) ([]model.BookWithAuthor, int64, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error

	UploadCover(ctx context.Context, id uuid.UUID, data []byte) (string, error)
	Prefill(ctx context.Context, isbn string) (*model.PrefillResponse, error)
}
