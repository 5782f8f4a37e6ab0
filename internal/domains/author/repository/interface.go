package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/author/model"
)

type AuthorRepository interface {
	Create(ctx context.Context, author *model.Author) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)
	List(ctx context.Context, query model.ListAuthorsQuery) ([]model.Author, int64, error)
	Update(ctx context.Context, author *model.Author) error
	Delete(ctx context.Context, id uuid.UUID) error

	GetBookCount(ctx context.Context, authorID uuid.UUID) (int64, error)

	GetProfile(ctx context.Context, authorID uuid.UUID) (*model.AuthorProfile, error)
	UpsertProfile(ctx context.Context, profile *model.AuthorProfile) error
	UpdatePhotoURL(ctx context.Context, authorID uuid.UUID, photoURL string) error
	DeleteProfile(ctx context.Context, authorID uuid.UUID) error
}
