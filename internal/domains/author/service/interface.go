package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/author/model"
)

type AuthorService interface {
	Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.AuthorWithProfile, error)
	List(ctx context.Context, query model.ListAuthorsQuery) ([]model.Author, int64, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.Author, error)
	Delete(ctx context.Context, id uuid.UUID) error

	UpsertProfile(ctx context.Context, authorID uuid.UUID, req model.UpsertProfileRequest) (*model.AuthorProfile, error)
	UploadPhoto(ctx context.Context, authorID uuid.UUID, data []byte) (string, error)
	DeleteProfile(ctx context.Context, authorID uuid.UUID) error
}
