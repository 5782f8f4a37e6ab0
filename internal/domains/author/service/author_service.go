package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/author/model"
	"library-backend/internal/domains/author/repository"
	"library-backend/pkg/cache"
)

// Storage is the slice of object storage the author service needs for
// profile photos.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageProcessor validates and normalizes uploaded photos.
type ImageProcessor interface {
	ValidateImage(data []byte) error
	Normalize(data []byte, maxDim int) ([]byte, error)
}

type authorService struct {
	repo      repository.AuthorRepository
	cache     cache.Cache
	storage   Storage
	processor ImageProcessor
}

const (
	authorCacheTTL    = 10 * time.Minute
	authorCacheKeyFmt = "author:detail:%s"
	authorListPattern = "authors:list:*"
	authorPhotoMaxDim = 800
)

func NewAuthorService(repo repository.AuthorRepository, c cache.Cache, storage Storage, processor ImageProcessor) AuthorService {
	return &authorService{repo: repo, cache: c, storage: storage, processor: processor}
}

func (s *authorService) Create(ctx context.Context, req model.CreateAuthorRequest) (*model.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	author := &model.Author{
		Name:        req.Name,
		Email:       req.Email,
		BirthDate:   req.BirthDate,
		Nationality: req.Nationality,
	}
	if err := s.repo.Create(ctx, author); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	log.Info().Str("author_id", author.ID.String()).Str("name", author.Name).Msg("author created")
	return author, nil
}

func (s *authorService) GetByID(ctx context.Context, id uuid.UUID) (*model.AuthorWithProfile, error) {
	cacheKey := fmt.Sprintf(authorCacheKeyFmt, id)

	var cached model.AuthorWithProfile
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	author, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &model.AuthorWithProfile{Author: *author}

	profile, err := s.repo.GetProfile(ctx, id)
	if err == nil {
		result.Profile = profile
	} else if !errors.Is(err, model.ErrProfileNotFound) {
		return nil, err
	}

	count, err := s.repo.GetBookCount(ctx, id)
	if err != nil {
		return nil, err
	}
	result.BookCount = count

	if err := s.cache.Set(ctx, cacheKey, result, authorCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache author")
	}
	return result, nil
}

func (s *authorService) List(ctx context.Context, query model.ListAuthorsQuery) ([]model.Author, int64, error) {
	query.Normalize()
	return s.repo.List(ctx, query)
}

func (s *authorService) Update(ctx context.Context, id uuid.UUID, req model.UpdateAuthorRequest) (*model.Author, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	author, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		author.Name = *req.Name
	}
	if req.Email != nil {
		author.Email = *req.Email
	}
	if req.BirthDate != nil {
		author.BirthDate = req.BirthDate
	}
	if req.Nationality != nil {
		author.Nationality = *req.Nationality
	}

	if err := s.repo.Update(ctx, author); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return author, nil
}

func (s *authorService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	log.Info().Str("author_id", id.String()).Msg("author deleted")
	return nil
}

func (s *authorService) UpsertProfile(ctx context.Context, authorID uuid.UUID, req model.UpsertProfileRequest) (*model.AuthorProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	if _, err := s.repo.GetByID(ctx, authorID); err != nil {
		return nil, err
	}

	profile := &model.AuthorProfile{
		AuthorID:    authorID,
		Biography:   req.Biography,
		Website:     req.Website,
		SocialLinks: req.SocialLinks,
		Awards:      req.Awards,
	}
	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}

	s.invalidate(ctx, authorID)
	return profile, nil
}

func (s *authorService) UploadPhoto(ctx context.Context, authorID uuid.UUID, data []byte) (string, error) {
	if err := s.processor.ValidateImage(data); err != nil {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	if _, err := s.repo.GetProfile(ctx, authorID); err != nil {
		return "", err
	}

	normalized, err := s.processor.Normalize(data, authorPhotoMaxDim)
	if err != nil {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	key := fmt.Sprintf("authors/%s/photo-%s.jpg", authorID, uuid.New().String()[:8])
	url, err := s.storage.Upload(ctx, key, normalized, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	if err := s.repo.UpdatePhotoURL(ctx, authorID, url); err != nil {
		return "", err
	}

	s.invalidate(ctx, authorID)
	log.Info().Str("author_id", authorID.String()).Str("url", url).Msg("author photo uploaded")
	return url, nil
}

func (s *authorService) DeleteProfile(ctx context.Context, authorID uuid.UUID) error {
	if err := s.repo.DeleteProfile(ctx, authorID); err != nil {
		return err
	}
	s.invalidate(ctx, authorID)
	return nil
}

func (s *authorService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, fmt.Sprintf(authorCacheKeyFmt, id)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate author cache")
	}
	s.invalidateLists(ctx)
}

func (s *authorService) invalidateLists(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, authorListPattern); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate author list cache")
	}
}
