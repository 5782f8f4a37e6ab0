package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/infrastructure/metadata"
	"library-backend/pkg/cache"
)

type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type ImageProcessor interface {
	ValidateImage(data []byte) error
	Normalize(data []byte, maxDim int) ([]byte, error)
}

// MetadataClient looks up book metadata by ISBN. A nil result with a nil
// error means the ISBN is unknown.
type MetadataClient interface {
	LookupISBN(ctx context.Context, isbn string) (*metadata.BookMetadata, error)
}

type bookService struct {
	repo      repository.BookRepository
	cache     cache.Cache
	storage   Storage
	processor ImageProcessor
	metadata  MetadataClient
}

const (
	bookCacheTTL    = 10 * time.Minute
	bookCacheKeyFmt = "book:detail:%s"
	bookListPattern = "books:list:*"
	bookCoverMaxDim = 1200
)

func NewBookService(repo repository.BookRepository, c cache.Cache, storage Storage, processor ImageProcessor, meta MetadataClient) BookService {
	return &bookService{repo: repo, cache: c, storage: storage, processor: processor, metadata: meta}
}

func (s *bookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	book := &model.Book{
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		ISBN:          req.ISBN,
		PublishedYear: req.PublishedYear,
		Publisher:     req.Publisher,
		Genre:         req.Genre,
		Edition:       req.Edition,
		Pages:         req.Pages,
		Language:      req.Language,
		Synopsis:      req.Synopsis,
		Price:         req.Price,
		StockTotal:    req.StockTotal,
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	s.invalidateLists(ctx)
	log.Info().Str("book_id", book.ID.String()).Str("isbn", book.ISBN).Msg("book created")
	return book, nil
}

func (s *bookService) GetByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error) {
	cacheKey := fmt.Sprintf(bookCacheKeyFmt, id)

	var cached model.BookWithAuthor
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, book, bookCacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache book")
	}
	return book, nil
}

func (s *bookService) List(ctx context.Context, query model.ListBooksQuery) ([]model.BookWithAuthor, int64, error) {
	query.Normalize()
	return s.repo.List(ctx, query)
}

func (s *bookService) Update(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	book := current.Book

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.AuthorID != nil {
		book.AuthorID = *req.AuthorID
	}
	if req.PublishedYear != nil {
		book.PublishedYear = *req.PublishedYear
	}
	if req.Publisher != nil {
		book.Publisher = *req.Publisher
	}
	if req.Genre != nil {
		book.Genre = *req.Genre
	}
	if req.Edition != nil {
		book.Edition = *req.Edition
	}
	if req.Pages != nil {
		book.Pages = *req.Pages
	}
	if req.Language != nil {
		book.Language = *req.Language
	}
	if req.Synopsis != nil {
		book.Synopsis = *req.Synopsis
	}
	if req.Price != nil {
		book.Price = *req.Price
	}
	if req.StockTotal != nil {
		loaned := book.StockTotal - book.StockAvailable
		if *req.StockTotal < loaned {
			return nil, fmt.Errorf("%w: %d copies are currently on loan", model.ErrInvalidStock, loaned)
		}
		book.StockTotal = *req.StockTotal
	}

	if err := s.repo.Update(ctx, &book); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return &book, nil
}

// Delete removes a book for good. Only books with no loan history at all
// can go; anything ever lent stays and gets deactivated instead.
func (s *bookService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	log.Info().Str("book_id", id.String()).Msg("book deleted")
	return nil
}

// Deactivate soft-deletes a book. Books with copies still out stay active
// until every loan is returned.
func (s *bookService) Deactivate(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.GetActiveLoanCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d active loans", model.ErrBookHasLoans, count)
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	log.Info().Str("book_id", id.String()).Msg("book deactivated")
	return nil
}

func (s *bookService) Activate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Activate(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *bookService) UploadCover(ctx context.Context, id uuid.UUID, data []byte) (string, error) {
	if err := s.processor.ValidateImage(data); err != nil {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return "", err
	}

	normalized, err := s.processor.Normalize(data, bookCoverMaxDim)
	if err != nil {
		return "", fmt.Errorf("%w: %s", model.ErrInvalidInput, err.Error())
	}

	key := fmt.Sprintf("books/%s/cover-%s.jpg", id, uuid.New().String()[:8])
	url, err := s.storage.Upload(ctx, key, normalized, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload cover: %w", err)
	}

	if err := s.repo.UpdateCoverURL(ctx, id, url); err != nil {
		return "", err
	}

	s.invalidate(ctx, id)
	log.Info().Str("book_id", id.String()).Str("url", url).Msg("book cover uploaded")
	return url, nil
}

// Prefill fetches metadata for an ISBN. Lookup failures are reported as an
// empty prefill, never as an error, so catalog entry is never blocked on a
// third party.
func (s *bookService) Prefill(ctx context.Context, isbn string) (*model.PrefillResponse, error) {
	meta, err := s.metadata.LookupISBN(ctx, isbn)
	if err != nil {
		log.Warn().Err(err).Str("isbn", isbn).Msg("metadata lookup failed")
		return &model.PrefillResponse{Found: false}, nil
	}
	if meta == nil {
		return &model.PrefillResponse{Found: false}, nil
	}

	return &model.PrefillResponse{
		Title:         meta.Title,
		PublishedYear: meta.PublishedYear,
		Publisher:     meta.Publisher,
		Pages:         meta.Pages,
		CoverURL:      meta.CoverURL,
		Found:         true,
	}, nil
}

func (s *bookService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, fmt.Sprintf(bookCacheKeyFmt, id)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate book cache")
	}
	s.invalidateLists(ctx)
}

func (s *bookService) invalidateLists(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, bookListPattern); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate book list cache")
	}
}
