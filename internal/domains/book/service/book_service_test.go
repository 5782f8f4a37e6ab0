package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/infrastructure/metadata"
)

type stubBookRepository struct {
	deleteErr  error
	deletedIDs []uuid.UUID
}

func (s *stubBookRepository) Create(ctx context.Context, book *model.Book) error { return nil }
func (s *stubBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.BookWithAuthor, error) {
	return nil, model.ErrBookNotFound
}
func (s *stubBookRepository) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	return nil, model.ErrBookNotFound
}
func (s *stubBookRepository) List(ctx context.Context, q model.ListBooksQuery) ([]model.BookWithAuthor, int64, error) {
	return nil, 0, nil
}
func (s *stubBookRepository) Update(ctx context.Context, book *model.Book) error { return nil }
func (s *stubBookRepository) UpdateCoverURL(ctx context.Context, id uuid.UUID, coverURL string) error {
	return nil
}

func (s *stubBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

func (s *stubBookRepository) Deactivate(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubBookRepository) Activate(ctx context.Context, id uuid.UUID) error   { return nil }
func (s *stubBookRepository) GetActiveLoanCount(ctx context.Context, bookID uuid.UUID) (int64, error) {
	return 0, nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, keys ...string) error        { return nil }
func (noopCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (noopCache) Ping(ctx context.Context) error                          { return nil }

type stubMetadataClient struct {
	meta *metadata.BookMetadata
	err  error
}

func (s *stubMetadataClient) LookupISBN(ctx context.Context, isbn string) (*metadata.BookMetadata, error) {
	return s.meta, s.err
}

func TestDelete(t *testing.T) {
	t.Run("book without loans is removed", func(t *testing.T) {
		repo := &stubBookRepository{}
		svc := &bookService{repo: repo, cache: noopCache{}}

		id := uuid.New()
		require.NoError(t, svc.Delete(context.Background(), id))
		require.Len(t, repo.deletedIDs, 1)
		assert.Equal(t, id, repo.deletedIDs[0])
	})

	t.Run("loan history blocks deletion", func(t *testing.T) {
		repo := &stubBookRepository{deleteErr: model.ErrBookHasLoans}
		svc := &bookService{repo: repo, cache: noopCache{}}

		err := svc.Delete(context.Background(), uuid.New())
		assert.ErrorIs(t, err, model.ErrBookHasLoans)
	})
}

func TestPrefill(t *testing.T) {
	t.Run("known isbn", func(t *testing.T) {
		svc := &bookService{metadata: &stubMetadataClient{meta: &metadata.BookMetadata{
			Title:         "The Go Programming Language",
			PublishedYear: 2015,
			Publisher:     "Addison-Wesley",
			Pages:         380,
			CoverURL:      "https://covers.openlibrary.org/b/id/1-L.jpg",
		}}}

		prefill, err := svc.Prefill(context.Background(), "9780134190440")
		require.NoError(t, err)
		assert.True(t, prefill.Found)
		assert.Equal(t, "The Go Programming Language", prefill.Title)
		assert.Equal(t, 2015, prefill.PublishedYear)
	})

	t.Run("unknown isbn", func(t *testing.T) {
		svc := &bookService{metadata: &stubMetadataClient{}}

		prefill, err := svc.Prefill(context.Background(), "9780000000000")
		require.NoError(t, err)
		assert.False(t, prefill.Found)
	})

	t.Run("lookup failure never blocks", func(t *testing.T) {
		svc := &bookService{metadata: &stubMetadataClient{err: errors.New("timeout")}}

		prefill, err := svc.Prefill(context.Background(), "9780134190440")
		require.NoError(t, err)
		assert.False(t, prefill.Found)
	})
}
