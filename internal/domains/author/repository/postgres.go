package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/author/model"
	"library-backend/pkg/database"
)

type postgresAuthorRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAuthorRepository(pool *pgxpool.Pool) AuthorRepository {
	return &postgresAuthorRepository{pool: pool}
}

const authorColumns = "id, name, email, birth_date, nationality, created_at, updated_at"

func scanAuthor(row pgx.Row, a *model.Author) error {
	return row.Scan(&a.ID, &a.Name, &a.Email, &a.BirthDate, &a.Nationality, &a.CreatedAt, &a.UpdatedAt)
}

func (r *postgresAuthorRepository) Create(ctx context.Context, author *model.Author) error {
	query := `
		INSERT INTO authors (name, email, birth_date, nationality)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + authorColumns

	row := r.pool.QueryRow(ctx, query, author.Name, author.Email, author.BirthDate, author.Nationality)
	if err := scanAuthor(row, author); err != nil {
		return mapAuthorError(err)
	}
	return nil
}

func (r *postgresAuthorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	var author model.Author
	if err := scanAuthor(r.pool.QueryRow(ctx, query, id), &author); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return &author, nil
}

func (r *postgresAuthorRepository) List(ctx context.Context, q model.ListAuthorsQuery) ([]model.Author, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if q.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+q.Search+"%")
		argIdx++
	}
	if q.Nationality != "" {
		conditions = append(conditions, fmt.Sprintf("nationality = $%d", argIdx))
		args = append(args, q.Nationality)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM authors WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM authors WHERE %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		authorColumns, where, argIdx, argIdx+1,
	)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	authors := make([]model.Author, 0)
	for rows.Next() {
		var a model.Author
		if err := scanAuthor(rows, &a); err != nil {
			return nil, 0, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate authors: %w", err)
	}

	return authors, total, nil
}

func (r *postgresAuthorRepository) Update(ctx context.Context, author *model.Author) error {
	query := `
		UPDATE authors
		SET name = $2, email = $3, birth_date = $4, nationality = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + authorColumns

	row := r.pool.QueryRow(ctx, query,
		author.ID, author.Name, author.Email, author.BirthDate, author.Nationality)
	if err := scanAuthor(row, author); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrAuthorNotFound
		}
		return mapAuthorError(err)
	}
	return nil
}

// Delete removes the author and their profile in one transaction. Authors
// that still own books are protected by the FK on books.author_id.
func (r *postgresAuthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM author_profiles WHERE author_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete author profile: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
		if err != nil {
			return mapAuthorError(err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrAuthorNotFound
		}
		return nil
	})
}

func (r *postgresAuthorRepository) GetBookCount(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM books WHERE author_id = $1`, authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return count, nil
}

const profileColumns = "id, author_id, biography, photo_url, website, social_links, awards, created_at, updated_at"

func scanProfile(row pgx.Row, p *model.AuthorProfile) error {
	return row.Scan(&p.ID, &p.AuthorID, &p.Biography, &p.PhotoURL, &p.Website,
		&p.SocialLinks, &p.Awards, &p.CreatedAt, &p.UpdatedAt)
}

func (r *postgresAuthorRepository) GetProfile(ctx context.Context, authorID uuid.UUID) (*model.AuthorProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM author_profiles WHERE author_id = $1`

	var profile model.AuthorProfile
	if err := scanProfile(r.pool.QueryRow(ctx, query, authorID), &profile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get author profile: %w", err)
	}
	return &profile, nil
}

// UpsertProfile creates or replaces the author's profile. The unique index
// on author_id keeps the relation 1:1.
func (r *postgresAuthorRepository) UpsertProfile(ctx context.Context, profile *model.AuthorProfile) error {
	query := `
		INSERT INTO author_profiles (author_id, biography, photo_url, website, social_links, awards)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (author_id) DO UPDATE
		SET biography = EXCLUDED.biography,
		    website = EXCLUDED.website,
		    social_links = EXCLUDED.social_links,
		    awards = EXCLUDED.awards,
		    updated_at = NOW()
		RETURNING ` + profileColumns

	row := r.pool.QueryRow(ctx, query,
		profile.AuthorID, profile.Biography, profile.PhotoURL, profile.Website,
		profile.SocialLinks, profile.Awards)
	if err := scanProfile(row, profile); err != nil {
		return mapAuthorError(err)
	}
	return nil
}

func (r *postgresAuthorRepository) UpdatePhotoURL(ctx context.Context, authorID uuid.UUID, photoURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE author_profiles SET photo_url = $2, updated_at = NOW() WHERE author_id = $1`,
		authorID, photoURL)
	if err != nil {
		return fmt.Errorf("failed to update photo url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

func (r *postgresAuthorRepository) DeleteProfile(ctx context.Context, authorID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM author_profiles WHERE author_id = $1`, authorID)
	if err != nil {
		return fmt.Errorf("failed to delete author profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

// mapAuthorError translates Postgres constraint violations into domain errors.
func mapAuthorError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "email") {
				return model.ErrDuplicateEmail
			}
			return model.ErrProfileExists
		case "23503": // foreign_key_violation
			if strings.Contains(pgErr.ConstraintName, "books") {
				return model.ErrAuthorHasBooks
			}
			return model.ErrAuthorNotFound
		}
	}
	return fmt.Errorf("database error: %w", err)
}
