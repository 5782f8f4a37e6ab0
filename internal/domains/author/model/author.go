package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Author is a registered catalog author.
type Author struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Nationality string     `json:"nationality,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// AuthorProfile holds the extended biography. At most one per author.
type AuthorProfile struct {
	ID          uuid.UUID      `json:"id"`
	AuthorID    uuid.UUID      `json:"author_id"`
	Biography   string         `json:"biography,omitempty"`
	PhotoURL    string         `json:"photo_url,omitempty"`
	Website     string         `json:"website,omitempty"`
	SocialLinks pq.StringArray `json:"social_links"`
	Awards      pq.StringArray `json:"awards"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// AuthorWithProfile is the detail view returned by GET /authors/:id.
type AuthorWithProfile struct {
	Author
	Profile   *AuthorProfile `json:"profile,omitempty"`
	BookCount int64          `json:"book_count"`
}
