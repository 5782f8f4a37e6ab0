package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateAuthorRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	BirthDate   *time.Time `json:"birth_date"`
	Nationality string     `json:"nationality"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.When(r.Email != "", is.Email)),
		validation.Field(&r.Nationality, validation.Length(0, 100)),
	)
}

type UpdateAuthorRequest struct {
	Name        *string    `json:"name"`
	Email       *string    `json:"email"`
	BirthDate   *time.Time `json:"birth_date"`
	Nationality *string    `json:"nationality"`
}

func (r UpdateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Email, validation.When(r.Email != nil, is.Email)),
		validation.Field(&r.Nationality, validation.Length(0, 100)),
	)
}

type UpsertProfileRequest struct {
	Biography   string   `json:"biography"`
	Website     string   `json:"website"`
	SocialLinks []string `json:"social_links"`
	Awards      []string `json:"awards"`
}

func (r UpsertProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Biography, validation.Length(0, 10000)),
		validation.Field(&r.Website, validation.When(r.Website != "", is.URL)),
		validation.Field(&r.SocialLinks, validation.Each(validation.Required, validation.Length(1, 500))),
		validation.Field(&r.Awards, validation.Each(validation.Required, validation.Length(1, 500))),
	)
}

type ListAuthorsQuery struct {
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
	Search      string `form:"search"`
	Nationality string `form:"nationality"`
}

// Normalize applies pagination defaults and caps.
func (q *ListAuthorsQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
}
