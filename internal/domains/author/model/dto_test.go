package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateAuthorRequestValidate(t *testing.T) {
	valid := CreateAuthorRequest{Name: "Ursula K. Le Guin", Email: "ursula@example.com"}
	assert.NoError(t, valid.Validate())

	missingName := valid
	missingName.Name = ""
	assert.Error(t, missingName.Validate())

	noEmail := valid
	noEmail.Email = ""
	assert.NoError(t, noEmail.Validate(), "email is optional")

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.Error(t, badEmail.Validate())
}

func TestUpsertProfileRequestValidate(t *testing.T) {
	valid := UpsertProfileRequest{
		Biography:   "Science fiction author.",
		Website:     "https://example.com",
		SocialLinks: []string{"https://social.example/ursula"},
		Awards:      []string{"Hugo Award"},
	}
	assert.NoError(t, valid.Validate())

	badWebsite := valid
	badWebsite.Website = "::not a url::"
	assert.Error(t, badWebsite.Validate())
}
