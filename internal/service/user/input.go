package user

import (
	"net/url"
	"unicode/utf8"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

const (
	maxDisplayNameLen = 100
	maxAvatarURLLen   = 512
	maxSearchLen      = 100
	maxProfileBatch   = 200
)

// UpdateProfileInput holds parameters for profile update operation.
// Nil fields are left unchanged; an empty AvatarURL clears the avatar.
type UpdateProfileInput struct {
	DisplayName *string
	AvatarURL   *string
}

// Validate validates the update profile input.
func (i UpdateProfileInput) Validate() error {
	var errs domain.FieldErrors

	if i.DisplayName != nil {
		if *i.DisplayName == "" {
			errs.Add("display_name", "required")
		} else if utf8.RuneCountInString(*i.DisplayName) > maxDisplayNameLen {
			errs.Add("display_name", "too long")
		}
	}

	if i.AvatarURL != nil && *i.AvatarURL != "" {
		if len(*i.AvatarURL) > maxAvatarURLLen {
			errs.Add("avatar_url", "too long")
		} else if u, err := url.Parse(*i.AvatarURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs.Add("avatar_url", "must be an http(s) URL")
		}
	}

	return errs.Err()
}

// SearchProfilesInput holds parameters for the member picker search.
type SearchProfilesInput struct {
	Query string
	Limit int
}

// Validate validates the search input.
func (i SearchProfilesInput) Validate() error {
	var errs domain.FieldErrors

	if utf8.RuneCountInString(i.Query) > maxSearchLen {
		errs.Add("query", "too long")
	}
	if i.Limit < 0 {
		errs.Add("limit", "must not be negative")
	}

	return errs.Err()
}
