package channel

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

const (
	maxNameLen        = 80
	maxDescriptionLen = 500
	maxAvatarURLLen   = 512
	maxInitialMembers = 500
)

// CreateChannelInput holds parameters for creating a channel.
type CreateChannelInput struct {
	Name        string
	Type        domain.ChannelType
	IsPublic    bool
	Description string
	MemberIDs   []uuid.UUID
}

// Validate validates the create input. Direct conversations need exactly one
// other member; every other type needs a name.
func (i CreateChannelInput) Validate() error {
	var errs domain.FieldErrors

	if !i.Type.IsValid() {
		errs.Add("type", "unknown channel type")
	}

	name := strings.TrimSpace(i.Name)
	switch {
	case name == "" && !i.Type.IsDirect():
		errs.Add("name", "required")
	case utf8.RuneCountInString(name) > maxNameLen:
		errs.Add("name", "too long")
	}

	if utf8.RuneCountInString(i.Description) > maxDescriptionLen {
		errs.Add("description", "too long")
	}

	switch {
	case i.Type.IsDirect() && len(i.MemberIDs) != 1:
		errs.Add("member_ids", "direct conversation needs exactly one other member")
	case len(i.MemberIDs) > maxInitialMembers:
		errs.Add("member_ids", "too many members")
	}
	for _, id := range i.MemberIDs {
		if id == uuid.Nil {
			errs.Add("member_ids", "invalid id")
			break
		}
	}

	return errs.Err()
}

// UpdateChannelInput holds a partial channel update. Nil fields are unchanged.
type UpdateChannelInput struct {
	Name        *string
	Description *string
	AvatarURL   *string
	IsPublic    *bool
}

// Validate validates the update input.
func (i UpdateChannelInput) Validate() error {
	var errs domain.FieldErrors

	if i.Name != nil {
		name := strings.TrimSpace(*i.Name)
		if name == "" {
			errs.Add("name", "required")
		} else if utf8.RuneCountInString(name) > maxNameLen {
			errs.Add("name", "too long")
		}
	}
	if i.Description != nil && utf8.RuneCountInString(*i.Description) > maxDescriptionLen {
		errs.Add("description", "too long")
	}
	if i.AvatarURL != nil && *i.AvatarURL != "" {
		if len(*i.AvatarURL) > maxAvatarURLLen {
			errs.Add("avatar_url", "too long")
		} else if u, err := url.Parse(*i.AvatarURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs.Add("avatar_url", "must be an http(s) URL")
		}
	}
	if i.Name == nil && i.Description == nil && i.AvatarURL == nil && i.IsPublic == nil {
		errs.Add("input", "nothing to update")
	}

	return errs.Err()
}

func (i UpdateChannelInput) params() domain.ChannelUpdateParams {
	return domain.ChannelUpdateParams{
		Name:        i.Name,
		Description: i.Description,
		AvatarURL:   i.AvatarURL,
		IsPublic:    i.IsPublic,
	}
}
