package chatclient

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// DialogTab is a page of the new channel dialog.
type DialogTab string

const (
	DialogTabChannel DialogTab = "channel"
	DialogTabDirect  DialogTab = "direct"
	DialogTabGroup   DialogTab = "group"
)

// ErrSubmitting is returned when Submit is called while a submission is in
// flight.
var ErrSubmitting = errors.New("chatclient: submission in progress")

// CreateChannelFunc receives the dialog result.
type CreateChannelFunc func(ctx context.Context, name string, typ domain.ChannelType, isPublic bool, description string, memberIDs []uuid.UUID) error

// SessionCreateChannel adapts Session.CreateChannel to a dialog callback.
func SessionCreateChannel(s *Session) CreateChannelFunc {
	return func(ctx context.Context, name string, typ domain.ChannelType, isPublic bool, description string, memberIDs []uuid.UUID) error {
		_, err := s.CreateChannel(ctx, CreateChannelInput{
			Name:        name,
			Type:        typ,
			IsPublic:    isPublic,
			Description: description,
			MemberIDs:   memberIDs,
		})
		return err
	}
}

type profileSearcher interface {
	SearchProfiles(ctx context.Context, query string, limit int) ([]domain.Profile, error)
}

const profileSearchLimit = 20

var channelTabTypes = []domain.ChannelType{
	domain.ChannelTypePublic,
	domain.ChannelTypePrivate,
	domain.ChannelTypeProject,
	domain.ChannelTypeShift,
	domain.ChannelTypeHRConfidential,
}

// NewChannelDialog is the channel creation wizard with a channel, a direct
// message and a group tab.
type NewChannelDialog struct {
	search   profileSearcher
	self     uuid.UUID
	onCreate CreateChannelFunc

	mu          sync.Mutex
	tab         DialogTab
	name        string
	typ         domain.ChannelType
	description string
	selected    []domain.Profile
	submitting  bool
}

// NewNewChannelDialog creates a dialog. self is excluded from search results.
func NewNewChannelDialog(search profileSearcher, self uuid.UUID, onCreate CreateChannelFunc) *NewChannelDialog {
	return &NewChannelDialog{
		search:   search,
		self:     self,
		onCreate: onCreate,
		tab:      DialogTabChannel,
		typ:      domain.ChannelTypePublic,
	}
}

func (d *NewChannelDialog) SetTab(t DialogTab) {
	d.mu.Lock()
	d.tab = t
	d.mu.Unlock()
}

func (d *NewChannelDialog) SetName(name string) {
	d.mu.Lock()
	d.name = name
	d.mu.Unlock()
}

func (d *NewChannelDialog) SetDescription(desc string) {
	d.mu.Lock()
	d.description = desc
	d.mu.Unlock()
}

// SetType picks the type on the channel tab.
func (d *NewChannelDialog) SetType(t domain.ChannelType) error {
	for _, allowed := range channelTabTypes {
		if t == allowed {
			d.mu.Lock()
			d.typ = t
			d.mu.Unlock()
			return nil
		}
	}
	return domain.NewValidationError("type", "not a channel type: "+t.String())
}

// SearchProfiles lists candidate members matching query.
func (d *NewChannelDialog) SearchProfiles(ctx context.Context, query string) ([]domain.Profile, error) {
	found, err := d.search.SearchProfiles(ctx, strings.TrimSpace(query), profileSearchLimit)
	if err != nil {
		return nil, err
	}
	out := found[:0:0]
	for _, p := range found {
		if p.UserID != d.self {
			out = append(out, p)
		}
	}
	return out, nil
}

// ToggleMember selects or deselects a profile. Selection order is kept.
func (d *NewChannelDialog) ToggleMember(p domain.Profile) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.selected {
		if s.UserID == p.UserID {
			d.selected = append(d.selected[:i:i], d.selected[i+1:]...)
			return
		}
	}
	d.selected = append(d.selected, p)
}

// Selected returns the selected profiles in selection order.
func (d *NewChannelDialog) Selected() []domain.Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Profile(nil), d.selected...)
}

// CanSubmit gates the submit button.
func (d *NewChannelDialog) CanSubmit() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.canSubmitLocked()
}

func (d *NewChannelDialog) canSubmitLocked() bool {
	if d.submitting {
		return false
	}
	hasName := strings.TrimSpace(d.name) != ""
	switch d.tab {
	case DialogTabChannel:
		return hasName
	case DialogTabDirect:
		return len(d.selected) == 1
	case DialogTabGroup:
		return hasName && len(d.selected) > 0
	}
	return false
}

// Submit calls the create callback once with the values of the current tab
// and resets the form on success.
func (d *NewChannelDialog) Submit(ctx context.Context) error {
	d.mu.Lock()
	if d.submitting {
		d.mu.Unlock()
		return ErrSubmitting
	}
	if !d.canSubmitLocked() {
		d.mu.Unlock()
		return domain.NewValidationError(string(d.tab), "incomplete")
	}

	ids := make([]uuid.UUID, len(d.selected))
	for i, p := range d.selected {
		ids[i] = p.UserID
	}

	var (
		name     string
		typ      domain.ChannelType
		isPublic bool
		desc     string
	)
	switch d.tab {
	case DialogTabChannel:
		name, typ, isPublic, desc = strings.TrimSpace(d.name), d.typ, d.typ == domain.ChannelTypePublic, strings.TrimSpace(d.description)
	case DialogTabDirect:
		name, typ = d.selected[0].DisplayName, domain.ChannelTypeDirect
	case DialogTabGroup:
		name, typ = strings.TrimSpace(d.name), domain.ChannelTypeGroup
	}
	d.submitting = true
	d.mu.Unlock()

	err := d.onCreate(ctx, name, typ, isPublic, desc, ids)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.submitting = false
	if err != nil {
		return err
	}
	d.name, d.description, d.selected = "", "", nil
	d.typ = domain.ChannelTypePublic
	return nil
}
