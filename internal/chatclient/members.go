package chatclient

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// MembersPanel lists and manages the members of one channel.
// CanManage is a UX hint; the server enforces roles.
type MembersPanel struct {
	session   *Session
	channelID uuid.UUID
}

// NewMembersPanel creates the panel for channelID.
func NewMembersPanel(session *Session, channelID uuid.UUID) *MembersPanel {
	return &MembersPanel{session: session, channelID: channelID}
}

// Load fetches the member list.
func (p *MembersPanel) Load(ctx context.Context) error {
	members, err := p.session.Backend().ListMembers(ctx, p.channelID)
	if err != nil {
		return p.session.fail("LoadMembers", err)
	}
	p.session.Store().Dispatch(MembersLoaded{ChannelID: p.channelID, Members: members})
	return nil
}

// Members returns the cached member list.
func (p *MembersPanel) Members() []domain.ChannelMember {
	return p.session.Store().Members(p.channelID)
}

// Add adds users and reloads the list.
func (p *MembersPanel) Add(ctx context.Context, userIDs []uuid.UUID) (int, error) {
	n, err := p.session.Backend().AddMembers(ctx, p.channelID, userIDs)
	if err != nil {
		return 0, p.session.fail("AddMembers", err)
	}
	return n, p.Load(ctx)
}

// Remove removes a user and reloads the list.
func (p *MembersPanel) Remove(ctx context.Context, userID uuid.UUID) error {
	if err := p.session.Backend().RemoveMember(ctx, p.channelID, userID); err != nil {
		return p.session.fail("RemoveMember", err)
	}
	return p.Load(ctx)
}

// CanManage reports whether the current user's role allows adding and
// removing members.
func (p *MembersPanel) CanManage() bool {
	me := p.session.CurrentUserID()
	for _, m := range p.Members() {
		if m.UserID == me {
			return m.Role.CanManageMembers()
		}
	}
	return false
}
