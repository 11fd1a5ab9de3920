package chatclient

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// Tab filters the sidebar channel list.
type Tab string

const (
	TabAll      Tab = "all"
	TabDMs      Tab = "dms"
	TabGroups   Tab = "groups"
	TabChannels Tab = "channels"
	TabUnread   Tab = "unread"
)

// ParseTab decodes a tab name. Unknown names are rejected.
func ParseTab(raw string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case TabAll, TabDMs, TabGroups, TabChannels, TabUnread:
		return t, nil
	}
	return "", domain.NewValidationError("tab", "unknown tab "+raw)
}

// FilterChannels returns the channels shown under tab whose name contains
// query, case-insensitively. Order is preserved.
func FilterChannels(channels []domain.Channel, tab Tab, query string) []domain.Channel {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Channel, 0, len(channels))
	for _, ch := range channels {
		if !tab.matches(ch) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(ch.Name), q) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func (t Tab) matches(ch domain.Channel) bool {
	switch t {
	case TabDMs:
		return ch.Type.IsDirect()
	case TabGroups:
		return ch.Type == domain.ChannelTypeGroup
	case TabChannels:
		return !ch.Type.IsDirect() && ch.Type != domain.ChannelTypeGroup
	case TabUnread:
		return ch.UnreadCount > 0
	}
	return true
}

// Sidebar is the channel list view.
type Sidebar struct {
	session *Session

	mu    sync.Mutex
	tab   Tab
	query string
}

// NewSidebar creates a sidebar showing all channels.
func NewSidebar(session *Session) *Sidebar {
	return &Sidebar{session: session, tab: TabAll}
}

func (sb *Sidebar) SetTab(t Tab) {
	sb.mu.Lock()
	sb.tab = t
	sb.mu.Unlock()
}

func (sb *Sidebar) SetQuery(q string) {
	sb.mu.Lock()
	sb.query = q
	sb.mu.Unlock()
}

// Visible returns the filtered channel list.
func (sb *Sidebar) Visible() []domain.Channel {
	sb.mu.Lock()
	tab, query := sb.tab, sb.query
	sb.mu.Unlock()
	return FilterChannels(sb.session.Store().Channels(), tab, query)
}

// Select opens the channel with the given id.
func (sb *Sidebar) Select(ctx context.Context, channelID uuid.UUID) error {
	ch, ok := sb.session.Store().Channel(channelID)
	if !ok {
		return domain.ErrNotFound
	}
	return sb.session.SelectChannel(ctx, ch)
}
