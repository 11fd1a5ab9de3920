// Package wire holds the JSON representations exchanged between the backend
// and its clients over REST and the realtime socket, with conversions to and
// from the domain types. Enum fields are decoded strictly.
package wire

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
}

func FromProfile(p domain.Profile) Profile {
	return Profile{UserID: p.UserID, DisplayName: p.DisplayName, AvatarURL: p.AvatarURL}
}

func (p Profile) ToDomain() domain.Profile {
	return domain.Profile{UserID: p.UserID, DisplayName: p.DisplayName, AvatarURL: p.AvatarURL}
}

type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromUser(u domain.User) User {
	return User{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

func (u User) ToDomain() domain.User {
	return domain.User{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

type Channel struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	Description        *string    `json:"description,omitempty"`
	IsPublic           bool       `json:"is_public"`
	LastMessagePreview *string    `json:"last_message_preview,omitempty"`
	LastActivityAt     *time.Time `json:"last_activity_at,omitempty"`
	UnreadCount        int        `json:"unread_count"`
	MemberCount        int        `json:"member_count"`
	AvatarURL          *string    `json:"avatar_url,omitempty"`
	CreatedBy          uuid.UUID  `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func FromChannel(c domain.Channel) Channel {
	return Channel{
		ID:                 c.ID,
		Name:               c.Name,
		Type:               c.Type.String(),
		Description:        c.Description,
		IsPublic:           c.IsPublic,
		LastMessagePreview: c.LastMessagePreview,
		LastActivityAt:     c.LastActivityAt,
		UnreadCount:        c.UnreadCount,
		MemberCount:        c.MemberCount,
		AvatarURL:          c.AvatarURL,
		CreatedBy:          c.CreatedBy,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func FromChannels(cs []domain.Channel) []Channel {
	out := make([]Channel, len(cs))
	for i, c := range cs {
		out[i] = FromChannel(c)
	}
	return out
}

// ToDomain decodes a channel. Unknown channel types are rejected.
func (c Channel) ToDomain() (domain.Channel, error) {
	typ, err := domain.ParseChannelType(c.Type)
	if err != nil {
		return domain.Channel{}, err
	}
	return domain.Channel{
		ID:                 c.ID,
		Name:               c.Name,
		Type:               typ,
		Description:        c.Description,
		IsPublic:           c.IsPublic,
		LastMessagePreview: c.LastMessagePreview,
		LastActivityAt:     c.LastActivityAt,
		UnreadCount:        c.UnreadCount,
		MemberCount:        c.MemberCount,
		AvatarURL:          c.AvatarURL,
		CreatedBy:          c.CreatedBy,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}, nil
}

type Member struct {
	ChannelID uuid.UUID `json:"channel_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	Profile   *Profile  `json:"profile,omitempty"`
}

func FromMember(m domain.ChannelMember) Member {
	out := Member{ChannelID: m.ChannelID, UserID: m.UserID, Role: m.Role.String(), JoinedAt: m.JoinedAt}
	if m.Profile != nil {
		p := FromProfile(*m.Profile)
		out.Profile = &p
	}
	return out
}

func FromMembers(ms []domain.ChannelMember) []Member {
	out := make([]Member, len(ms))
	for i, m := range ms {
		out[i] = FromMember(m)
	}
	return out
}

func (m Member) ToDomain() (domain.ChannelMember, error) {
	role, err := domain.ParseMemberRole(m.Role)
	if err != nil {
		return domain.ChannelMember{}, err
	}
	out := domain.ChannelMember{ChannelID: m.ChannelID, UserID: m.UserID, Role: role, JoinedAt: m.JoinedAt}
	if m.Profile != nil {
		p := m.Profile.ToDomain()
		out.Profile = &p
	}
	return out, nil
}

type Message struct {
	ID          uuid.UUID            `json:"id"`
	ChannelID   uuid.UUID            `json:"channel_id"`
	SenderID    uuid.UUID            `json:"sender_id"`
	Content     string               `json:"content"`
	Type        string               `json:"type"`
	CreatedAt   time.Time            `json:"created_at"`
	EditedAt    *time.Time           `json:"edited_at,omitempty"`
	DeletedAt   *time.Time           `json:"deleted_at,omitempty"`
	ParentID    *uuid.UUID           `json:"parent_id,omitempty"`
	ReplyCount  int                  `json:"reply_count"`
	Reactions   []domain.Reaction    `json:"reactions"`
	Attachments []domain.Attachment  `json:"attachments"`
	Voice       *domain.VoicePayload `json:"voice,omitempty"`
	Sender      *Profile             `json:"sender,omitempty"`
}

func FromMessage(m domain.Message) Message {
	return Message{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		SenderID:    m.SenderID,
		Content:     m.Content,
		Type:        m.Type.String(),
		CreatedAt:   m.CreatedAt,
		EditedAt:    m.EditedAt,
		DeletedAt:   m.DeletedAt,
		ParentID:    m.ParentID,
		ReplyCount:  m.ReplyCount,
		Reactions:   nonNil(m.Reactions),
		Attachments: nonNil(m.Attachments),
		Voice:       m.Voice,
	}
}

func FromMessages(ms []domain.Message) []Message {
	out := make([]Message, len(ms))
	for i, m := range ms {
		out[i] = FromMessage(m)
	}
	return out
}

// ToDomain decodes a message. Unknown message types are rejected.
func (m Message) ToDomain() (domain.Message, error) {
	typ, err := domain.ParseMessageType(m.Type)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		SenderID:    m.SenderID,
		Content:     m.Content,
		Type:        typ,
		CreatedAt:   m.CreatedAt,
		EditedAt:    m.EditedAt,
		DeletedAt:   m.DeletedAt,
		ParentID:    m.ParentID,
		ReplyCount:  m.ReplyCount,
		Reactions:   m.Reactions,
		Attachments: m.Attachments,
		Voice:       m.Voice,
	}, nil
}

// ToDomainMessages decodes a list of messages, failing on the first bad one.
func ToDomainMessages(ms []Message) ([]domain.Message, error) {
	out := make([]domain.Message, len(ms))
	for i, m := range ms {
		d, err := m.ToDomain()
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

type Receipt struct {
	MessageID uuid.UUID `json:"message_id"`
	ChannelID uuid.UUID `json:"channel_id"`
	UserID    uuid.UUID `json:"user_id"`
	ReadAt    time.Time `json:"read_at"`
}

func FromReceipt(r domain.ReadReceipt) Receipt {
	return Receipt{MessageID: r.MessageID, ChannelID: r.ChannelID, UserID: r.UserID, ReadAt: r.ReadAt}
}

func (r Receipt) ToDomain() domain.ReadReceipt {
	return domain.ReadReceipt{MessageID: r.MessageID, ChannelID: r.ChannelID, UserID: r.UserID, ReadAt: r.ReadAt}
}

type Typing struct {
	ChannelID uuid.UUID `json:"channel_id"`
	UserID    uuid.UUID `json:"user_id"`
	IsTyping  bool      `json:"is_typing"`
	At        time.Time `json:"at"`
}

// Event is a realtime change. Seq is zero for out-of-stream notifications.
type Event struct {
	Seq       int64      `json:"seq"`
	ChannelID uuid.UUID  `json:"channel_id"`
	Kind      string     `json:"kind"`
	Message   *Message   `json:"message,omitempty"`
	MessageID *uuid.UUID `json:"message_id,omitempty"`
	Typing    *Typing    `json:"typing,omitempty"`
	Receipt   *Receipt   `json:"receipt,omitempty"`
	Channel   *Channel   `json:"channel,omitempty"`
	Member    *Member    `json:"member,omitempty"`
	At        time.Time  `json:"at"`
}

func FromEvent(ev domain.Event) Event {
	out := Event{
		Seq:       ev.Seq,
		ChannelID: ev.ChannelID,
		Kind:      ev.Kind.String(),
		MessageID: ev.MessageID,
		At:        ev.At,
	}
	if ev.Message != nil {
		m := FromMessage(*ev.Message)
		out.Message = &m
	}
	if ev.Typing != nil {
		out.Typing = &Typing{
			ChannelID: ev.Typing.ChannelID,
			UserID:    ev.Typing.UserID,
			IsTyping:  ev.Typing.IsTyping,
			At:        ev.Typing.At,
		}
	}
	if ev.Receipt != nil {
		r := FromReceipt(*ev.Receipt)
		out.Receipt = &r
	}
	if ev.Channel != nil {
		c := FromChannel(*ev.Channel)
		out.Channel = &c
	}
	if ev.Member != nil {
		m := FromMember(*ev.Member)
		out.Member = &m
	}
	return out
}

// ToDomain decodes an event. Unknown kinds and enum values are rejected.
func (e Event) ToDomain() (domain.Event, error) {
	kind, err := domain.ParseEventKind(e.Kind)
	if err != nil {
		return domain.Event{}, err
	}
	out := domain.Event{
		Seq:       e.Seq,
		ChannelID: e.ChannelID,
		Kind:      kind,
		MessageID: e.MessageID,
		At:        e.At,
	}
	if e.Message != nil {
		m, err := e.Message.ToDomain()
		if err != nil {
			return domain.Event{}, err
		}
		out.Message = &m
	}
	if e.Typing != nil {
		out.Typing = &domain.TypingState{
			ChannelID: e.Typing.ChannelID,
			UserID:    e.Typing.UserID,
			IsTyping:  e.Typing.IsTyping,
			At:        e.Typing.At,
		}
	}
	if e.Receipt != nil {
		r := e.Receipt.ToDomain()
		out.Receipt = &r
	}
	if e.Channel != nil {
		c, err := e.Channel.ToDomain()
		if err != nil {
			return domain.Event{}, err
		}
		out.Channel = &c
	}
	if e.Member != nil {
		m, err := e.Member.ToDomain()
		if err != nil {
			return domain.Event{}, err
		}
		out.Member = &m
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
