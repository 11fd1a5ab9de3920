// Package chatclient is the client-side core of the team chat: a typed store
// fed by backend calls and realtime events, plus the view models built on it
// (sidebar, composer, conversation, dialogs and settings forms).
//
// The backend is the sole source of truth. The client never keeps optimistic
// state: lists change only after a successful write returns or when the
// realtime echo arrives, and the store de-duplicates the two.
package chatclient

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// Backend is the remote gateway: row CRUD, realtime subscriptions, signed
// URL storage and the session accessor. remote.Client implements it over
// the REST API and the realtime socket.
type Backend interface {
	CurrentUser(ctx context.Context) (*domain.User, error)

	ListChannels(ctx context.Context) ([]domain.Channel, error)
	CreateChannel(ctx context.Context, in CreateChannelInput) (*domain.Channel, error)
	UpdateChannel(ctx context.Context, id uuid.UUID, p domain.ChannelUpdateParams) (*domain.Channel, error)
	DeleteChannel(ctx context.Context, id uuid.UUID) error

	ListMessages(ctx context.Context, channelID uuid.UUID, q MessageQuery) ([]domain.Message, error)
	GetThread(ctx context.Context, parentID uuid.UUID) (*domain.Message, []domain.Message, error)
	SendMessage(ctx context.Context, channelID uuid.UUID, in SendInput) (*domain.Message, error)
	EditMessage(ctx context.Context, id uuid.UUID, content string) (*domain.Message, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
	ToggleReaction(ctx context.Context, id uuid.UUID, emoji string) (*domain.Message, error)
	TranslateMessage(ctx context.Context, id uuid.UUID, targetLang string) (string, error)

	SendTyping(ctx context.Context, channelID uuid.UUID, isTyping bool) error
	MarkRead(ctx context.Context, messageIDs []uuid.UUID) error
	ListReceipts(ctx context.Context, channelID uuid.UUID) (map[uuid.UUID][]domain.ReadReceipt, error)

	ListMembers(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error)
	AddMembers(ctx context.Context, channelID uuid.UUID, userIDs []uuid.UUID) (int, error)
	RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error

	GetProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error)
	SearchProfiles(ctx context.Context, query string, limit int) ([]domain.Profile, error)

	Upload(ctx context.Context, in UploadInput) (*domain.Attachment, error)
	SignURL(ctx context.Context, bucket, path string) (domain.SignedURL, error)

	Subscribe(ctx context.Context, channelID uuid.UUID) (*Subscription, error)
	// Notifications streams unsequenced events of channels the user is not
	// subscribed to. The stream closes when ctx ends or the connection drops.
	Notifications(ctx context.Context) (<-chan domain.Event, error)

	GetSettings(ctx context.Context, group domain.SettingsGroup) (domain.SettingsMap, error)
	SaveSettings(ctx context.Context, group domain.SettingsGroup, values domain.SettingsMap) (domain.SettingsMap, error)
}

// CreateChannelInput describes a new channel.
type CreateChannelInput struct {
	Name        string
	Type        domain.ChannelType
	IsPublic    bool
	Description string
	MemberIDs   []uuid.UUID
}

// MessageQuery pages a channel's history backwards from Before.
type MessageQuery struct {
	Before *time.Time
	Limit  int
	Search string
}

// SendInput is the payload of a new message. ParentID marks a thread reply.
type SendInput struct {
	Content     string
	Type        domain.MessageType
	Attachments []domain.Attachment
	Voice       *domain.VoicePayload
	ParentID    *uuid.UUID
}

// UploadInput streams a file into a bucket under a channel's prefix.
type UploadInput struct {
	ChannelID   uuid.UUID
	Bucket      string
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Subscription is a live event stream of one channel. Seq is the last
// sequence number assigned before the subscription; the stream continues at
// Seq+1. Events is closed when the subscription context ends or the
// connection drops.
type Subscription struct {
	ChannelID uuid.UUID
	Seq       int64
	Events    <-chan domain.Event
}

// Buckets names the storage buckets used for media.
type Buckets struct {
	Voice      string
	Attachment string
}

// DefaultBuckets matches the server's default storage configuration.
var DefaultBuckets = Buckets{Voice: "voice-messages", Attachment: "message-attachments"}
