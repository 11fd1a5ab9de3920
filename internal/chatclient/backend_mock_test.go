package chatclient

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

var _ Backend = &BackendMock{}

type BackendMock struct {
	CurrentUserFunc      func(ctx context.Context) (*domain.User, error)
	ListChannelsFunc     func(ctx context.Context) ([]domain.Channel, error)
	CreateChannelFunc    func(ctx context.Context, in CreateChannelInput) (*domain.Channel, error)
	UpdateChannelFunc    func(ctx context.Context, id uuid.UUID, p domain.ChannelUpdateParams) (*domain.Channel, error)
	DeleteChannelFunc    func(ctx context.Context, id uuid.UUID) error
	ListMessagesFunc     func(ctx context.Context, channelID uuid.UUID, q MessageQuery) ([]domain.Message, error)
	GetThreadFunc        func(ctx context.Context, parentID uuid.UUID) (*domain.Message, []domain.Message, error)
	SendMessageFunc      func(ctx context.Context, channelID uuid.UUID, in SendInput) (*domain.Message, error)
	EditMessageFunc      func(ctx context.Context, id uuid.UUID, content string) (*domain.Message, error)
	DeleteMessageFunc    func(ctx context.Context, id uuid.UUID) error
	ToggleReactionFunc   func(ctx context.Context, id uuid.UUID, emoji string) (*domain.Message, error)
	TranslateMessageFunc func(ctx context.Context, id uuid.UUID, targetLang string) (string, error)
	SendTypingFunc       func(ctx context.Context, channelID uuid.UUID, isTyping bool) error
	MarkReadFunc         func(ctx context.Context, messageIDs []uuid.UUID) error
	ListReceiptsFunc     func(ctx context.Context, channelID uuid.UUID) (map[uuid.UUID][]domain.ReadReceipt, error)
	ListMembersFunc      func(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error)
	AddMembersFunc       func(ctx context.Context, channelID uuid.UUID, userIDs []uuid.UUID) (int, error)
	RemoveMemberFunc     func(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) error
	GetProfilesFunc      func(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error)
	SearchProfilesFunc   func(ctx context.Context, query string, limit int) ([]domain.Profile, error)
	UploadFunc           func(ctx context.Context, in UploadInput) (*domain.Attachment, error)
	SignURLFunc          func(ctx context.Context, bucket string, path string) (domain.SignedURL, error)
	SubscribeFunc        func(ctx context.Context, channelID uuid.UUID) (*Subscription, error)
	NotificationsFunc    func(ctx context.Context) (<-chan domain.Event, error)
	GetSettingsFunc      func(ctx context.Context, group domain.SettingsGroup) (domain.SettingsMap, error)
	SaveSettingsFunc     func(ctx context.Context, group domain.SettingsGroup, values domain.SettingsMap) (domain.SettingsMap, error)

	calls struct {
		CurrentUser []struct {
			Ctx context.Context
		}
		ListChannels []struct {
			Ctx context.Context
		}
		CreateChannel []struct {
			Ctx context.Context
			In  CreateChannelInput
		}
		UpdateChannel []struct {
			Ctx context.Context
			Id  uuid.UUID
			P   domain.ChannelUpdateParams
		}
		DeleteChannel []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		ListMessages []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			Q         MessageQuery
		}
		GetThread []struct {
			Ctx      context.Context
			ParentID uuid.UUID
		}
		SendMessage []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			In        SendInput
		}
		EditMessage []struct {
			Ctx     context.Context
			Id      uuid.UUID
			Content string
		}
		DeleteMessage []struct {
			Ctx context.Context
			Id  uuid.UUID
		}
		ToggleReaction []struct {
			Ctx   context.Context
			Id    uuid.UUID
			Emoji string
		}
		TranslateMessage []struct {
			Ctx        context.Context
			Id         uuid.UUID
			TargetLang string
		}
		SendTyping []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			IsTyping  bool
		}
		MarkRead []struct {
			Ctx        context.Context
			MessageIDs []uuid.UUID
		}
		ListReceipts []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
		ListMembers []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
		AddMembers []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			UserIDs   []uuid.UUID
		}
		RemoveMember []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			UserID    uuid.UUID
		}
		GetProfiles []struct {
			Ctx context.Context
			Ids []uuid.UUID
		}
		SearchProfiles []struct {
			Ctx   context.Context
			Query string
			Limit int
		}
		Upload []struct {
			Ctx context.Context
			In  UploadInput
		}
		SignURL []struct {
			Ctx    context.Context
			Bucket string
			Path   string
		}
		Subscribe []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
		Notifications []struct {
			Ctx context.Context
		}
		GetSettings []struct {
			Ctx   context.Context
			Group domain.SettingsGroup
		}
		SaveSettings []struct {
			Ctx    context.Context
			Group  domain.SettingsGroup
			Values domain.SettingsMap
		}
	}
	lockCurrentUser      sync.RWMutex
	lockListChannels     sync.RWMutex
	lockCreateChannel    sync.RWMutex
	lockUpdateChannel    sync.RWMutex
	lockDeleteChannel    sync.RWMutex
	lockListMessages     sync.RWMutex
	lockGetThread        sync.RWMutex
	lockSendMessage      sync.RWMutex
	lockEditMessage      sync.RWMutex
	lockDeleteMessage    sync.RWMutex
	lockToggleReaction   sync.RWMutex
	lockTranslateMessage sync.RWMutex
	lockSendTyping       sync.RWMutex
	lockMarkRead         sync.RWMutex
	lockListReceipts     sync.RWMutex
	lockListMembers      sync.RWMutex
	lockAddMembers       sync.RWMutex
	lockRemoveMember     sync.RWMutex
	lockGetProfiles      sync.RWMutex
	lockSearchProfiles   sync.RWMutex
	lockUpload           sync.RWMutex
	lockSignURL          sync.RWMutex
	lockSubscribe        sync.RWMutex
	lockNotifications    sync.RWMutex
	lockGetSettings      sync.RWMutex
	lockSaveSettings     sync.RWMutex
}

func (mock *BackendMock) CurrentUser(ctx context.Context) (*domain.User, error) {
	if mock.CurrentUserFunc == nil {
		panic("BackendMock.CurrentUserFunc: method is nil but Backend.CurrentUser was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockCurrentUser.Lock()
	mock.calls.CurrentUser = append(mock.calls.CurrentUser, callInfo)
	mock.lockCurrentUser.Unlock()
	return mock.CurrentUserFunc(ctx)
}

func (mock *BackendMock) CurrentUserCalls() []struct {
		Ctx context.Context
} {
	mock.lockCurrentUser.RLock()
	calls := mock.calls.CurrentUser
	mock.lockCurrentUser.RUnlock()
	return calls
}

func (mock *BackendMock) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	if mock.ListChannelsFunc == nil {
		panic("BackendMock.ListChannelsFunc: method is nil but Backend.ListChannels was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockListChannels.Lock()
	mock.calls.ListChannels = append(mock.calls.ListChannels, callInfo)
	mock.lockListChannels.Unlock()
	return mock.ListChannelsFunc(ctx)
}

func (mock *BackendMock) ListChannelsCalls() []struct {
		Ctx context.Context
} {
	mock.lockListChannels.RLock()
	calls := mock.calls.ListChannels
	mock.lockListChannels.RUnlock()
	return calls
}

func (mock *BackendMock) CreateChannel(ctx context.Context, in CreateChannelInput) (*domain.Channel, error) {
	if mock.CreateChannelFunc == nil {
		panic("BackendMock.CreateChannelFunc: method is nil but Backend.CreateChannel was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  CreateChannelInput
	}{Ctx: ctx, In: in}
	mock.lockCreateChannel.Lock()
	mock.calls.CreateChannel = append(mock.calls.CreateChannel, callInfo)
	mock.lockCreateChannel.Unlock()
	return mock.CreateChannelFunc(ctx, in)
}

func (mock *BackendMock) CreateChannelCalls() []struct {
		Ctx context.Context
		In  CreateChannelInput
} {
	mock.lockCreateChannel.RLock()
	calls := mock.calls.CreateChannel
	mock.lockCreateChannel.RUnlock()
	return calls
}

func (mock *BackendMock) UpdateChannel(ctx context.Context, id uuid.UUID, p domain.ChannelUpdateParams) (*domain.Channel, error) {
	if mock.UpdateChannelFunc == nil {
		panic("BackendMock.UpdateChannelFunc: method is nil but Backend.UpdateChannel was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
		P   domain.ChannelUpdateParams
	}{Ctx: ctx, Id: id, P: p}
	mock.lockUpdateChannel.Lock()
	mock.calls.UpdateChannel = append(mock.calls.UpdateChannel, callInfo)
	mock.lockUpdateChannel.Unlock()
	return mock.UpdateChannelFunc(ctx, id, p)
}

func (mock *BackendMock) UpdateChannelCalls() []struct {
		Ctx context.Context
		Id  uuid.UUID
		P   domain.ChannelUpdateParams
} {
	mock.lockUpdateChannel.RLock()
	calls := mock.calls.UpdateChannel
	mock.lockUpdateChannel.RUnlock()
	return calls
}

func (mock *BackendMock) DeleteChannel(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteChannelFunc == nil {
		panic("BackendMock.DeleteChannelFunc: method is nil but Backend.DeleteChannel was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockDeleteChannel.Lock()
	mock.calls.DeleteChannel = append(mock.calls.DeleteChannel, callInfo)
	mock.lockDeleteChannel.Unlock()
	return mock.DeleteChannelFunc(ctx, id)
}

func (mock *BackendMock) DeleteChannelCalls() []struct {
		Ctx context.Context
		Id  uuid.UUID
} {
	mock.lockDeleteChannel.RLock()
	calls := mock.calls.DeleteChannel
	mock.lockDeleteChannel.RUnlock()
	return calls
}

func (mock *BackendMock) ListMessages(ctx context.Context, channelID uuid.UUID, q MessageQuery) ([]domain.Message, error) {
	if mock.ListMessagesFunc == nil {
		panic("BackendMock.ListMessagesFunc: method is nil but Backend.ListMessages was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		Q         MessageQuery
	}{Ctx: ctx, ChannelID: channelID, Q: q}
	mock.lockListMessages.Lock()
	mock.calls.ListMessages = append(mock.calls.ListMessages, callInfo)
	mock.lockListMessages.Unlock()
	return mock.ListMessagesFunc(ctx, channelID, q)
}

func (mock *BackendMock) ListMessagesCalls() []struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		Q         MessageQuery
} {
	mock.lockListMessages.RLock()
	calls := mock.calls.ListMessages
	mock.lockListMessages.RUnlock()
	return calls
}

func (mock *BackendMock) GetThread(ctx context.Context, parentID uuid.UUID) (*domain.Message, []domain.Message, error) {
	if mock.GetThreadFunc == nil {
		panic("BackendMock.GetThreadFunc: method is nil but Backend.GetThread was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ParentID uuid.UUID
	}{Ctx: ctx, ParentID: parentID}
	mock.lockGetThread.Lock()
	mock.calls.GetThread = append(mock.calls.GetThread, callInfo)
	mock.lockGetThread.Unlock()
	return mock.GetThreadFunc(ctx, parentID)
}

func (mock *BackendMock) GetThreadCalls() []struct {
		Ctx      context.Context
		ParentID uuid.UUID
} {
	mock.lockGetThread.RLock()
	calls := mock.calls.GetThread
	mock.lockGetThread.RUnlock()
	return calls
}

func (mock *BackendMock) SendMessage(ctx context.Context, channelID uuid.UUID, in SendInput) (*domain.Message, error) {
	if mock.SendMessageFunc == nil {
		panic("BackendMock.SendMessageFunc: method is nil but Backend.SendMessage was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		In        SendInput
	}{Ctx: ctx, ChannelID: channelID, In: in}
	mock.lockSendMessage.Lock()
	mock.calls.SendMessage = append(mock.calls.SendMessage, callInfo)
	mock.lockSendMessage.Unlock()
	return mock.SendMessageFunc(ctx, channelID, in)
}

func (mock *BackendMock) SendMessageCalls() []struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		In        SendInput
} {
	mock.lockSendMessage.RLock()
	calls := mock.calls.SendMessage
	mock.lockSendMessage.RUnlock()
	return calls
}

func (mock *BackendMock) EditMessage(ctx context.Context, id uuid.UUID, content string) (*domain.Message, error) {
	if mock.EditMessageFunc == nil {
		panic("BackendMock.EditMessageFunc: method is nil but Backend.EditMessage was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Id      uuid.UUID
		Content string
	}{Ctx: ctx, Id: id, Content: content}
	mock.lockEditMessage.Lock()
	mock.calls.EditMessage = append(mock.calls.EditMessage, callInfo)
	mock.lockEditMessage.Unlock()
	return mock.EditMessageFunc(ctx, id, content)
}

func (mock *BackendMock) EditMessageCalls() []struct {
		Ctx     context.Context
		Id      uuid.UUID
		Content string
} {
	mock.lockEditMessage.RLock()
	calls := mock.calls.EditMessage
	mock.lockEditMessage.RUnlock()
	return calls
}

func (mock *BackendMock) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteMessageFunc == nil {
		panic("BackendMock.DeleteMessageFunc: method is nil but Backend.DeleteMessage was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Id  uuid.UUID
	}{Ctx: ctx, Id: id}
	mock.lockDeleteMessage.Lock()
	mock.calls.DeleteMessage = append(mock.calls.DeleteMessage, callInfo)
	mock.lockDeleteMessage.Unlock()
	return mock.DeleteMessageFunc(ctx, id)
}

func (mock *BackendMock) DeleteMessageCalls() []struct {
		Ctx context.Context
		Id  uuid.UUID
} {
	mock.lockDeleteMessage.RLock()
	calls := mock.calls.DeleteMessage
	mock.lockDeleteMessage.RUnlock()
	return calls
}

func (mock *BackendMock) ToggleReaction(ctx context.Context, id uuid.UUID, emoji string) (*domain.Message, error) {
	if mock.ToggleReactionFunc == nil {
		panic("BackendMock.ToggleReactionFunc: method is nil but Backend.ToggleReaction was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Id    uuid.UUID
		Emoji string
	}{Ctx: ctx, Id: id, Emoji: emoji}
	mock.lockToggleReaction.Lock()
	mock.calls.ToggleReaction = append(mock.calls.ToggleReaction, callInfo)
	mock.lockToggleReaction.Unlock()
	return mock.ToggleReactionFunc(ctx, id, emoji)
}

func (mock *BackendMock) ToggleReactionCalls() []struct {
		Ctx   context.Context
		Id    uuid.UUID
		Emoji string
} {
	mock.lockToggleReaction.RLock()
	calls := mock.calls.ToggleReaction
	mock.lockToggleReaction.RUnlock()
	return calls
}

func (mock *BackendMock) TranslateMessage(ctx context.Context, id uuid.UUID, targetLang string) (string, error) {
	if mock.TranslateMessageFunc == nil {
		panic("BackendMock.TranslateMessageFunc: method is nil but Backend.TranslateMessage was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Id         uuid.UUID
		TargetLang string
	}{Ctx: ctx, Id: id, TargetLang: targetLang}
	mock.lockTranslateMessage.Lock()
	mock.calls.TranslateMessage = append(mock.calls.TranslateMessage, callInfo)
	mock.lockTranslateMessage.Unlock()
	return mock.TranslateMessageFunc(ctx, id, targetLang)
}

func (mock *BackendMock) TranslateMessageCalls() []struct {
		Ctx        context.Context
		Id         uuid.UUID
		TargetLang string
} {
	mock.lockTranslateMessage.RLock()
	calls := mock.calls.TranslateMessage
	mock.lockTranslateMessage.RUnlock()
	return calls
}

func (mock *BackendMock) SendTyping(ctx context.Context, channelID uuid.UUID, isTyping bool) error {
	if mock.SendTypingFunc == nil {
		panic("BackendMock.SendTypingFunc: method is nil but Backend.SendTyping was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		IsTyping  bool
	}{Ctx: ctx, ChannelID: channelID, IsTyping: isTyping}
	mock.lockSendTyping.Lock()
	mock.calls.SendTyping = append(mock.calls.SendTyping, callInfo)
	mock.lockSendTyping.Unlock()
	return mock.SendTypingFunc(ctx, channelID, isTyping)
}

func (mock *BackendMock) SendTypingCalls() []struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		IsTyping  bool
} {
	mock.lockSendTyping.RLock()
	calls := mock.calls.SendTyping
	mock.lockSendTyping.RUnlock()
	return calls
}

func (mock *BackendMock) MarkRead(ctx context.Context, messageIDs []uuid.UUID) error {
	if mock.MarkReadFunc == nil {
		panic("BackendMock.MarkReadFunc: method is nil but Backend.MarkRead was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		MessageIDs []uuid.UUID
	}{Ctx: ctx, MessageIDs: messageIDs}
	mock.lockMarkRead.Lock()
	mock.calls.MarkRead = append(mock.calls.MarkRead, callInfo)
	mock.lockMarkRead.Unlock()
	return mock.MarkReadFunc(ctx, messageIDs)
}

func (mock *BackendMock) MarkReadCalls() []struct {
		Ctx        context.Context
		MessageIDs []uuid.UUID
} {
	mock.lockMarkRead.RLock()
	calls := mock.calls.MarkRead
	mock.lockMarkRead.RUnlock()
	return calls
}

func (mock *BackendMock) ListReceipts(ctx context.Context, channelID uuid.UUID) (map[uuid.UUID][]domain.ReadReceipt, error) {
	if mock.ListReceiptsFunc == nil {
		panic("BackendMock.ListReceiptsFunc: method is nil but Backend.ListReceipts was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
	}{Ctx: ctx, ChannelID: channelID}
	mock.lockListReceipts.Lock()
	mock.calls.ListReceipts = append(mock.calls.ListReceipts, callInfo)
	mock.lockListReceipts.Unlock()
	return mock.ListReceiptsFunc(ctx, channelID)
}

func (mock *BackendMock) ListReceiptsCalls() []struct {
		Ctx       context.Context
		ChannelID uuid.UUID
} {
	mock.lockListReceipts.RLock()
	calls := mock.calls.ListReceipts
	mock.lockListReceipts.RUnlock()
	return calls
}

func (mock *BackendMock) ListMembers(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error) {
	if mock.ListMembersFunc == nil {
		panic("BackendMock.ListMembersFunc: method is nil but Backend.ListMembers was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
	}{Ctx: ctx, ChannelID: channelID}
	mock.lockListMembers.Lock()
	mock.calls.ListMembers = append(mock.calls.ListMembers, callInfo)
	mock.lockListMembers.Unlock()
	return mock.ListMembersFunc(ctx, channelID)
}

func (mock *BackendMock) ListMembersCalls() []struct {
		Ctx       context.Context
		ChannelID uuid.UUID
} {
	mock.lockListMembers.RLock()
	calls := mock.calls.ListMembers
	mock.lockListMembers.RUnlock()
	return calls
}

func (mock *BackendMock) AddMembers(ctx context.Context, channelID uuid.UUID, userIDs []uuid.UUID) (int, error) {
	if mock.AddMembersFunc == nil {
		panic("BackendMock.AddMembersFunc: method is nil but Backend.AddMembers was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		UserIDs   []uuid.UUID
	}{Ctx: ctx, ChannelID: channelID, UserIDs: userIDs}
	mock.lockAddMembers.Lock()
	mock.calls.AddMembers = append(mock.calls.AddMembers, callInfo)
	mock.lockAddMembers.Unlock()
	return mock.AddMembersFunc(ctx, channelID, userIDs)
}

func (mock *BackendMock) AddMembersCalls() []struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		UserIDs   []uuid.UUID
} {
	mock.lockAddMembers.RLock()
	calls := mock.calls.AddMembers
	mock.lockAddMembers.RUnlock()
	return calls
}

func (mock *BackendMock) RemoveMember(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) error {
	if mock.RemoveMemberFunc == nil {
		panic("BackendMock.RemoveMemberFunc: method is nil but Backend.RemoveMember was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		UserID    uuid.UUID
	}{Ctx: ctx, ChannelID: channelID, UserID: userID}
	mock.lockRemoveMember.Lock()
	mock.calls.RemoveMember = append(mock.calls.RemoveMember, callInfo)
	mock.lockRemoveMember.Unlock()
	return mock.RemoveMemberFunc(ctx, channelID, userID)
}

func (mock *BackendMock) RemoveMemberCalls() []struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		UserID    uuid.UUID
} {
	mock.lockRemoveMember.RLock()
	calls := mock.calls.RemoveMember
	mock.lockRemoveMember.RUnlock()
	return calls
}

func (mock *BackendMock) GetProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error) {
	if mock.GetProfilesFunc == nil {
		panic("BackendMock.GetProfilesFunc: method is nil but Backend.GetProfiles was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []uuid.UUID
	}{Ctx: ctx, Ids: ids}
	mock.lockGetProfiles.Lock()
	mock.calls.GetProfiles = append(mock.calls.GetProfiles, callInfo)
	mock.lockGetProfiles.Unlock()
	return mock.GetProfilesFunc(ctx, ids)
}

func (mock *BackendMock) GetProfilesCalls() []struct {
		Ctx context.Context
		Ids []uuid.UUID
} {
	mock.lockGetProfiles.RLock()
	calls := mock.calls.GetProfiles
	mock.lockGetProfiles.RUnlock()
	return calls
}

func (mock *BackendMock) SearchProfiles(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	if mock.SearchProfilesFunc == nil {
		panic("BackendMock.SearchProfilesFunc: method is nil but Backend.SearchProfiles was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Query string
		Limit int
	}{Ctx: ctx, Query: query, Limit: limit}
	mock.lockSearchProfiles.Lock()
	mock.calls.SearchProfiles = append(mock.calls.SearchProfiles, callInfo)
	mock.lockSearchProfiles.Unlock()
	return mock.SearchProfilesFunc(ctx, query, limit)
}

func (mock *BackendMock) SearchProfilesCalls() []struct {
		Ctx   context.Context
		Query string
		Limit int
} {
	mock.lockSearchProfiles.RLock()
	calls := mock.calls.SearchProfiles
	mock.lockSearchProfiles.RUnlock()
	return calls
}

func (mock *BackendMock) Upload(ctx context.Context, in UploadInput) (*domain.Attachment, error) {
	if mock.UploadFunc == nil {
		panic("BackendMock.UploadFunc: method is nil but Backend.Upload was just called")
	}
	callInfo := struct {
		Ctx context.Context
		In  UploadInput
	}{Ctx: ctx, In: in}
	mock.lockUpload.Lock()
	mock.calls.Upload = append(mock.calls.Upload, callInfo)
	mock.lockUpload.Unlock()
	return mock.UploadFunc(ctx, in)
}

func (mock *BackendMock) UploadCalls() []struct {
		Ctx context.Context
		In  UploadInput
} {
	mock.lockUpload.RLock()
	calls := mock.calls.Upload
	mock.lockUpload.RUnlock()
	return calls
}

func (mock *BackendMock) SignURL(ctx context.Context, bucket string, path string) (domain.SignedURL, error) {
	if mock.SignURLFunc == nil {
		panic("BackendMock.SignURLFunc: method is nil but Backend.SignURL was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Bucket string
		Path   string
	}{Ctx: ctx, Bucket: bucket, Path: path}
	mock.lockSignURL.Lock()
	mock.calls.SignURL = append(mock.calls.SignURL, callInfo)
	mock.lockSignURL.Unlock()
	return mock.SignURLFunc(ctx, bucket, path)
}

func (mock *BackendMock) SignURLCalls() []struct {
		Ctx    context.Context
		Bucket string
		Path   string
} {
	mock.lockSignURL.RLock()
	calls := mock.calls.SignURL
	mock.lockSignURL.RUnlock()
	return calls
}

func (mock *BackendMock) Subscribe(ctx context.Context, channelID uuid.UUID) (*Subscription, error) {
	if mock.SubscribeFunc == nil {
		panic("BackendMock.SubscribeFunc: method is nil but Backend.Subscribe was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
	}{Ctx: ctx, ChannelID: channelID}
	mock.lockSubscribe.Lock()
	mock.calls.Subscribe = append(mock.calls.Subscribe, callInfo)
	mock.lockSubscribe.Unlock()
	return mock.SubscribeFunc(ctx, channelID)
}

func (mock *BackendMock) SubscribeCalls() []struct {
		Ctx       context.Context
		ChannelID uuid.UUID
} {
	mock.lockSubscribe.RLock()
	calls := mock.calls.Subscribe
	mock.lockSubscribe.RUnlock()
	return calls
}

func (mock *BackendMock) Notifications(ctx context.Context) (<-chan domain.Event, error) {
	if mock.NotificationsFunc == nil {
		panic("BackendMock.NotificationsFunc: method is nil but Backend.Notifications was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockNotifications.Lock()
	mock.calls.Notifications = append(mock.calls.Notifications, callInfo)
	mock.lockNotifications.Unlock()
	return mock.NotificationsFunc(ctx)
}

func (mock *BackendMock) NotificationsCalls() []struct {
	Ctx context.Context
} {
	mock.lockNotifications.RLock()
	calls := mock.calls.Notifications
	mock.lockNotifications.RUnlock()
	return calls
}

func (mock *BackendMock) GetSettings(ctx context.Context, group domain.SettingsGroup) (domain.SettingsMap, error) {
	if mock.GetSettingsFunc == nil {
		panic("BackendMock.GetSettingsFunc: method is nil but Backend.GetSettings was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Group domain.SettingsGroup
	}{Ctx: ctx, Group: group}
	mock.lockGetSettings.Lock()
	mock.calls.GetSettings = append(mock.calls.GetSettings, callInfo)
	mock.lockGetSettings.Unlock()
	return mock.GetSettingsFunc(ctx, group)
}

func (mock *BackendMock) GetSettingsCalls() []struct {
		Ctx   context.Context
		Group domain.SettingsGroup
} {
	mock.lockGetSettings.RLock()
	calls := mock.calls.GetSettings
	mock.lockGetSettings.RUnlock()
	return calls
}

func (mock *BackendMock) SaveSettings(ctx context.Context, group domain.SettingsGroup, values domain.SettingsMap) (domain.SettingsMap, error) {
	if mock.SaveSettingsFunc == nil {
		panic("BackendMock.SaveSettingsFunc: method is nil but Backend.SaveSettings was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Group  domain.SettingsGroup
		Values domain.SettingsMap
	}{Ctx: ctx, Group: group, Values: values}
	mock.lockSaveSettings.Lock()
	mock.calls.SaveSettings = append(mock.calls.SaveSettings, callInfo)
	mock.lockSaveSettings.Unlock()
	return mock.SaveSettingsFunc(ctx, group, values)
}

func (mock *BackendMock) SaveSettingsCalls() []struct {
		Ctx    context.Context
		Group  domain.SettingsGroup
		Values domain.SettingsMap
} {
	mock.lockSaveSettings.RLock()
	calls := mock.calls.SaveSettings
	mock.lockSaveSettings.RUnlock()
	return calls
}
