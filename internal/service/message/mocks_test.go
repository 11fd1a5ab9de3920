package message

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

var _ messageRepo = &messageRepoMock{}

type messageRepoMock struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	GetForUpdateFunc  func(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	ListFunc          func(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error)
	ListRepliesFunc   func(ctx context.Context, parentID uuid.UUID) ([]domain.Message, error)
	CreateFunc        func(ctx context.Context, m *domain.Message) error
	UpdateContentFunc func(ctx context.Context, id uuid.UUID, content string, at time.Time) error
	SoftDeleteFunc    func(ctx context.Context, id uuid.UUID, at time.Time) error
	SetReactionsFunc  func(ctx context.Context, id uuid.UUID, reactions []domain.Reaction) error

	calls struct {
		GetByID []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		GetForUpdate []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		List []struct {
			Ctx context.Context
			F   domain.MessageFilter
		}
		ListReplies []struct {
			Ctx      context.Context
			ParentID uuid.UUID
		}
		Create []struct {
			Ctx context.Context
			M   *domain.Message
		}
		UpdateContent []struct {
			Ctx     context.Context
			ID      uuid.UUID
			Content string
			At      time.Time
		}
		SoftDelete []struct {
			Ctx context.Context
			ID  uuid.UUID
			At  time.Time
		}
		SetReactions []struct {
			Ctx       context.Context
			ID        uuid.UUID
			Reactions []domain.Reaction
		}
	}
	lockGetByID       sync.RWMutex
	lockGetForUpdate  sync.RWMutex
	lockList          sync.RWMutex
	lockListReplies   sync.RWMutex
	lockCreate        sync.RWMutex
	lockUpdateContent sync.RWMutex
	lockSoftDelete    sync.RWMutex
	lockSetReactions  sync.RWMutex
}

func (mock *messageRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	if mock.GetByIDFunc == nil {
		panic("messageRepoMock.GetByIDFunc: method is nil but messageRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *messageRepoMock) GetByIDCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *messageRepoMock) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	if mock.GetForUpdateFunc == nil {
		panic("messageRepoMock.GetForUpdateFunc: method is nil but messageRepo.GetForUpdate was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetForUpdate.Lock()
	mock.calls.GetForUpdate = append(mock.calls.GetForUpdate, callInfo)
	mock.lockGetForUpdate.Unlock()
	return mock.GetForUpdateFunc(ctx, id)
}

func (mock *messageRepoMock) GetForUpdateCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockGetForUpdate.RLock()
	calls := mock.calls.GetForUpdate
	mock.lockGetForUpdate.RUnlock()
	return calls
}

func (mock *messageRepoMock) List(ctx context.Context, f domain.MessageFilter) ([]domain.Message, error) {
	if mock.ListFunc == nil {
		panic("messageRepoMock.ListFunc: method is nil but messageRepo.List was just called")
	}
	callInfo := struct {
		Ctx context.Context
		F   domain.MessageFilter
	}{Ctx: ctx, F: f}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, f)
}

func (mock *messageRepoMock) ListCalls() []struct {
	Ctx context.Context
	F   domain.MessageFilter
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *messageRepoMock) ListReplies(ctx context.Context, parentID uuid.UUID) ([]domain.Message, error) {
	if mock.ListRepliesFunc == nil {
		panic("messageRepoMock.ListRepliesFunc: method is nil but messageRepo.ListReplies was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		ParentID uuid.UUID
	}{Ctx: ctx, ParentID: parentID}
	mock.lockListReplies.Lock()
	mock.calls.ListReplies = append(mock.calls.ListReplies, callInfo)
	mock.lockListReplies.Unlock()
	return mock.ListRepliesFunc(ctx, parentID)
}

func (mock *messageRepoMock) ListRepliesCalls() []struct {
	Ctx      context.Context
	ParentID uuid.UUID
} {
	mock.lockListReplies.RLock()
	calls := mock.calls.ListReplies
	mock.lockListReplies.RUnlock()
	return calls
}

func (mock *messageRepoMock) Create(ctx context.Context, m *domain.Message) error {
	if mock.CreateFunc == nil {
		panic("messageRepoMock.CreateFunc: method is nil but messageRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		M   *domain.Message
	}{Ctx: ctx, M: m}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, m)
}

func (mock *messageRepoMock) CreateCalls() []struct {
	Ctx context.Context
	M   *domain.Message
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *messageRepoMock) UpdateContent(ctx context.Context, id uuid.UUID, content string, at time.Time) error {
	if mock.UpdateContentFunc == nil {
		panic("messageRepoMock.UpdateContentFunc: method is nil but messageRepo.UpdateContent was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ID      uuid.UUID
		Content string
		At      time.Time
	}{Ctx: ctx, ID: id, Content: content, At: at}
	mock.lockUpdateContent.Lock()
	mock.calls.UpdateContent = append(mock.calls.UpdateContent, callInfo)
	mock.lockUpdateContent.Unlock()
	return mock.UpdateContentFunc(ctx, id, content, at)
}

func (mock *messageRepoMock) UpdateContentCalls() []struct {
	Ctx     context.Context
	ID      uuid.UUID
	Content string
	At      time.Time
} {
	mock.lockUpdateContent.RLock()
	calls := mock.calls.UpdateContent
	mock.lockUpdateContent.RUnlock()
	return calls
}

func (mock *messageRepoMock) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	if mock.SoftDeleteFunc == nil {
		panic("messageRepoMock.SoftDeleteFunc: method is nil but messageRepo.SoftDelete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		At  time.Time
	}{Ctx: ctx, ID: id, At: at}
	mock.lockSoftDelete.Lock()
	mock.calls.SoftDelete = append(mock.calls.SoftDelete, callInfo)
	mock.lockSoftDelete.Unlock()
	return mock.SoftDeleteFunc(ctx, id, at)
}

func (mock *messageRepoMock) SoftDeleteCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
	At  time.Time
} {
	mock.lockSoftDelete.RLock()
	calls := mock.calls.SoftDelete
	mock.lockSoftDelete.RUnlock()
	return calls
}

func (mock *messageRepoMock) SetReactions(ctx context.Context, id uuid.UUID, reactions []domain.Reaction) error {
	if mock.SetReactionsFunc == nil {
		panic("messageRepoMock.SetReactionsFunc: method is nil but messageRepo.SetReactions was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ID        uuid.UUID
		Reactions []domain.Reaction
	}{Ctx: ctx, ID: id, Reactions: reactions}
	mock.lockSetReactions.Lock()
	mock.calls.SetReactions = append(mock.calls.SetReactions, callInfo)
	mock.lockSetReactions.Unlock()
	return mock.SetReactionsFunc(ctx, id, reactions)
}

func (mock *messageRepoMock) SetReactionsCalls() []struct {
	Ctx       context.Context
	ID        uuid.UUID
	Reactions []domain.Reaction
} {
	mock.lockSetReactions.RLock()
	calls := mock.calls.SetReactions
	mock.lockSetReactions.RUnlock()
	return calls
}

var _ channelRepo = &channelRepoMock{}

type channelRepoMock struct {
	TouchActivityFunc func(ctx context.Context, id uuid.UUID, preview string, at time.Time) error

	calls struct {
		TouchActivity []struct {
			Ctx     context.Context
			ID      uuid.UUID
			Preview string
			At      time.Time
		}
	}
	lockTouchActivity sync.RWMutex
}

func (mock *channelRepoMock) TouchActivity(ctx context.Context, id uuid.UUID, preview string, at time.Time) error {
	if mock.TouchActivityFunc == nil {
		panic("channelRepoMock.TouchActivityFunc: method is nil but channelRepo.TouchActivity was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		ID      uuid.UUID
		Preview string
		At      time.Time
	}{Ctx: ctx, ID: id, Preview: preview, At: at}
	mock.lockTouchActivity.Lock()
	mock.calls.TouchActivity = append(mock.calls.TouchActivity, callInfo)
	mock.lockTouchActivity.Unlock()
	return mock.TouchActivityFunc(ctx, id, preview, at)
}

func (mock *channelRepoMock) TouchActivityCalls() []struct {
	Ctx     context.Context
	ID      uuid.UUID
	Preview string
	At      time.Time
} {
	mock.lockTouchActivity.RLock()
	calls := mock.calls.TouchActivity
	mock.lockTouchActivity.RUnlock()
	return calls
}

var _ memberRepo = &memberRepoMock{}

type memberRepoMock struct {
	ListUserIDsFunc func(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error)

	calls struct {
		ListUserIDs []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
	}
	lockListUserIDs sync.RWMutex
}

func (mock *memberRepoMock) ListUserIDs(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error) {
	if mock.ListUserIDsFunc == nil {
		panic("memberRepoMock.ListUserIDsFunc: method is nil but memberRepo.ListUserIDs was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
	}{Ctx: ctx, ChannelID: channelID}
	mock.lockListUserIDs.Lock()
	mock.calls.ListUserIDs = append(mock.calls.ListUserIDs, callInfo)
	mock.lockListUserIDs.Unlock()
	return mock.ListUserIDsFunc(ctx, channelID)
}

func (mock *memberRepoMock) ListUserIDsCalls() []struct {
	Ctx       context.Context
	ChannelID uuid.UUID
} {
	mock.lockListUserIDs.RLock()
	calls := mock.calls.ListUserIDs
	mock.lockListUserIDs.RUnlock()
	return calls
}

var _ permissions = &permissionsMock{}

type permissionsMock struct {
	CanReadFunc       func(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
	RequireMemberFunc func(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)

	calls struct {
		CanRead []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
		RequireMember []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
	}
	lockCanRead       sync.RWMutex
	lockRequireMember sync.RWMutex
}

func (mock *permissionsMock) CanRead(ctx context.Context, channelID uuid.UUID) (*permission.Access, error) {
	if mock.CanReadFunc == nil {
		panic("permissionsMock.CanReadFunc: method is nil but permissions.CanRead was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
	}{Ctx: ctx, ChannelID: channelID}
	mock.lockCanRead.Lock()
	mock.calls.CanRead = append(mock.calls.CanRead, callInfo)
	mock.lockCanRead.Unlock()
	return mock.CanReadFunc(ctx, channelID)
}

func (mock *permissionsMock) CanReadCalls() []struct {
	Ctx       context.Context
	ChannelID uuid.UUID
} {
	mock.lockCanRead.RLock()
	calls := mock.calls.CanRead
	mock.lockCanRead.RUnlock()
	return calls
}

func (mock *permissionsMock) RequireMember(ctx context.Context, channelID uuid.UUID) (*permission.Access, error) {
	if mock.RequireMemberFunc == nil {
		panic("permissionsMock.RequireMemberFunc: method is nil but permissions.RequireMember was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
	}{Ctx: ctx, ChannelID: channelID}
	mock.lockRequireMember.Lock()
	mock.calls.RequireMember = append(mock.calls.RequireMember, callInfo)
	mock.lockRequireMember.Unlock()
	return mock.RequireMemberFunc(ctx, channelID)
}

func (mock *permissionsMock) RequireMemberCalls() []struct {
	Ctx       context.Context
	ChannelID uuid.UUID
} {
	mock.lockRequireMember.RLock()
	calls := mock.calls.RequireMember
	mock.lockRequireMember.RUnlock()
	return calls
}

var _ publisher = &publisherMock{}

type publisherMock struct {
	PublishFunc func(ctx context.Context, ev domain.Event, notify ...uuid.UUID)

	calls struct {
		Publish []struct {
			Ctx    context.Context
			Ev     domain.Event
			Notify []uuid.UUID
		}
	}
	lockPublish sync.RWMutex
}

func (mock *publisherMock) Publish(ctx context.Context, ev domain.Event, notify ...uuid.UUID) {
	if mock.PublishFunc == nil {
		panic("publisherMock.PublishFunc: method is nil but publisher.Publish was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Ev     domain.Event
		Notify []uuid.UUID
	}{Ctx: ctx, Ev: ev, Notify: notify}
	mock.lockPublish.Lock()
	mock.calls.Publish = append(mock.calls.Publish, callInfo)
	mock.lockPublish.Unlock()
	mock.PublishFunc(ctx, ev, notify...)
}

func (mock *publisherMock) PublishCalls() []struct {
	Ctx    context.Context
	Ev     domain.Event
	Notify []uuid.UUID
} {
	mock.lockPublish.RLock()
	calls := mock.calls.Publish
	mock.lockPublish.RUnlock()
	return calls
}

var _ auditLogger = &auditLoggerMock{}

type auditLoggerMock struct {
	LogFunc func(ctx context.Context, record domain.AuditRecord) error

	calls struct {
		Log []struct {
			Ctx    context.Context
			Record domain.AuditRecord
		}
	}
	lockLog sync.RWMutex
}

func (mock *auditLoggerMock) Log(ctx context.Context, record domain.AuditRecord) error {
	if mock.LogFunc == nil {
		panic("auditLoggerMock.LogFunc: method is nil but auditLogger.Log was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Record domain.AuditRecord
	}{Ctx: ctx, Record: record}
	mock.lockLog.Lock()
	mock.calls.Log = append(mock.calls.Log, callInfo)
	mock.lockLog.Unlock()
	return mock.LogFunc(ctx, record)
}

func (mock *auditLoggerMock) LogCalls() []struct {
	Ctx    context.Context
	Record domain.AuditRecord
} {
	mock.lockLog.RLock()
	calls := mock.calls.Log
	mock.lockLog.RUnlock()
	return calls
}

var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Ctx context.Context
			Fn  func(ctx context.Context) error
		}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Fn  func(ctx context.Context) error
	}{Ctx: ctx, Fn: fn}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, callInfo)
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Ctx context.Context
	Fn  func(ctx context.Context) error
} {
	mock.lockRunInTx.RLock()
	calls := mock.calls.RunInTx
	mock.lockRunInTx.RUnlock()
	return calls
}

var _ translator = &translatorMock{}

type translatorMock struct {
	TranslateFunc func(ctx context.Context, text string, targetLang string) (string, error)

	calls struct {
		Translate []struct {
			Ctx        context.Context
			Text       string
			TargetLang string
		}
	}
	lockTranslate sync.RWMutex
}

func (mock *translatorMock) Translate(ctx context.Context, text string, targetLang string) (string, error) {
	if mock.TranslateFunc == nil {
		panic("translatorMock.TranslateFunc: method is nil but translator.Translate was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Text       string
		TargetLang string
	}{Ctx: ctx, Text: text, TargetLang: targetLang}
	mock.lockTranslate.Lock()
	mock.calls.Translate = append(mock.calls.Translate, callInfo)
	mock.lockTranslate.Unlock()
	return mock.TranslateFunc(ctx, text, targetLang)
}

func (mock *translatorMock) TranslateCalls() []struct {
	Ctx        context.Context
	Text       string
	TargetLang string
} {
	mock.lockTranslate.RLock()
	calls := mock.calls.Translate
	mock.lockTranslate.RUnlock()
	return calls
}

var _ blobStore = &blobStoreMock{}

type blobStoreMock struct {
	DeleteFunc func(bucket string, objectPath string) error

	calls struct {
		Delete []struct {
			Bucket     string
			ObjectPath string
		}
	}
	lockDelete sync.RWMutex
}

func (mock *blobStoreMock) Delete(bucket string, objectPath string) error {
	if mock.DeleteFunc == nil {
		panic("blobStoreMock.DeleteFunc: method is nil but blobStore.Delete was just called")
	}
	callInfo := struct {
		Bucket     string
		ObjectPath string
	}{Bucket: bucket, ObjectPath: objectPath}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(bucket, objectPath)
}

func (mock *blobStoreMock) DeleteCalls() []struct {
	Bucket     string
	ObjectPath string
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}
