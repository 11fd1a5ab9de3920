package channel

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

var _ channelRepo = &channelRepoMock{}

type channelRepoMock struct {
	GetByIDFunc     func(ctx context.Context, id uuid.UUID, viewer uuid.UUID) (*domain.Channel, error)
	GetByDMKeyFunc  func(ctx context.Context, key string, viewer uuid.UUID) (*domain.Channel, error)
	ListVisibleFunc func(ctx context.Context, viewer uuid.UUID) ([]domain.Channel, error)
	CreateFunc      func(ctx context.Context, ch *domain.Channel, dmKey *string) error
	UpdateFunc      func(ctx context.Context, id uuid.UUID, p domain.ChannelUpdateParams) error
	DeleteFunc      func(ctx context.Context, id uuid.UUID) error

	calls struct {
		GetByID []struct {
			Ctx    context.Context
			ID     uuid.UUID
			Viewer uuid.UUID
		}
		GetByDMKey []struct {
			Ctx    context.Context
			Key    string
			Viewer uuid.UUID
		}
		ListVisible []struct {
			Ctx    context.Context
			Viewer uuid.UUID
		}
		Create []struct {
			Ctx   context.Context
			Ch    *domain.Channel
			DmKey *string
		}
		Update []struct {
			Ctx context.Context
			ID  uuid.UUID
			P   domain.ChannelUpdateParams
		}
		Delete []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
	}
	lockGetByID     sync.RWMutex
	lockGetByDMKey  sync.RWMutex
	lockListVisible sync.RWMutex
	lockCreate      sync.RWMutex
	lockUpdate      sync.RWMutex
	lockDelete      sync.RWMutex
}

func (mock *channelRepoMock) GetByID(ctx context.Context, id uuid.UUID, viewer uuid.UUID) (*domain.Channel, error) {
	if mock.GetByIDFunc == nil {
		panic("channelRepoMock.GetByIDFunc: method is nil but channelRepo.GetByID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		Viewer uuid.UUID
	}{Ctx: ctx, ID: id, Viewer: viewer}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id, viewer)
}

func (mock *channelRepoMock) GetByIDCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	Viewer uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *channelRepoMock) GetByDMKey(ctx context.Context, key string, viewer uuid.UUID) (*domain.Channel, error) {
	if mock.GetByDMKeyFunc == nil {
		panic("channelRepoMock.GetByDMKeyFunc: method is nil but channelRepo.GetByDMKey was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Key    string
		Viewer uuid.UUID
	}{Ctx: ctx, Key: key, Viewer: viewer}
	mock.lockGetByDMKey.Lock()
	mock.calls.GetByDMKey = append(mock.calls.GetByDMKey, callInfo)
	mock.lockGetByDMKey.Unlock()
	return mock.GetByDMKeyFunc(ctx, key, viewer)
}

func (mock *channelRepoMock) GetByDMKeyCalls() []struct {
	Ctx    context.Context
	Key    string
	Viewer uuid.UUID
} {
	mock.lockGetByDMKey.RLock()
	calls := mock.calls.GetByDMKey
	mock.lockGetByDMKey.RUnlock()
	return calls
}

func (mock *channelRepoMock) ListVisible(ctx context.Context, viewer uuid.UUID) ([]domain.Channel, error) {
	if mock.ListVisibleFunc == nil {
		panic("channelRepoMock.ListVisibleFunc: method is nil but channelRepo.ListVisible was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		Viewer uuid.UUID
	}{Ctx: ctx, Viewer: viewer}
	mock.lockListVisible.Lock()
	mock.calls.ListVisible = append(mock.calls.ListVisible, callInfo)
	mock.lockListVisible.Unlock()
	return mock.ListVisibleFunc(ctx, viewer)
}

func (mock *channelRepoMock) ListVisibleCalls() []struct {
	Ctx    context.Context
	Viewer uuid.UUID
} {
	mock.lockListVisible.RLock()
	calls := mock.calls.ListVisible
	mock.lockListVisible.RUnlock()
	return calls
}

func (mock *channelRepoMock) Create(ctx context.Context, ch *domain.Channel, dmKey *string) error {
	if mock.CreateFunc == nil {
		panic("channelRepoMock.CreateFunc: method is nil but channelRepo.Create was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Ch    *domain.Channel
		DmKey *string
	}{Ctx: ctx, Ch: ch, DmKey: dmKey}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, ch, dmKey)
}

func (mock *channelRepoMock) CreateCalls() []struct {
	Ctx   context.Context
	Ch    *domain.Channel
	DmKey *string
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}

func (mock *channelRepoMock) Update(ctx context.Context, id uuid.UUID, p domain.ChannelUpdateParams) error {
	if mock.UpdateFunc == nil {
		panic("channelRepoMock.UpdateFunc: method is nil but channelRepo.Update was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
		P   domain.ChannelUpdateParams
	}{Ctx: ctx, ID: id, P: p}
	mock.lockUpdate.Lock()
	mock.calls.Update = append(mock.calls.Update, callInfo)
	mock.lockUpdate.Unlock()
	return mock.UpdateFunc(ctx, id, p)
}

func (mock *channelRepoMock) UpdateCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
	P   domain.ChannelUpdateParams
} {
	mock.lockUpdate.RLock()
	calls := mock.calls.Update
	mock.lockUpdate.RUnlock()
	return calls
}

func (mock *channelRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("channelRepoMock.DeleteFunc: method is nil but channelRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, id)
}

func (mock *channelRepoMock) DeleteCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

var _ memberRepo = &memberRepoMock{}

type memberRepoMock struct {
	AddFunc         func(ctx context.Context, members []domain.ChannelMember) (int, error)
	ListUserIDsFunc func(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error)

	calls struct {
		Add []struct {
			Ctx     context.Context
			Members []domain.ChannelMember
		}
		ListUserIDs []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
	}
	lockAdd         sync.RWMutex
	lockListUserIDs sync.RWMutex
}

func (mock *memberRepoMock) Add(ctx context.Context, members []domain.ChannelMember) (int, error) {
	if mock.AddFunc == nil {
		panic("memberRepoMock.AddFunc: method is nil but memberRepo.Add was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Members []domain.ChannelMember
	}{Ctx: ctx, Members: members}
	mock.lockAdd.Lock()
	mock.calls.Add = append(mock.calls.Add, callInfo)
	mock.lockAdd.Unlock()
	return mock.AddFunc(ctx, members)
}

func (mock *memberRepoMock) AddCalls() []struct {
	Ctx     context.Context
	Members []domain.ChannelMember
} {
	mock.lockAdd.RLock()
	calls := mock.calls.Add
	mock.lockAdd.RUnlock()
	return calls
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
	CanReadFunc     func(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
	RequireRoleFunc func(ctx context.Context, channelID uuid.UUID, roles ...domain.MemberRole) (*permission.Access, error)

	calls struct {
		CanRead []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
		RequireRole []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			Roles     []domain.MemberRole
		}
	}
	lockCanRead     sync.RWMutex
	lockRequireRole sync.RWMutex
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

func (mock *permissionsMock) RequireRole(ctx context.Context, channelID uuid.UUID, roles ...domain.MemberRole) (*permission.Access, error) {
	if mock.RequireRoleFunc == nil {
		panic("permissionsMock.RequireRoleFunc: method is nil but permissions.RequireRole was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		Roles     []domain.MemberRole
	}{Ctx: ctx, ChannelID: channelID, Roles: roles}
	mock.lockRequireRole.Lock()
	mock.calls.RequireRole = append(mock.calls.RequireRole, callInfo)
	mock.lockRequireRole.Unlock()
	return mock.RequireRoleFunc(ctx, channelID, roles...)
}

func (mock *permissionsMock) RequireRoleCalls() []struct {
	Ctx       context.Context
	ChannelID uuid.UUID
	Roles     []domain.MemberRole
} {
	mock.lockRequireRole.RLock()
	calls := mock.calls.RequireRole
	mock.lockRequireRole.RUnlock()
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
