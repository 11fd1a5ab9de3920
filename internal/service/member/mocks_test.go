package member

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

var _ memberRepo = &memberRepoMock{}

type memberRepoMock struct {
	GetFunc        func(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) (*domain.ChannelMember, error)
	ListFunc       func(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error)
	AddFunc        func(ctx context.Context, members []domain.ChannelMember) (int, error)
	UpdateRoleFunc func(ctx context.Context, channelID uuid.UUID, userID uuid.UUID, role domain.MemberRole) error
	RemoveFunc     func(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) error

	calls struct {
		Get []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			UserID    uuid.UUID
		}
		List []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
		Add []struct {
			Ctx     context.Context
			Members []domain.ChannelMember
		}
		UpdateRole []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			UserID    uuid.UUID
			Role      domain.MemberRole
		}
		Remove []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			UserID    uuid.UUID
		}
	}
	lockGet        sync.RWMutex
	lockList       sync.RWMutex
	lockAdd        sync.RWMutex
	lockUpdateRole sync.RWMutex
	lockRemove     sync.RWMutex
}

func (mock *memberRepoMock) Get(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) (*domain.ChannelMember, error) {
	if mock.GetFunc == nil {
		panic("memberRepoMock.GetFunc: method is nil but memberRepo.Get was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		UserID    uuid.UUID
	}{Ctx: ctx, ChannelID: channelID, UserID: userID}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, channelID, userID)
}

func (mock *memberRepoMock) GetCalls() []struct {
	Ctx       context.Context
	ChannelID uuid.UUID
	UserID    uuid.UUID
} {
	mock.lockGet.RLock()
	calls := mock.calls.Get
	mock.lockGet.RUnlock()
	return calls
}

func (mock *memberRepoMock) List(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error) {
	if mock.ListFunc == nil {
		panic("memberRepoMock.ListFunc: method is nil but memberRepo.List was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
	}{Ctx: ctx, ChannelID: channelID}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, channelID)
}

func (mock *memberRepoMock) ListCalls() []struct {
	Ctx       context.Context
	ChannelID uuid.UUID
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
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

func (mock *memberRepoMock) UpdateRole(ctx context.Context, channelID uuid.UUID, userID uuid.UUID, role domain.MemberRole) error {
	if mock.UpdateRoleFunc == nil {
		panic("memberRepoMock.UpdateRoleFunc: method is nil but memberRepo.UpdateRole was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		UserID    uuid.UUID
		Role      domain.MemberRole
	}{Ctx: ctx, ChannelID: channelID, UserID: userID, Role: role}
	mock.lockUpdateRole.Lock()
	mock.calls.UpdateRole = append(mock.calls.UpdateRole, callInfo)
	mock.lockUpdateRole.Unlock()
	return mock.UpdateRoleFunc(ctx, channelID, userID, role)
}

func (mock *memberRepoMock) UpdateRoleCalls() []struct {
	Ctx       context.Context
	ChannelID uuid.UUID
	UserID    uuid.UUID
	Role      domain.MemberRole
} {
	mock.lockUpdateRole.RLock()
	calls := mock.calls.UpdateRole
	mock.lockUpdateRole.RUnlock()
	return calls
}

func (mock *memberRepoMock) Remove(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) error {
	if mock.RemoveFunc == nil {
		panic("memberRepoMock.RemoveFunc: method is nil but memberRepo.Remove was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
		UserID    uuid.UUID
	}{Ctx: ctx, ChannelID: channelID, UserID: userID}
	mock.lockRemove.Lock()
	mock.calls.Remove = append(mock.calls.Remove, callInfo)
	mock.lockRemove.Unlock()
	return mock.RemoveFunc(ctx, channelID, userID)
}

func (mock *memberRepoMock) RemoveCalls() []struct {
	Ctx       context.Context
	ChannelID uuid.UUID
	UserID    uuid.UUID
} {
	mock.lockRemove.RLock()
	calls := mock.calls.Remove
	mock.lockRemove.RUnlock()
	return calls
}

var _ permissions = &permissionsMock{}

type permissionsMock struct {
	CanReadFunc       func(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
	RequireMemberFunc func(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
	RequireRoleFunc   func(ctx context.Context, channelID uuid.UUID, roles ...domain.MemberRole) (*permission.Access, error)

	calls struct {
		CanRead []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
		RequireMember []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
		RequireRole []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			Roles     []domain.MemberRole
		}
	}
	lockCanRead       sync.RWMutex
	lockRequireMember sync.RWMutex
	lockRequireRole   sync.RWMutex
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
