package typing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

var _ permissions = &permissionsMock{}

type permissionsMock struct {
	RequireMemberFunc func(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)

	calls struct {
		RequireMember []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
	}
	lockRequireMember sync.RWMutex
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
