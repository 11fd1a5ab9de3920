package permission

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

var _ channelRepo = &channelRepoMock{}

type channelRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID, viewer uuid.UUID) (*domain.Channel, error)

	calls struct {
		GetByID []struct {
			Ctx    context.Context
			ID     uuid.UUID
			Viewer uuid.UUID
		}
	}
	lockGetByID sync.RWMutex
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

var _ memberRepo = &memberRepoMock{}

type memberRepoMock struct {
	GetFunc func(ctx context.Context, channelID uuid.UUID, userID uuid.UUID) (*domain.ChannelMember, error)

	calls struct {
		Get []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
			UserID    uuid.UUID
		}
	}
	lockGet sync.RWMutex
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
