package receipt

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

var _ receiptRepo = &receiptRepoMock{}

type receiptRepoMock struct {
	MarkReadFunc       func(ctx context.Context, userID uuid.UUID, messageIDs []uuid.UUID, at time.Time) ([]domain.ReadReceipt, error)
	ListForChannelFunc func(ctx context.Context, channelID uuid.UUID) ([]domain.ReadReceipt, error)

	calls struct {
		MarkRead []struct {
			Ctx        context.Context
			UserID     uuid.UUID
			MessageIDs []uuid.UUID
			At         time.Time
		}
		ListForChannel []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
	}
	lockMarkRead       sync.RWMutex
	lockListForChannel sync.RWMutex
}

func (mock *receiptRepoMock) MarkRead(ctx context.Context, userID uuid.UUID, messageIDs []uuid.UUID, at time.Time) ([]domain.ReadReceipt, error) {
	if mock.MarkReadFunc == nil {
		panic("receiptRepoMock.MarkReadFunc: method is nil but receiptRepo.MarkRead was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		UserID     uuid.UUID
		MessageIDs []uuid.UUID
		At         time.Time
	}{Ctx: ctx, UserID: userID, MessageIDs: messageIDs, At: at}
	mock.lockMarkRead.Lock()
	mock.calls.MarkRead = append(mock.calls.MarkRead, callInfo)
	mock.lockMarkRead.Unlock()
	return mock.MarkReadFunc(ctx, userID, messageIDs, at)
}

func (mock *receiptRepoMock) MarkReadCalls() []struct {
	Ctx        context.Context
	UserID     uuid.UUID
	MessageIDs []uuid.UUID
	At         time.Time
} {
	mock.lockMarkRead.RLock()
	calls := mock.calls.MarkRead
	mock.lockMarkRead.RUnlock()
	return calls
}

func (mock *receiptRepoMock) ListForChannel(ctx context.Context, channelID uuid.UUID) ([]domain.ReadReceipt, error) {
	if mock.ListForChannelFunc == nil {
		panic("receiptRepoMock.ListForChannelFunc: method is nil but receiptRepo.ListForChannel was just called")
	}
	callInfo := struct {
		Ctx       context.Context
		ChannelID uuid.UUID
	}{Ctx: ctx, ChannelID: channelID}
	mock.lockListForChannel.Lock()
	mock.calls.ListForChannel = append(mock.calls.ListForChannel, callInfo)
	mock.lockListForChannel.Unlock()
	return mock.ListForChannelFunc(ctx, channelID)
}

func (mock *receiptRepoMock) ListForChannelCalls() []struct {
	Ctx       context.Context
	ChannelID uuid.UUID
} {
	mock.lockListForChannel.RLock()
	calls := mock.calls.ListForChannel
	mock.lockListForChannel.RUnlock()
	return calls
}

var _ permissions = &permissionsMock{}

type permissionsMock struct {
	CanReadFunc func(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)

	calls struct {
		CanRead []struct {
			Ctx       context.Context
			ChannelID uuid.UUID
		}
	}
	lockCanRead sync.RWMutex
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
