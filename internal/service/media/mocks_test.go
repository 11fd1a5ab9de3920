package media

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

var _ blobStore = &blobStoreMock{}

type blobStoreMock struct {
	HasBucketFunc      func(bucket string) bool
	MaxUploadBytesFunc func() int64
	PutFunc            func(ctx context.Context, bucket string, objectPath string, r io.Reader) (int64, error)
	OpenFunc           func(bucket string, objectPath string) (*os.File, error)
	SignURLFunc        func(bucket string, objectPath string) (domain.SignedURL, error)
	VerifyTokenFunc    func(token string) (string, string, error)

	calls struct {
		HasBucket []struct {
			Bucket string
		}
		MaxUploadBytes []struct{}
		Put []struct {
			Ctx        context.Context
			Bucket     string
			ObjectPath string
			R          io.Reader
		}
		Open []struct {
			Bucket     string
			ObjectPath string
		}
		SignURL []struct {
			Bucket     string
			ObjectPath string
		}
		VerifyToken []struct {
			Token string
		}
	}
	lockHasBucket      sync.RWMutex
	lockMaxUploadBytes sync.RWMutex
	lockPut            sync.RWMutex
	lockOpen           sync.RWMutex
	lockSignURL        sync.RWMutex
	lockVerifyToken    sync.RWMutex
}

func (mock *blobStoreMock) HasBucket(bucket string) bool {
	if mock.HasBucketFunc == nil {
		panic("blobStoreMock.HasBucketFunc: method is nil but blobStore.HasBucket was just called")
	}
	callInfo := struct {
		Bucket string
	}{Bucket: bucket}
	mock.lockHasBucket.Lock()
	mock.calls.HasBucket = append(mock.calls.HasBucket, callInfo)
	mock.lockHasBucket.Unlock()
	return mock.HasBucketFunc(bucket)
}

func (mock *blobStoreMock) HasBucketCalls() []struct {
	Bucket string
} {
	mock.lockHasBucket.RLock()
	calls := mock.calls.HasBucket
	mock.lockHasBucket.RUnlock()
	return calls
}

func (mock *blobStoreMock) MaxUploadBytes() int64 {
	if mock.MaxUploadBytesFunc == nil {
		panic("blobStoreMock.MaxUploadBytesFunc: method is nil but blobStore.MaxUploadBytes was just called")
	}
	callInfo := struct{}{}
	mock.lockMaxUploadBytes.Lock()
	mock.calls.MaxUploadBytes = append(mock.calls.MaxUploadBytes, callInfo)
	mock.lockMaxUploadBytes.Unlock()
	return mock.MaxUploadBytesFunc()
}

func (mock *blobStoreMock) MaxUploadBytesCalls() []struct{} {
	mock.lockMaxUploadBytes.RLock()
	calls := mock.calls.MaxUploadBytes
	mock.lockMaxUploadBytes.RUnlock()
	return calls
}

func (mock *blobStoreMock) Put(ctx context.Context, bucket string, objectPath string, r io.Reader) (int64, error) {
	if mock.PutFunc == nil {
		panic("blobStoreMock.PutFunc: method is nil but blobStore.Put was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Bucket     string
		ObjectPath string
		R          io.Reader
	}{Ctx: ctx, Bucket: bucket, ObjectPath: objectPath, R: r}
	mock.lockPut.Lock()
	mock.calls.Put = append(mock.calls.Put, callInfo)
	mock.lockPut.Unlock()
	return mock.PutFunc(ctx, bucket, objectPath, r)
}

func (mock *blobStoreMock) PutCalls() []struct {
	Ctx        context.Context
	Bucket     string
	ObjectPath string
	R          io.Reader
} {
	mock.lockPut.RLock()
	calls := mock.calls.Put
	mock.lockPut.RUnlock()
	return calls
}

func (mock *blobStoreMock) Open(bucket string, objectPath string) (*os.File, error) {
	if mock.OpenFunc == nil {
		panic("blobStoreMock.OpenFunc: method is nil but blobStore.Open was just called")
	}
	callInfo := struct {
		Bucket     string
		ObjectPath string
	}{Bucket: bucket, ObjectPath: objectPath}
	mock.lockOpen.Lock()
	mock.calls.Open = append(mock.calls.Open, callInfo)
	mock.lockOpen.Unlock()
	return mock.OpenFunc(bucket, objectPath)
}

func (mock *blobStoreMock) OpenCalls() []struct {
	Bucket     string
	ObjectPath string
} {
	mock.lockOpen.RLock()
	calls := mock.calls.Open
	mock.lockOpen.RUnlock()
	return calls
}

func (mock *blobStoreMock) SignURL(bucket string, objectPath string) (domain.SignedURL, error) {
	if mock.SignURLFunc == nil {
		panic("blobStoreMock.SignURLFunc: method is nil but blobStore.SignURL was just called")
	}
	callInfo := struct {
		Bucket     string
		ObjectPath string
	}{Bucket: bucket, ObjectPath: objectPath}
	mock.lockSignURL.Lock()
	mock.calls.SignURL = append(mock.calls.SignURL, callInfo)
	mock.lockSignURL.Unlock()
	return mock.SignURLFunc(bucket, objectPath)
}

func (mock *blobStoreMock) SignURLCalls() []struct {
	Bucket     string
	ObjectPath string
} {
	mock.lockSignURL.RLock()
	calls := mock.calls.SignURL
	mock.lockSignURL.RUnlock()
	return calls
}

func (mock *blobStoreMock) VerifyToken(token string) (string, string, error) {
	if mock.VerifyTokenFunc == nil {
		panic("blobStoreMock.VerifyTokenFunc: method is nil but blobStore.VerifyToken was just called")
	}
	callInfo := struct {
		Token string
	}{Token: token}
	mock.lockVerifyToken.Lock()
	mock.calls.VerifyToken = append(mock.calls.VerifyToken, callInfo)
	mock.lockVerifyToken.Unlock()
	return mock.VerifyTokenFunc(token)
}

func (mock *blobStoreMock) VerifyTokenCalls() []struct {
	Token string
} {
	mock.lockVerifyToken.RLock()
	calls := mock.calls.VerifyToken
	mock.lockVerifyToken.RUnlock()
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
