// Package dataloader provides per-request loaders that batch profile lookups
// for message senders into a single query. Loaders call the user repository
// directly; profiles are public to every authenticated user.
package dataloader

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/wire"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

type profileRepo interface {
	GetProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error)
}

// Loaders holds the per-request loader instances.
type Loaders struct {
	ProfileByUserID *dataloader.Loader[uuid.UUID, *domain.Profile]
}

// NewLoaders creates loaders backed by profiles. Must be called per request,
// loaders cache results for their lifetime.
func NewLoaders(profiles profileRepo) *Loaders {
	return &Loaders{
		ProfileByUserID: dataloader.NewBatchedLoader(
			newProfileBatchFn(profiles),
			dataloader.WithWait[uuid.UUID, *domain.Profile](wait),
			dataloader.WithBatchCapacity[uuid.UUID, *domain.Profile](maxBatch),
		),
	}
}

func newProfileBatchFn(repo profileRepo) dataloader.BatchFunc[uuid.UUID, *domain.Profile] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.Profile] {
		profiles, err := repo.GetProfiles(ctx, keys)
		if err != nil {
			results := make([]*dataloader.Result[*domain.Profile], len(keys))
			for i := range results {
				results[i] = &dataloader.Result[*domain.Profile]{Error: err}
			}
			return results
		}

		byID := make(map[uuid.UUID]*domain.Profile, len(profiles))
		for i := range profiles {
			byID[profiles[i].UserID] = &profiles[i]
		}

		// Unknown users resolve to nil.
		results := make([]*dataloader.Result[*domain.Profile], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[*domain.Profile]{Data: byID[key]}
		}
		return results
	}
}

// AttachSenders fills Sender on each message from the context's loaders.
// Without loaders in ctx, or when the lookup fails, messages are left as is.
func AttachSenders(ctx context.Context, msgs []wire.Message) {
	l, ok := fromContext(ctx)
	if !ok || len(msgs) == 0 {
		return
	}

	thunks := make([]dataloader.Thunk[*domain.Profile], len(msgs))
	for i := range msgs {
		thunks[i] = l.ProfileByUserID.Load(ctx, msgs[i].SenderID)
	}
	for i, thunk := range thunks {
		p, err := thunk()
		if err != nil || p == nil {
			continue
		}
		wp := wire.FromProfile(*p)
		msgs[i].Sender = &wp
	}
}

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context. Panics if the middleware
// is not configured.
func FromContext(ctx context.Context) *Loaders {
	l, ok := fromContext(ctx)
	if !ok {
		panic("dataloader: loaders not found in context, is the middleware configured?")
	}
	return l
}

func fromContext(ctx context.Context) (*Loaders, bool) {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	return l, ok && l != nil
}

// Middleware instantiates loaders per request.
func Middleware(profiles profileRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(profiles))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
