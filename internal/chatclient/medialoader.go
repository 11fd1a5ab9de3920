package chatclient

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

const (
	signedURLTTL    = time.Hour
	signedURLMargin = 5 * time.Minute
	maxSignInFlight = 8
)

type urlSigner interface {
	SignURL(ctx context.Context, bucket, path string) (domain.SignedURL, error)
}

type cachedURL struct {
	url     string
	expires time.Time
}

// MediaLoader resolves signed URLs of voice and attachment payloads. Results
// are cached per message and refreshed shortly before they expire, so only
// newly seen media is requested.
type MediaLoader struct {
	signer  urlSigner
	buckets Buckets
	clock   clockwork.Clock
	log     *slog.Logger

	mu    sync.Mutex
	cache map[string]cachedURL
}

// NewMediaLoader creates a loader.
func NewMediaLoader(signer urlSigner, buckets Buckets, clock clockwork.Clock, logger *slog.Logger) *MediaLoader {
	return &MediaLoader{
		signer:  signer,
		buckets: buckets,
		clock:   clock,
		log:     logger.With("component", "media_loader"),
		cache:   make(map[string]cachedURL),
	}
}

// VoiceKey and AttachmentKey name the entries returned by Resolve.
func VoiceKey(messageID uuid.UUID) string      { return "voice-" + messageID.String() }
func AttachmentKey(messageID uuid.UUID) string { return "attach-" + messageID.String() }

type signJob struct {
	key, bucket, path string
}

// Resolve returns signed URLs for the media of msgs keyed by VoiceKey and
// AttachmentKey (first attachment only). A failed request yields an empty URL
// and is retried on the next call; it never fails the batch.
func (l *MediaLoader) Resolve(ctx context.Context, msgs []domain.Message) map[string]string {
	var jobs []signJob
	for _, m := range msgs {
		if m.IsDeleted() {
			continue
		}
		if m.Voice != nil && m.Voice.Path != "" {
			jobs = append(jobs, signJob{key: VoiceKey(m.ID), bucket: l.buckets.Voice, path: m.Voice.Path})
		}
		if len(m.Attachments) > 0 {
			jobs = append(jobs, signJob{key: AttachmentKey(m.ID), bucket: l.buckets.Attachment, path: m.Attachments[0].Path})
		}
	}

	out := make(map[string]string, len(jobs))
	now := l.clock.Now()

	var todo []signJob
	l.mu.Lock()
	for _, j := range jobs {
		if c, ok := l.cache[j.key]; ok && now.Before(c.expires.Add(-signedURLMargin)) {
			out[j.key] = c.url
			continue
		}
		todo = append(todo, j)
	}
	l.mu.Unlock()

	if len(todo) == 0 {
		return out
	}

	var (
		g     errgroup.Group
		resMu sync.Mutex
	)
	g.SetLimit(maxSignInFlight)
	for _, j := range todo {
		g.Go(func() error {
			signed, err := l.signer.SignURL(ctx, j.bucket, j.path)
			url := signed.URL
			if err != nil {
				l.log.WarnContext(ctx, "sign url failed",
					slog.String("key", j.key),
					slog.String("error", err.Error()),
				)
				url = ""
			}

			resMu.Lock()
			out[j.key] = url
			resMu.Unlock()

			if url != "" {
				expires := signed.ExpiresAt
				if expires.IsZero() {
					expires = l.clock.Now().Add(signedURLTTL)
				}
				l.mu.Lock()
				l.cache[j.key] = cachedURL{url: url, expires: expires}
				l.mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Invalidate drops the cached URLs of a message.
func (l *MediaLoader) Invalidate(messageID uuid.UUID) {
	l.mu.Lock()
	delete(l.cache, VoiceKey(messageID))
	delete(l.cache, AttachmentKey(messageID))
	l.mu.Unlock()
}
