// Package media uploads message attachments and voice recordings and issues
// signed download URLs for them.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/permission"
)

const (
	maxNameLen   = 200
	maxSignBatch = 200
)

type blobStore interface {
	HasBucket(bucket string) bool
	MaxUploadBytes() int64
	Put(ctx context.Context, bucket, objectPath string, r io.Reader) (int64, error)
	Open(bucket, objectPath string) (*os.File, error)
	SignURL(bucket, objectPath string) (domain.SignedURL, error)
	VerifyToken(token string) (bucket, objectPath string, err error)
}

type permissions interface {
	CanRead(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
	RequireMember(ctx context.Context, channelID uuid.UUID) (*permission.Access, error)
}

// Service implements media operations.
type Service struct {
	log   *slog.Logger
	blobs blobStore
	perms permissions
}

// NewService creates a new media service.
func NewService(logger *slog.Logger, blobs blobStore, perms permissions) *Service {
	return &Service{
		log:   logger.With("service", "media"),
		blobs: blobs,
		perms: perms,
	}
}

// UploadInput describes one file upload. Size is the declared length, or
// -1 when unknown; the store enforces the limit either way.
type UploadInput struct {
	ChannelID   uuid.UUID
	Bucket      string
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SignRequest names an object to sign.
type SignRequest struct {
	Bucket string
	Path   string
}

// Upload stores a file under the channel's prefix and returns the attachment
// descriptor to reference from a message.
func (s *Service) Upload(ctx context.Context, input UploadInput) (*domain.Attachment, error) {
	name := strings.TrimSpace(input.Name)
	var errs domain.FieldErrors
	if !s.blobs.HasBucket(input.Bucket) {
		errs.Add("bucket", "unknown bucket")
	}
	if name == "" {
		errs.Add("name", "required")
	} else if utf8.RuneCountInString(name) > maxNameLen {
		errs.Add("name", "too long")
	}
	if input.Size > s.blobs.MaxUploadBytes() {
		errs.Add("file", fmt.Sprintf("exceeds %d bytes", s.blobs.MaxUploadBytes()))
	}
	if input.Body == nil {
		errs.Add("file", "required")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	access, err := s.perms.RequireMember(ctx, input.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("media.Upload: %w", err)
	}

	objectPath := domain.MediaPath(input.ChannelID, name)
	n, err := s.blobs.Put(ctx, input.Bucket, objectPath, input.Body)
	if err != nil {
		return nil, fmt.Errorf("media.Upload: %w", err)
	}

	s.log.InfoContext(ctx, "media uploaded",
		slog.String("user_id", access.UserID.String()),
		slog.String("channel_id", input.ChannelID.String()),
		slog.String("bucket", input.Bucket),
		slog.Int64("size", n))

	return &domain.Attachment{
		Path:        objectPath,
		Name:        name,
		Size:        n,
		ContentType: input.ContentType,
	}, nil
}

// SignedURL issues a download URL for an object in a channel the caller may
// read.
func (s *Service) SignedURL(ctx context.Context, bucket, objectPath string) (*domain.SignedURL, error) {
	channelID, err := domain.MediaChannel(objectPath)
	if err != nil {
		return nil, err
	}
	if _, err := s.perms.CanRead(ctx, channelID); err != nil {
		return nil, fmt.Errorf("media.SignedURL: %w", err)
	}

	signed, err := s.blobs.SignURL(bucket, objectPath)
	if err != nil {
		return nil, fmt.Errorf("media.SignedURL: %w", err)
	}
	return &signed, nil
}

// SignedURLs signs a batch. The result is aligned with requests; entries
// that could not be signed have an empty URL. Access is checked once per
// channel.
func (s *Service) SignedURLs(ctx context.Context, requests []SignRequest) ([]domain.SignedURL, error) {
	if len(requests) > maxSignBatch {
		return nil, domain.NewValidationError("requests", "too many objects")
	}

	allowed := make(map[uuid.UUID]bool)
	out := make([]domain.SignedURL, len(requests))
	for i, req := range requests {
		out[i] = domain.SignedURL{Bucket: req.Bucket, Path: req.Path}

		channelID, err := domain.MediaChannel(req.Path)
		if err != nil {
			continue
		}
		ok, checked := allowed[channelID]
		if !checked {
			_, err := s.perms.CanRead(ctx, channelID)
			ok = err == nil
			allowed[channelID] = ok
		}
		if !ok {
			continue
		}

		signed, err := s.blobs.SignURL(req.Bucket, req.Path)
		if err != nil {
			s.log.DebugContext(ctx, "sign url", slog.String("path", req.Path), slog.String("error", err.Error()))
			continue
		}
		out[i] = signed
	}
	return out, nil
}

// Download resolves a signed URL token to the object it grants. The caller
// closes the returned file.
func (s *Service) Download(token string) (*os.File, string, error) {
	bucket, objectPath, err := s.blobs.VerifyToken(token)
	if err != nil {
		return nil, "", fmt.Errorf("media.Download: %w", err)
	}
	f, err := s.blobs.Open(bucket, objectPath)
	if err != nil {
		return nil, "", fmt.Errorf("media.Download: %w", err)
	}
	return f, downloadName(objectPath), nil
}

// downloadName strips the channel prefix and the uuid added on upload.
func downloadName(objectPath string) string {
	_, name, _ := strings.Cut(objectPath, "/")
	if len(name) > 37 && name[36] == '-' {
		return name[37:]
	}
	return name
}
