// Package storage is a filesystem-backed blob store with named buckets and
// time-limited signed download URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/teamhub-backend/internal/config"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// Store keeps objects under <root>/<bucket>/<path>.
type Store struct {
	root     string
	baseURL  string
	buckets  map[string]struct{}
	maxBytes int64
	ttl      time.Duration
	signer   *signer
	clock    clockwork.Clock
}

// New creates the bucket directories under cfg.RootDir.
func New(cfg config.StorageConfig, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	s := &Store{
		root:     cfg.RootDir,
		baseURL:  strings.TrimRight(cfg.PublicBaseURL, "/"),
		buckets:  map[string]struct{}{cfg.VoiceBucket: {}, cfg.AttachmentBucket: {}},
		maxBytes: cfg.MaxUploadBytes,
		ttl:      cfg.SignedURLTTL,
		signer:   newSigner(cfg.SigningSecret, clock),
		clock:    clock,
	}

	for b := range s.buckets {
		if err := os.MkdirAll(filepath.Join(s.root, b), 0o750); err != nil {
			return nil, fmt.Errorf("storage: create bucket %s: %w", b, err)
		}
	}
	return s, nil
}

// HasBucket reports whether bucket is configured.
func (s *Store) HasBucket(bucket string) bool {
	_, ok := s.buckets[bucket]
	return ok
}

// MaxUploadBytes returns the upload size limit.
func (s *Store) MaxUploadBytes() int64 {
	return s.maxBytes
}

// Ping checks that every bucket directory accepts writes.
func (s *Store) Ping(ctx context.Context) error {
	for b := range s.buckets {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := os.CreateTemp(filepath.Join(s.root, b), ".ping-*")
		if err != nil {
			return fmt.Errorf("storage: bucket %s: %w", b, err)
		}
		_ = f.Close()
		_ = os.Remove(f.Name())
	}
	return nil
}

// Put stores r at bucket/objectPath. The object is written to a temporary
// file first so readers never observe partial content.
func (s *Store) Put(ctx context.Context, bucket, objectPath string, r io.Reader) (int64, error) {
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return 0, fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("storage: create temp: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, io.LimitReader(&ctxReader{ctx: ctx, r: r}, s.maxBytes+1))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("storage: write: %w", err)
	}
	if n > s.maxBytes {
		return 0, domain.NewValidationError("file", fmt.Sprintf("exceeds %d bytes", s.maxBytes))
	}

	if err := os.Rename(tmp.Name(), full); err != nil {
		return 0, fmt.Errorf("storage: commit: %w", err)
	}
	return n, nil
}

// Open returns a reader for an object. The caller closes it.
func (s *Store) Open(bucket, objectPath string) (*os.File, error) {
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("object %s/%s: %w", bucket, objectPath, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	return f, nil
}

// Delete removes an object. Missing objects are not an error.
func (s *Store) Delete(bucket, objectPath string) error {
	full, err := s.resolve(bucket, objectPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete: %w", err)
	}
	return nil
}

// SignURL issues a download URL for an object valid for the configured TTL.
func (s *Store) SignURL(bucket, objectPath string) (domain.SignedURL, error) {
	if _, err := s.resolve(bucket, objectPath); err != nil {
		return domain.SignedURL{}, err
	}

	token, exp, err := s.signer.sign(bucket, objectPath, s.ttl)
	if err != nil {
		return domain.SignedURL{}, err
	}
	return domain.SignedURL{
		Bucket:    bucket,
		Path:      objectPath,
		URL:       s.baseURL + "/storage/object?token=" + url.QueryEscape(token),
		ExpiresAt: exp,
	}, nil
}

// VerifyToken checks a signed URL token and returns the object it grants.
func (s *Store) VerifyToken(token string) (bucket, objectPath string, err error) {
	bucket, objectPath, err = s.signer.verify(token)
	if err != nil {
		return "", "", err
	}
	if _, err := s.resolve(bucket, objectPath); err != nil {
		return "", "", domain.ErrUnauthorized
	}
	return bucket, objectPath, nil
}

func (s *Store) resolve(bucket, objectPath string) (string, error) {
	if !s.HasBucket(bucket) {
		return "", domain.NewValidationError("bucket", "unknown bucket "+bucket)
	}
	if !validPath(objectPath) {
		return "", domain.NewValidationError("path", "invalid object path")
	}
	return filepath.Join(s.root, bucket, filepath.FromSlash(objectPath)), nil
}

func validPath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") || strings.ContainsRune(p, 0) {
		return false
	}
	if path.Clean(p) != p {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || seg == "." || strings.HasPrefix(seg, ".upload-") {
			return false
		}
	}
	return true
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
