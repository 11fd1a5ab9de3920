package rest

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"time"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/media"
)

type mediaService interface {
	Upload(ctx context.Context, input media.UploadInput) (*domain.Attachment, error)
	SignedURLs(ctx context.Context, requests []media.SignRequest) ([]domain.SignedURL, error)
	Download(token string) (*os.File, string, error)
}

// MediaHandler serves uploads and signed downloads.
type MediaHandler struct {
	base
	svc mediaService
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(svc mediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{base: newBase(logger, "media"), svc: svc}
}

type signItem struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
}

type signRequest struct {
	Objects []signItem `json:"objects"`
}

type signedURL struct {
	Bucket    string     `json:"bucket"`
	Path      string     `json:"path"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Upload handles POST /channels/{id}/uploads/{bucket}?name=. The request
// body is the raw file.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	contentType := r.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}

	att, err := h.svc.Upload(r.Context(), media.UploadInput{
		ChannelID:   channelID,
		Bucket:      r.PathValue("bucket"),
		Name:        r.URL.Query().Get("name"),
		ContentType: contentType,
		Size:        r.ContentLength,
		Body:        r.Body,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, att)
}

// Sign handles POST /storage/sign. The response is aligned with the request;
// objects that could not be signed carry an empty url.
func (h *MediaHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if !decode(w, r, &req) {
		return
	}

	reqs := make([]media.SignRequest, len(req.Objects))
	for i, o := range req.Objects {
		reqs[i] = media.SignRequest{Bucket: o.Bucket, Path: o.Path}
	}
	signed, err := h.svc.SignedURLs(r.Context(), reqs)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make([]signedURL, len(signed))
	for i, s := range signed {
		out[i] = signedURL{Bucket: s.Bucket, Path: s.Path, URL: s.URL}
		if s.URL != "" {
			exp := s.ExpiresAt
			out[i].ExpiresAt = &exp
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// Download handles GET /storage/object?token=. The token is the only
// credential; no session is required.
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	f, name, err := h.svc.Download(r.URL.Query().Get("token"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrForbidden) || errors.Is(err, domain.ErrValidation) {
			writeError(w, http.StatusForbidden, "invalid or expired link")
			return
		}
		h.handleError(w, r, err)
		return
	}
	defer f.Close()

	var modTime time.Time
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
	w.Header().Set("Cache-Control", "private, max-age=300")
	http.ServeContent(w, r, name, modTime, f)
}
