package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/user"
	"github.com/heartmarshall/teamhub-backend/internal/wire"
)

type userService interface {
	UpdateProfile(ctx context.Context, input user.UpdateProfileInput) (*domain.User, error)
	SearchProfiles(ctx context.Context, input user.SearchProfilesInput) ([]domain.Profile, error)
	GetProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error)
}

// UserHandler serves profile endpoints.
type UserHandler struct {
	base
	svc userService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(svc userService, logger *slog.Logger) *UserHandler {
	return &UserHandler{base: newBase(logger, "user"), svc: svc}
}

type updateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

type profileBatchRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// UpdateMe handles PATCH /me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateProfile(r.Context(), user.UpdateProfileInput{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromUser(*u))
}

// Search handles GET /profiles?q=&limit=.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	profiles, err := h.svc.SearchProfiles(r.Context(), user.SearchProfilesInput{
		Query: r.URL.Query().Get("q"),
		Limit: limit,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWireProfiles(profiles))
}

// Batch handles POST /profiles/batch.
func (h *UserHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req profileBatchRequest
	if !decode(w, r, &req) {
		return
	}
	profiles, err := h.svc.GetProfiles(r.Context(), req.IDs)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWireProfiles(profiles))
}

func toWireProfiles(ps []domain.Profile) []wire.Profile {
	out := make([]wire.Profile, len(ps))
	for i, p := range ps {
		out[i] = wire.FromProfile(p)
	}
	return out
}
