package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/channel"
	"github.com/heartmarshall/teamhub-backend/internal/wire"
)

type channelService interface {
	ListChannels(ctx context.Context) ([]domain.Channel, error)
	GetChannel(ctx context.Context, id uuid.UUID) (*domain.Channel, error)
	CreateChannel(ctx context.Context, input channel.CreateChannelInput) (*domain.Channel, error)
	UpdateChannel(ctx context.Context, id uuid.UUID, input channel.UpdateChannelInput) (*domain.Channel, error)
	DeleteChannel(ctx context.Context, id uuid.UUID) error
}

type memberService interface {
	ListMembers(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error)
	AddMembers(ctx context.Context, channelID uuid.UUID, userIDs []uuid.UUID) (int, error)
	JoinChannel(ctx context.Context, channelID uuid.UUID) (*domain.ChannelMember, error)
	RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error
	UpdateRole(ctx context.Context, channelID, userID uuid.UUID, role domain.MemberRole) (*domain.ChannelMember, error)
}

// ChannelHandler serves channel and membership endpoints.
type ChannelHandler struct {
	base
	channels channelService
	members  memberService
}

// NewChannelHandler creates a ChannelHandler.
func NewChannelHandler(channels channelService, members memberService, logger *slog.Logger) *ChannelHandler {
	return &ChannelHandler{base: newBase(logger, "channel"), channels: channels, members: members}
}

type createChannelRequest struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	IsPublic    bool        `json:"is_public"`
	Description string      `json:"description"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
}

type updateChannelRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AvatarURL   *string `json:"avatar_url"`
	IsPublic    *bool   `json:"is_public"`
}

type addMembersRequest struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

type addMembersResponse struct {
	Added int `json:"added"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// List handles GET /channels.
func (h *ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	channels, err := h.channels.ListChannels(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromChannels(channels))
}

// Get handles GET /channels/{id}.
func (h *ChannelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	ch, err := h.channels.GetChannel(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromChannel(*ch))
}

// Create handles POST /channels.
func (h *ChannelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createChannelRequest
	if !decode(w, r, &req) {
		return
	}
	typ, err := domain.ParseChannelType(req.Type)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	ch, err := h.channels.CreateChannel(r.Context(), channel.CreateChannelInput{
		Name:        req.Name,
		Type:        typ,
		IsPublic:    req.IsPublic,
		Description: req.Description,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromChannel(*ch))
}

// Update handles PATCH /channels/{id}.
func (h *ChannelHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateChannelRequest
	if !decode(w, r, &req) {
		return
	}

	ch, err := h.channels.UpdateChannel(r.Context(), id, channel.UpdateChannelInput{
		Name:        req.Name,
		Description: req.Description,
		AvatarURL:   req.AvatarURL,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromChannel(*ch))
}

// Delete handles DELETE /channels/{id}.
func (h *ChannelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.channels.DeleteChannel(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeNoContent(w)
}

// ListMembers handles GET /channels/{id}/members.
func (h *ChannelHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	members, err := h.members.ListMembers(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromMembers(members))
}

// AddMembers handles POST /channels/{id}/members.
func (h *ChannelHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req addMembersRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := h.members.AddMembers(r.Context(), id, req.UserIDs)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addMembersResponse{Added: n})
}

// Join handles POST /channels/{id}/join.
func (h *ChannelHandler) Join(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	m, err := h.members.JoinChannel(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromMember(*m))
}

// RemoveMember handles DELETE /channels/{id}/members/{userID}.
func (h *ChannelHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	if err := h.members.RemoveMember(r.Context(), id, userID); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeNoContent(w)
}

// UpdateMember handles PATCH /channels/{id}/members/{userID}.
func (h *ChannelHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	var req updateRoleRequest
	if !decode(w, r, &req) {
		return
	}
	role, err := domain.ParseMemberRole(req.Role)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	m, err := h.members.UpdateRole(r.Context(), id, userID, role)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromMember(*m))
}
