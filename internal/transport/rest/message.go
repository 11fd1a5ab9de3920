package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/message"
	"github.com/heartmarshall/teamhub-backend/internal/transport/dataloader"
	"github.com/heartmarshall/teamhub-backend/internal/wire"
)

type messageService interface {
	ListMessages(ctx context.Context, input message.ListMessagesInput) ([]domain.Message, error)
	GetThread(ctx context.Context, parentID uuid.UUID) (*message.Thread, error)
	SendMessage(ctx context.Context, input message.SendMessageInput) (*domain.Message, error)
	EditMessage(ctx context.Context, id uuid.UUID, content string) (*domain.Message, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error
	ToggleReaction(ctx context.Context, id uuid.UUID, emoji string) (*domain.Message, error)
	TranslateMessage(ctx context.Context, id uuid.UUID, targetLang string) (string, error)
}

type typingService interface {
	SetTyping(ctx context.Context, channelID uuid.UUID, isTyping bool) error
}

type receiptService interface {
	MarkRead(ctx context.Context, messageIDs []uuid.UUID) ([]domain.ReadReceipt, error)
	ListForChannel(ctx context.Context, channelID uuid.UUID) (map[uuid.UUID][]domain.ReadReceipt, error)
}

// MessageHandler serves messages, threads, reactions, typing and receipts.
type MessageHandler struct {
	base
	messages messageService
	typing   typingService
	receipts receiptService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messages messageService, typing typingService, receipts receiptService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{base: newBase(logger, "message"), messages: messages, typing: typing, receipts: receipts}
}

type sendMessageRequest struct {
	Content     string               `json:"content"`
	Type        string               `json:"type"`
	Attachments []domain.Attachment  `json:"attachments"`
	Voice       *domain.VoicePayload `json:"voice"`
	ParentID    *uuid.UUID           `json:"parent_id"`
}

type editMessageRequest struct {
	Content string `json:"content"`
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

type translateRequest struct {
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	MessageID  uuid.UUID `json:"message_id"`
	TargetLang string    `json:"target_lang"`
	Text       string    `json:"text"`
}

type threadResponse struct {
	Parent  wire.Message   `json:"parent"`
	Replies []wire.Message `json:"replies"`
}

type typingRequest struct {
	IsTyping *bool `json:"is_typing"`
}

type markReadRequest struct {
	MessageIDs []uuid.UUID `json:"message_ids"`
}

// List handles GET /channels/{id}/messages?before=&limit=&q=.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	before, err := queryTime(r, "before")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	msgs, err := h.messages.ListMessages(r.Context(), message.ListMessagesInput{
		ChannelID: channelID,
		Before:    before,
		Limit:     limit,
		Search:    r.URL.Query().Get("q"),
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := wire.FromMessages(msgs)
	dataloader.AttachSenders(r.Context(), out)
	writeJSON(w, http.StatusOK, out)
}

// Send handles POST /channels/{id}/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req sendMessageRequest
	if !decode(w, r, &req) {
		return
	}

	typ := domain.MessageTypeText
	if strings.TrimSpace(req.Type) != "" {
		parsed, err := domain.ParseMessageType(req.Type)
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		typ = parsed
	}

	msg, err := h.messages.SendMessage(r.Context(), message.SendMessageInput{
		ChannelID:   channelID,
		Content:     req.Content,
		Type:        typ,
		Attachments: req.Attachments,
		Voice:       req.Voice,
		ParentID:    req.ParentID,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeMessage(w, r, http.StatusCreated, msg)
}

// Edit handles PATCH /messages/{id}.
func (h *MessageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req editMessageRequest
	if !decode(w, r, &req) {
		return
	}
	msg, err := h.messages.EditMessage(r.Context(), id, req.Content)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeMessage(w, r, http.StatusOK, msg)
}

// Delete handles DELETE /messages/{id}.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.messages.DeleteMessage(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeNoContent(w)
}

// Thread handles GET /messages/{id}/thread.
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	thread, err := h.messages.GetThread(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	// Parent and replies share one loader batch.
	all := wire.FromMessages(append([]domain.Message{*thread.Parent}, thread.Replies...))
	dataloader.AttachSenders(r.Context(), all)
	writeJSON(w, http.StatusOK, threadResponse{Parent: all[0], Replies: all[1:]})
}

// React handles POST /messages/{id}/reactions. Reacting twice with the same
// emoji removes the reaction.
func (h *MessageHandler) React(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req reactionRequest
	if !decode(w, r, &req) {
		return
	}
	msg, err := h.messages.ToggleReaction(r.Context(), id, req.Emoji)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeMessage(w, r, http.StatusOK, msg)
}

// Translate handles POST /messages/{id}/translate.
func (h *MessageHandler) Translate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req translateRequest
	if !decode(w, r, &req) {
		return
	}
	text, err := h.messages.TranslateMessage(r.Context(), id, req.TargetLang)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{MessageID: id, TargetLang: req.TargetLang, Text: text})
}

// Typing handles POST /channels/{id}/typing. An empty body means typing.
func (h *MessageHandler) Typing(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req typingRequest
	if !decode(w, r, &req) {
		return
	}
	isTyping := req.IsTyping == nil || *req.IsTyping

	if err := h.typing.SetTyping(r.Context(), channelID, isTyping); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// MarkRead handles POST /receipts.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if !decode(w, r, &req) {
		return
	}
	receipts, err := h.receipts.MarkRead(r.Context(), req.MessageIDs)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	out := make([]wire.Receipt, len(receipts))
	for i, rc := range receipts {
		out[i] = wire.FromReceipt(rc)
	}
	writeJSON(w, http.StatusOK, out)
}

// Receipts handles GET /channels/{id}/receipts, keyed by message id.
func (h *MessageHandler) Receipts(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	byMessage, err := h.receipts.ListForChannel(r.Context(), channelID)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	out := make(map[uuid.UUID][]wire.Receipt, len(byMessage))
	for id, rs := range byMessage {
		list := make([]wire.Receipt, len(rs))
		for i, rc := range rs {
			list[i] = wire.FromReceipt(rc)
		}
		out[id] = list
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *MessageHandler) writeMessage(w http.ResponseWriter, r *http.Request, status int, msg *domain.Message) {
	out := []wire.Message{wire.FromMessage(*msg)}
	dataloader.AttachSenders(r.Context(), out)
	writeJSON(w, status, out[0])
}
