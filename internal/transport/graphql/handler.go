// Package graphql serves a read-only GraphQL view of channels, messages and
// members. Queries are parsed and validated against the embedded schema with
// gqlparser and answered with the gqlgen runtime marshalers; writes stay on
// the REST API.
package graphql

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/message"
)

const maxQueryBytes = 64 << 10

//go:embed schema.graphqls
var schemaSource string

// Schema is the parsed read-side schema.
var Schema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: schemaSource})

type channelService interface {
	ListChannels(ctx context.Context) ([]domain.Channel, error)
	GetChannel(ctx context.Context, id uuid.UUID) (*domain.Channel, error)
}

type memberService interface {
	ListMembers(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error)
}

type messageService interface {
	ListMessages(ctx context.Context, input message.ListMessagesInput) ([]domain.Message, error)
	GetThread(ctx context.Context, parentID uuid.UUID) (*message.Thread, error)
}

type userService interface {
	GetProfile(ctx context.Context) (*domain.User, error)
}

// Handler answers POST /graphql.
type Handler struct {
	log      *slog.Logger
	present  graphql.ErrorPresenterFunc
	channels channelService
	members  memberService
	messages messageService
	users    userService
}

// NewHandler creates a Handler. Message senders are resolved through the
// request's dataloaders, so the handler must run behind dataloader.Middleware.
func NewHandler(logger *slog.Logger, channels channelService, members memberService, messages messageService, users userService) *Handler {
	log := logger.With("handler", "graphql")
	return &Handler{
		log:      log,
		present:  NewErrorPresenter(log),
		channels: channels,
		members:  members,
		messages: messages,
		users:    users,
	}
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxQueryBytes)).Decode(&req); err != nil {
		writeResponse(w, http.StatusBadRequest, &graphql.Response{Errors: gqlerror.List{gqlerror.Errorf("invalid request body")}})
		return
	}
	resp, status := h.execute(r.Context(), req)
	writeResponse(w, status, resp)
}

func (h *Handler) execute(ctx context.Context, req request) (*graphql.Response, int) {
	doc, errs := gqlparser.LoadQuery(Schema, req.Query)
	if len(errs) > 0 {
		return &graphql.Response{Errors: errs}, http.StatusUnprocessableEntity
	}
	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return &graphql.Response{Errors: gqlerror.List{gqlerror.Errorf("operation %q not found", req.OperationName)}}, http.StatusUnprocessableEntity
	}
	vars, err := validator.VariableValues(Schema, op, req.Variables)
	if err != nil {
		var gqlErr *gqlerror.Error
		if !errors.As(err, &gqlErr) {
			gqlErr = gqlerror.Errorf("%s", err.Error())
		}
		return &graphql.Response{Errors: gqlerror.List{gqlErr}}, http.StatusUnprocessableEntity
	}

	ex := &execution{
		h: h,
		op: &graphql.OperationContext{
			RawQuery:      req.Query,
			Variables:     vars,
			OperationName: req.OperationName,
			Doc:           doc,
			Operation:     op,
		},
	}
	data := ex.query(ctx, op.SelectionSet)

	var buf bytes.Buffer
	data.MarshalGQL(&buf)
	return &graphql.Response{Data: buf.Bytes(), Errors: ex.errs}, http.StatusOK
}

func writeResponse(w http.ResponseWriter, status int, resp *graphql.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
