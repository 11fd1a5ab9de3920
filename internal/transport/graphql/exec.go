package graphql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/99designs/gqlgen/graphql"
	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/message"
	"github.com/heartmarshall/teamhub-backend/internal/transport/dataloader"
)

var errIntrospection = fmt.Errorf("introspection is disabled: %w", domain.ErrForbidden)

// execution resolves one operation. Fields resolve sequentially; sender
// lookups for a list of messages are issued together so the loader batches
// them.
type execution struct {
	h    *Handler
	op   *graphql.OperationContext
	errs gqlerror.List
}

// fieldError is a failure in a non-null field. It nulls every non-null
// ancestor up to the root, which nulls data.
type fieldError struct {
	path ast.Path
	err  error
}

func (e *fieldError) Error() string { return e.err.Error() }
func (e *fieldError) Unwrap() error { return e.err }

type profileThunk func() (*domain.Profile, error)

func (ex *execution) fields(sel ast.SelectionSet, typeName string) []graphql.CollectedField {
	return graphql.CollectFields(ex.op, sel, []string{typeName})
}

func (ex *execution) fail(ctx context.Context, path ast.Path, err error) {
	gqlErr := ex.h.present(ctx, err)
	gqlErr.Path = path
	ex.errs = append(ex.errs, gqlErr)
}

func (ex *execution) query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	fields := ex.fields(sel, "Query")
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		path := ast.Path{ast.PathName(f.Alias)}
		v, err := ex.root(ctx, f, path)
		if err != nil {
			var fe *fieldError
			if errors.As(err, &fe) {
				path = fe.path
			}
			ex.fail(ctx, path, err)
			return graphql.Null
		}
		out.Values[i] = v
	}
	return out
}

func (ex *execution) root(ctx context.Context, f graphql.CollectedField, path ast.Path) (graphql.Marshaler, error) {
	args := f.ArgumentMap(ex.op.Variables)
	switch f.Name {
	case "__typename":
		return graphql.MarshalString("Query"), nil

	case "__schema", "__type":
		return nil, errIntrospection

	case "me":
		u, err := ex.h.users.GetProfile(ctx)
		if err != nil {
			return nil, err
		}
		return ex.user(f.Selections, u), nil

	case "channels":
		chs, err := ex.h.channels.ListChannels(ctx)
		if err != nil {
			return nil, err
		}
		out := make(graphql.Array, len(chs))
		for i := range chs {
			v, err := ex.channel(ctx, f.Selections, &chs[i], appendPath(path, ast.PathIndex(i)))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	case "channel":
		id, err := uuidArg(args, "id")
		if err != nil {
			return nil, err
		}
		ch, err := ex.h.channels.GetChannel(ctx, id)
		if err != nil {
			return nil, err
		}
		return ex.channel(ctx, f.Selections, ch, path)

	case "messages":
		input, err := listMessagesArgs(args)
		if err != nil {
			return nil, err
		}
		msgs, err := ex.h.messages.ListMessages(ctx, input)
		if err != nil {
			return nil, err
		}
		return ex.messageList(ctx, f.Selections, msgs, path), nil

	case "thread":
		parentID, err := uuidArg(args, "parentId")
		if err != nil {
			return nil, err
		}
		th, err := ex.h.messages.GetThread(ctx, parentID)
		if err != nil {
			return nil, err
		}
		return ex.thread(ctx, f.Selections, th, path), nil

	case "members":
		channelID, err := uuidArg(args, "channelId")
		if err != nil {
			return nil, err
		}
		members, err := ex.h.members.ListMembers(ctx, channelID)
		if err != nil {
			return nil, err
		}
		return ex.memberList(ctx, f.Selections, members), nil
	}
	return nil, fmt.Errorf("unknown field Query.%s", f.Name)
}

func (ex *execution) user(sel ast.SelectionSet, u *domain.User) graphql.Marshaler {
	fields := ex.fields(sel, "User")
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("User")
		case "id":
			out.Values[i] = marshalUUID(u.ID)
		case "username":
			out.Values[i] = graphql.MarshalString(u.Username)
		case "displayName":
			out.Values[i] = graphql.MarshalString(u.DisplayName)
		case "avatarUrl":
			out.Values[i] = optString(u.AvatarURL)
		}
	}
	return out
}

func (ex *execution) profile(sel ast.SelectionSet, p *domain.Profile) graphql.Marshaler {
	if p == nil {
		return graphql.Null
	}
	fields := ex.fields(sel, "Profile")
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Profile")
		case "userId":
			out.Values[i] = marshalUUID(p.UserID)
		case "displayName":
			out.Values[i] = graphql.MarshalString(p.DisplayName)
		case "avatarUrl":
			out.Values[i] = optString(p.AvatarURL)
		}
	}
	return out
}

func (ex *execution) channel(ctx context.Context, sel ast.SelectionSet, ch *domain.Channel, path ast.Path) (graphql.Marshaler, error) {
	fields := ex.fields(sel, "Channel")
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Channel")
		case "id":
			out.Values[i] = marshalUUID(ch.ID)
		case "name":
			out.Values[i] = graphql.MarshalString(ch.Name)
		case "type":
			out.Values[i] = graphql.MarshalString(ch.Type.String())
		case "description":
			out.Values[i] = optString(ch.Description)
		case "isPublic":
			out.Values[i] = graphql.MarshalBoolean(ch.IsPublic)
		case "unreadCount":
			out.Values[i] = graphql.MarshalInt(ch.UnreadCount)
		case "memberCount":
			out.Values[i] = graphql.MarshalInt(ch.MemberCount)
		case "lastMessagePreview":
			out.Values[i] = optString(ch.LastMessagePreview)
		case "lastActivityAt":
			out.Values[i] = optTime(ch.LastActivityAt)
		case "createdAt":
			out.Values[i] = marshalTime(ch.CreatedAt)
		case "members":
			members, err := ex.h.members.ListMembers(ctx, ch.ID)
			if err != nil {
				return nil, &fieldError{path: appendPath(path, ast.PathName(f.Alias)), err: err}
			}
			out.Values[i] = ex.memberList(ctx, f.Selections, members)
		}
	}
	return out, nil
}

// memberList renders members. Profiles the repository did not join are
// fetched through the loader.
func (ex *execution) memberList(ctx context.Context, sel ast.SelectionSet, members []domain.ChannelMember) graphql.Marshaler {
	thunks := make([]profileThunk, len(members))
	if selects(ex.fields(sel, "Member"), "profile") {
		loaders := dataloader.FromContext(ctx)
		for i := range members {
			if members[i].Profile == nil {
				thunks[i] = profileThunk(loaders.ProfileByUserID.Load(ctx, members[i].UserID))
			}
		}
	}

	out := make(graphql.Array, len(members))
	for i := range members {
		out[i] = ex.member(sel, &members[i], thunks[i])
	}
	return out
}

func (ex *execution) member(sel ast.SelectionSet, m *domain.ChannelMember, load profileThunk) graphql.Marshaler {
	fields := ex.fields(sel, "Member")
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Member")
		case "userId":
			out.Values[i] = marshalUUID(m.UserID)
		case "role":
			out.Values[i] = graphql.MarshalString(m.Role.String())
		case "joinedAt":
			out.Values[i] = marshalTime(m.JoinedAt)
		case "profile":
			p := m.Profile
			if p == nil && load != nil {
				// A failed lookup leaves the profile null.
				p, _ = load()
			}
			out.Values[i] = ex.profile(f.Selections, p)
		}
	}
	return out
}

func (ex *execution) thread(ctx context.Context, sel ast.SelectionSet, th *message.Thread, path ast.Path) graphql.Marshaler {
	// One list so parent and reply senders share a batch.
	all := make([]domain.Message, 0, len(th.Replies)+1)
	all = append(all, *th.Parent)
	all = append(all, th.Replies...)

	fields := ex.fields(sel, "Thread")
	var wantsSender bool
	for _, f := range fields {
		if f.Name != "__typename" && selects(ex.fields(f.Selections, "Message"), "sender") {
			wantsSender = true
		}
	}
	thunks := ex.loadSenders(ctx, all, wantsSender)

	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Thread")
		case "parent":
			out.Values[i] = ex.message(ctx, f.Selections, &all[0], thunks[0], appendPath(path, ast.PathName(f.Alias)))
		case "replies":
			replies := make(graphql.Array, len(th.Replies))
			for j := range th.Replies {
				p := appendPath(path, ast.PathName(f.Alias), ast.PathIndex(j))
				replies[j] = ex.message(ctx, f.Selections, &all[j+1], thunks[j+1], p)
			}
			out.Values[i] = replies
		}
	}
	return out
}

func (ex *execution) messageList(ctx context.Context, sel ast.SelectionSet, msgs []domain.Message, path ast.Path) graphql.Marshaler {
	thunks := ex.loadSenders(ctx, msgs, selects(ex.fields(sel, "Message"), "sender"))
	out := make(graphql.Array, len(msgs))
	for i := range msgs {
		out[i] = ex.message(ctx, sel, &msgs[i], thunks[i], appendPath(path, ast.PathIndex(i)))
	}
	return out
}

// loadSenders queues every sender lookup before any is awaited.
func (ex *execution) loadSenders(ctx context.Context, msgs []domain.Message, wanted bool) []profileThunk {
	thunks := make([]profileThunk, len(msgs))
	if !wanted {
		return thunks
	}
	loaders := dataloader.FromContext(ctx)
	for i := range msgs {
		thunks[i] = profileThunk(loaders.ProfileByUserID.Load(ctx, msgs[i].SenderID))
	}
	return thunks
}

func (ex *execution) message(ctx context.Context, sel ast.SelectionSet, m *domain.Message, sender profileThunk, path ast.Path) graphql.Marshaler {
	fields := ex.fields(sel, "Message")
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Message")
		case "id":
			out.Values[i] = marshalUUID(m.ID)
		case "channelId":
			out.Values[i] = marshalUUID(m.ChannelID)
		case "senderId":
			out.Values[i] = marshalUUID(m.SenderID)
		case "sender":
			var p *domain.Profile
			if sender != nil {
				var err error
				if p, err = sender(); err != nil {
					ex.fail(ctx, appendPath(path, ast.PathName(f.Alias)), err)
				}
			}
			out.Values[i] = ex.profile(f.Selections, p)
		case "parentId":
			if m.ParentID == nil {
				out.Values[i] = graphql.Null
			} else {
				out.Values[i] = marshalUUID(*m.ParentID)
			}
		case "type":
			out.Values[i] = graphql.MarshalString(m.Type.String())
		case "content":
			out.Values[i] = graphql.MarshalString(m.Content)
		case "createdAt":
			out.Values[i] = marshalTime(m.CreatedAt)
		case "editedAt":
			out.Values[i] = optTime(m.EditedAt)
		case "deletedAt":
			out.Values[i] = optTime(m.DeletedAt)
		case "replyCount":
			out.Values[i] = graphql.MarshalInt(m.ReplyCount)
		case "reactions":
			out.Values[i] = ex.reactions(f.Selections, m.Reactions)
		case "attachments":
			out.Values[i] = ex.attachments(f.Selections, m.Attachments)
		case "voice":
			out.Values[i] = ex.voice(f.Selections, m.Voice)
		}
	}
	return out
}

func (ex *execution) reactions(sel ast.SelectionSet, rs []domain.Reaction) graphql.Marshaler {
	fields := ex.fields(sel, "Reaction")
	out := make(graphql.Array, len(rs))
	for j, r := range rs {
		obj := graphql.NewFieldSet(fields)
		for i, f := range fields {
			switch f.Name {
			case "__typename":
				obj.Values[i] = graphql.MarshalString("Reaction")
			case "emoji":
				obj.Values[i] = graphql.MarshalString(r.Emoji)
			case "userId":
				obj.Values[i] = marshalUUID(r.UserID)
			}
		}
		out[j] = obj
	}
	return out
}

func (ex *execution) attachments(sel ast.SelectionSet, as []domain.Attachment) graphql.Marshaler {
	fields := ex.fields(sel, "Attachment")
	out := make(graphql.Array, len(as))
	for j, a := range as {
		obj := graphql.NewFieldSet(fields)
		for i, f := range fields {
			switch f.Name {
			case "__typename":
				obj.Values[i] = graphql.MarshalString("Attachment")
			case "path":
				obj.Values[i] = graphql.MarshalString(a.Path)
			case "name":
				obj.Values[i] = graphql.MarshalString(a.Name)
			case "size":
				obj.Values[i] = graphql.MarshalInt64(a.Size)
			case "contentType":
				obj.Values[i] = graphql.MarshalString(a.ContentType)
			}
		}
		out[j] = obj
	}
	return out
}

func (ex *execution) voice(sel ast.SelectionSet, v *domain.VoicePayload) graphql.Marshaler {
	if v == nil {
		return graphql.Null
	}
	fields := ex.fields(sel, "Voice")
	out := graphql.NewFieldSet(fields)
	for i, f := range fields {
		switch f.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Voice")
		case "path":
			out.Values[i] = graphql.MarshalString(v.Path)
		case "durationSeconds":
			out.Values[i] = graphql.MarshalFloat(v.DurationSeconds)
		}
	}
	return out
}

func selects(fields []graphql.CollectedField, name string) bool {
	return slices.ContainsFunc(fields, func(f graphql.CollectedField) bool { return f.Name == name })
}

func appendPath(path ast.Path, elems ...ast.PathElement) ast.Path {
	return append(slices.Clone(path), elems...)
}

// Scalars

func marshalUUID(id uuid.UUID) graphql.Marshaler {
	return graphql.MarshalString(id.String())
}

func marshalTime(t time.Time) graphql.Marshaler {
	return graphql.MarshalString(t.UTC().Format(time.RFC3339Nano))
}

func optTime(t *time.Time) graphql.Marshaler {
	if t == nil {
		return graphql.Null
	}
	return marshalTime(*t)
}

func optString(s *string) graphql.Marshaler {
	if s == nil {
		return graphql.Null
	}
	return graphql.MarshalString(*s)
}

func uuidArg(args map[string]any, name string) (uuid.UUID, error) {
	s, _ := args[name].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(name, "must be a UUID")
	}
	return id, nil
}

func listMessagesArgs(args map[string]any) (message.ListMessagesInput, error) {
	var errs domain.FieldErrors
	input := message.ListMessagesInput{}

	id, err := uuidArg(args, "channelId")
	if err != nil {
		errs.Add("channelId", "must be a UUID")
	}
	input.ChannelID = id

	if v, ok := args["limit"]; ok && v != nil {
		n, ok := toInt(v)
		if !ok {
			errs.Add("limit", "must be an integer")
		}
		input.Limit = n
	}
	if v, ok := args["before"].(string); ok {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			errs.Add("before", "must be an RFC 3339 timestamp")
		}
		input.Before = &t
	}
	if v, ok := args["search"].(string); ok {
		input.Search = v
	}
	return input, errs.Err()
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	case interface{ Int64() (int64, error) }:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}
