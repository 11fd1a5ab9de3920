// Package remote implements chatclient.Backend over the teamhub REST API and
// its realtime socket.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heartmarshall/teamhub-backend/internal/chatclient"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/wire"
)

var _ chatclient.Backend = (*Client)(nil)

// Client talks to one teamhub server.
type Client struct {
	base   *url.URL
	http   *http.Client
	dialer *websocket.Dialer
	log    *slog.Logger

	mu      sync.Mutex
	token   string
	refresh string

	rtMu sync.Mutex
	rt   *realtimeConn
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithToken sets an access token obtained elsewhere.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("remote.New: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote.New: unsupported scheme %q", u.Scheme)
	}
	c := &Client{
		base:   u,
		http:   &http.Client{Timeout: 30 * time.Second},
		dialer: websocket.DefaultDialer,
		log:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "remote")
	return c, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

type apiError struct {
	Error  string `json:"error"`
	Fields []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"fields"`
}

// statusError maps an error response to a domain error.
func statusError(status int, body []byte) error {
	var ae apiError
	_ = json.Unmarshal(body, &ae)
	msg := ae.Error
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest:
		if len(ae.Fields) > 0 {
			ve := &domain.ValidationError{}
			for _, f := range ae.Fields {
				ve.Errors = append(ve.Errors, domain.FieldError{Field: f.Field, Message: f.Message})
			}
			return ve
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrForbidden, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrConflict, msg)
	}
	return fmt.Errorf("remote: %d %s", status, msg)
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// do sends a request. body is JSON-encoded unless it is an io.Reader; out,
// if non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader, contentType = bytes.NewReader(raw), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if tok := c.accessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

type authResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         wire.User `json:"user"`
}

// Login exchanges credentials for tokens and keeps them for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	var resp authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("remote.Login: %w", err)
	}
	c.mu.Lock()
	c.token, c.refresh = resp.AccessToken, resp.RefreshToken
	c.mu.Unlock()
	u := resp.User.ToDomain()
	return &u, nil
}

// Refresh rotates the token pair.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	refresh := c.refresh
	c.mu.Unlock()
	if refresh == "" {
		return fmt.Errorf("remote.Refresh: %w", domain.ErrUnauthorized)
	}

	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", nil, map[string]string{"refresh_token": refresh}, &resp); err != nil {
		return fmt.Errorf("remote.Refresh: %w", err)
	}
	c.mu.Lock()
	c.token, c.refresh = resp.AccessToken, resp.RefreshToken
	c.mu.Unlock()
	return nil
}

// CurrentUser returns the logged-in user.
func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var u wire.User
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &u); err != nil {
		return nil, fmt.Errorf("remote.CurrentUser: %w", err)
	}
	out := u.ToDomain()
	return &out, nil
}

// ---------------------------------------------------------------------------
// Channels
// ---------------------------------------------------------------------------

func (c *Client) ListChannels(ctx context.Context) ([]domain.Channel, error) {
	var list []wire.Channel
	if err := c.do(ctx, http.MethodGet, "/channels", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("remote.ListChannels: %w", err)
	}
	out := make([]domain.Channel, 0, len(list))
	for _, wc := range list {
		ch, err := wc.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("remote.ListChannels: %w", err)
		}
		out = append(out, ch)
	}
	return out, nil
}

func (c *Client) channelCall(ctx context.Context, op, method, path string, body any) (*domain.Channel, error) {
	var wc wire.Channel
	if err := c.do(ctx, method, path, nil, body, &wc); err != nil {
		return nil, fmt.Errorf("remote.%s: %w", op, err)
	}
	ch, err := wc.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("remote.%s: %w", op, err)
	}
	return &ch, nil
}

func (c *Client) CreateChannel(ctx context.Context, in chatclient.CreateChannelInput) (*domain.Channel, error) {
	body := map[string]any{
		"name":        in.Name,
		"type":        in.Type.String(),
		"is_public":   in.IsPublic,
		"description": in.Description,
		"member_ids":  in.MemberIDs,
	}
	return c.channelCall(ctx, "CreateChannel", http.MethodPost, "/channels", body)
}

func (c *Client) UpdateChannel(ctx context.Context, id uuid.UUID, p domain.ChannelUpdateParams) (*domain.Channel, error) {
	body := map[string]any{}
	if p.Name != nil {
		body["name"] = *p.Name
	}
	if p.Description != nil {
		body["description"] = *p.Description
	}
	if p.AvatarURL != nil {
		body["avatar_url"] = *p.AvatarURL
	}
	if p.IsPublic != nil {
		body["is_public"] = *p.IsPublic
	}
	return c.channelCall(ctx, "UpdateChannel", http.MethodPatch, "/channels/"+id.String(), body)
}

func (c *Client) DeleteChannel(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/channels/"+id.String(), nil, nil, nil); err != nil {
		return fmt.Errorf("remote.DeleteChannel: %w", err)
	}
	return nil
}

// JoinChannel adds the current user to an open channel.
func (c *Client) JoinChannel(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodPost, "/channels/"+id.String()+"/join", nil, nil, nil); err != nil {
		return fmt.Errorf("remote.JoinChannel: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

func (c *Client) ListMessages(ctx context.Context, channelID uuid.UUID, q chatclient.MessageQuery) ([]domain.Message, error) {
	query := url.Values{}
	if q.Before != nil {
		query.Set("before", q.Before.UTC().Format(time.RFC3339Nano))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		query.Set("q", q.Search)
	}

	var list []wire.Message
	if err := c.do(ctx, http.MethodGet, "/channels/"+channelID.String()+"/messages", query, nil, &list); err != nil {
		return nil, fmt.Errorf("remote.ListMessages: %w", err)
	}
	out, err := wire.ToDomainMessages(list)
	if err != nil {
		return nil, fmt.Errorf("remote.ListMessages: %w", err)
	}
	return out, nil
}

func (c *Client) GetThread(ctx context.Context, parentID uuid.UUID) (*domain.Message, []domain.Message, error) {
	var resp struct {
		Parent  wire.Message   `json:"parent"`
		Replies []wire.Message `json:"replies"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages/"+parentID.String()+"/thread", nil, nil, &resp); err != nil {
		return nil, nil, fmt.Errorf("remote.GetThread: %w", err)
	}
	parent, err := resp.Parent.ToDomain()
	if err != nil {
		return nil, nil, fmt.Errorf("remote.GetThread: %w", err)
	}
	replies, err := wire.ToDomainMessages(resp.Replies)
	if err != nil {
		return nil, nil, fmt.Errorf("remote.GetThread: %w", err)
	}
	return &parent, replies, nil
}

func (c *Client) messageCall(ctx context.Context, op, method, path string, body any) (*domain.Message, error) {
	var wm wire.Message
	if err := c.do(ctx, method, path, nil, body, &wm); err != nil {
		return nil, fmt.Errorf("remote.%s: %w", op, err)
	}
	m, err := wm.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("remote.%s: %w", op, err)
	}
	return &m, nil
}

func (c *Client) SendMessage(ctx context.Context, channelID uuid.UUID, in chatclient.SendInput) (*domain.Message, error) {
	body := map[string]any{
		"content":     in.Content,
		"type":        in.Type.String(),
		"attachments": in.Attachments,
		"voice":       in.Voice,
		"parent_id":   in.ParentID,
	}
	return c.messageCall(ctx, "SendMessage", http.MethodPost, "/channels/"+channelID.String()+"/messages", body)
}

func (c *Client) EditMessage(ctx context.Context, id uuid.UUID, content string) (*domain.Message, error) {
	return c.messageCall(ctx, "EditMessage", http.MethodPatch, "/messages/"+id.String(), map[string]string{"content": content})
}

func (c *Client) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/messages/"+id.String(), nil, nil, nil); err != nil {
		return fmt.Errorf("remote.DeleteMessage: %w", err)
	}
	return nil
}

func (c *Client) ToggleReaction(ctx context.Context, id uuid.UUID, emoji string) (*domain.Message, error) {
	return c.messageCall(ctx, "ToggleReaction", http.MethodPost, "/messages/"+id.String()+"/reactions", map[string]string{"emoji": emoji})
}

func (c *Client) TranslateMessage(ctx context.Context, id uuid.UUID, targetLang string) (string, error) {
	var resp struct {
		Text string `json:"text"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages/"+id.String()+"/translate", nil, map[string]string{"target_lang": targetLang}, &resp); err != nil {
		return "", fmt.Errorf("remote.TranslateMessage: %w", err)
	}
	return resp.Text, nil
}

func (c *Client) SendTyping(ctx context.Context, channelID uuid.UUID, isTyping bool) error {
	if err := c.do(ctx, http.MethodPost, "/channels/"+channelID.String()+"/typing", nil, map[string]bool{"is_typing": isTyping}, nil); err != nil {
		return fmt.Errorf("remote.SendTyping: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Receipts, members, profiles
// ---------------------------------------------------------------------------

func (c *Client) MarkRead(ctx context.Context, messageIDs []uuid.UUID) error {
	if err := c.do(ctx, http.MethodPost, "/receipts", nil, map[string][]uuid.UUID{"message_ids": messageIDs}, nil); err != nil {
		return fmt.Errorf("remote.MarkRead: %w", err)
	}
	return nil
}

func (c *Client) ListReceipts(ctx context.Context, channelID uuid.UUID) (map[uuid.UUID][]domain.ReadReceipt, error) {
	var resp map[uuid.UUID][]wire.Receipt
	if err := c.do(ctx, http.MethodGet, "/channels/"+channelID.String()+"/receipts", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("remote.ListReceipts: %w", err)
	}
	out := make(map[uuid.UUID][]domain.ReadReceipt, len(resp))
	for id, rs := range resp {
		list := make([]domain.ReadReceipt, len(rs))
		for i, r := range rs {
			list[i] = r.ToDomain()
		}
		out[id] = list
	}
	return out, nil
}

func (c *Client) ListMembers(ctx context.Context, channelID uuid.UUID) ([]domain.ChannelMember, error) {
	var list []wire.Member
	if err := c.do(ctx, http.MethodGet, "/channels/"+channelID.String()+"/members", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("remote.ListMembers: %w", err)
	}
	out := make([]domain.ChannelMember, 0, len(list))
	for _, wm := range list {
		m, err := wm.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("remote.ListMembers: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (c *Client) AddMembers(ctx context.Context, channelID uuid.UUID, userIDs []uuid.UUID) (int, error) {
	var resp struct {
		Added int `json:"added"`
	}
	path := "/channels/" + channelID.String() + "/members"
	if err := c.do(ctx, http.MethodPost, path, nil, map[string][]uuid.UUID{"user_ids": userIDs}, &resp); err != nil {
		return 0, fmt.Errorf("remote.AddMembers: %w", err)
	}
	return resp.Added, nil
}

func (c *Client) RemoveMember(ctx context.Context, channelID, userID uuid.UUID) error {
	path := "/channels/" + channelID.String() + "/members/" + userID.String()
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("remote.RemoveMember: %w", err)
	}
	return nil
}

func profilesToDomain(list []wire.Profile) []domain.Profile {
	out := make([]domain.Profile, len(list))
	for i, p := range list {
		out[i] = p.ToDomain()
	}
	return out
}

func (c *Client) GetProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error) {
	var list []wire.Profile
	if err := c.do(ctx, http.MethodPost, "/profiles/batch", nil, map[string][]uuid.UUID{"ids": ids}, &list); err != nil {
		return nil, fmt.Errorf("remote.GetProfiles: %w", err)
	}
	return profilesToDomain(list), nil
}

func (c *Client) SearchProfiles(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	q := url.Values{"q": {query}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var list []wire.Profile
	if err := c.do(ctx, http.MethodGet, "/profiles", q, nil, &list); err != nil {
		return nil, fmt.Errorf("remote.SearchProfiles: %w", err)
	}
	return profilesToDomain(list), nil
}

// ---------------------------------------------------------------------------
// Storage
// ---------------------------------------------------------------------------

func (c *Client) Upload(ctx context.Context, in chatclient.UploadInput) (*domain.Attachment, error) {
	path := "/channels/" + in.ChannelID.String() + "/uploads/" + url.PathEscape(in.Bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, url.Values{"name": {in.Name}}), in.Body)
	if err != nil {
		return nil, fmt.Errorf("remote.Upload: %w", err)
	}
	req.ContentLength = in.Size
	if in.ContentType != "" {
		req.Header.Set("Content-Type", in.ContentType)
	}
	if tok := c.accessToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	var att domain.Attachment
	if err := c.send(req, &att); err != nil {
		return nil, fmt.Errorf("remote.Upload: %w", err)
	}
	return &att, nil
}

type signedObject struct {
	Bucket    string     `json:"bucket"`
	Path      string     `json:"path"`
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// SignURL signs one object. An object the server could not sign is reported
// as domain.ErrNotFound.
func (c *Client) SignURL(ctx context.Context, bucket, path string) (domain.SignedURL, error) {
	body := map[string]any{"objects": []map[string]string{{"bucket": bucket, "path": path}}}
	var list []signedObject
	if err := c.do(ctx, http.MethodPost, "/storage/sign", nil, body, &list); err != nil {
		return domain.SignedURL{}, fmt.Errorf("remote.SignURL: %w", err)
	}
	if len(list) != 1 || list[0].URL == "" {
		return domain.SignedURL{}, fmt.Errorf("remote.SignURL: %s/%s: %w", bucket, path, domain.ErrNotFound)
	}

	out := domain.SignedURL{Bucket: list[0].Bucket, Path: list[0].Path, URL: c.absolute(list[0].URL)}
	if list[0].ExpiresAt != nil {
		out.ExpiresAt = *list[0].ExpiresAt
	}
	return out, nil
}

// absolute resolves server-relative URLs against the base URL.
func (c *Client) absolute(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}
	return c.base.ResolveReference(u).String()
}

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

func (c *Client) GetSettings(ctx context.Context, group domain.SettingsGroup) (domain.SettingsMap, error) {
	var out domain.SettingsMap
	if err := c.do(ctx, http.MethodGet, "/settings/"+group.String(), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("remote.GetSettings: %w", err)
	}
	if out == nil {
		out = domain.SettingsMap{}
	}
	return out, nil
}

func (c *Client) SaveSettings(ctx context.Context, group domain.SettingsGroup, values domain.SettingsMap) (domain.SettingsMap, error) {
	if values == nil {
		values = domain.SettingsMap{}
	}
	var out domain.SettingsMap
	if err := c.do(ctx, http.MethodPut, "/settings/"+group.String(), nil, values, &out); err != nil {
		return nil, fmt.Errorf("remote.SaveSettings: %w", err)
	}
	return out, nil
}

// Close shuts down the realtime connection.
func (c *Client) Close() error {
	c.rtMu.Lock()
	rt := c.rt
	c.rt = nil
	c.rtMu.Unlock()
	if rt == nil {
		return nil
	}
	return rt.close(errors.New("client closed"))
}
