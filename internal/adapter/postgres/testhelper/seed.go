package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// SeedUser creates a user with a unique email/username.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()

	suffix := uniqueSuffix()
	ts := now()
	user := domain.User{
		ID:          uuid.New(),
		Email:       "user-" + suffix + "@example.com",
		Username:    "user_" + suffix,
		DisplayName: "User " + suffix,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO users (id, email, username, display_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.Username, user.DisplayName, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser: %v", err)
	}
	return user
}

// SeedChannel creates a channel of the given type owned by owner, who is
// also inserted as the owner member.
func SeedChannel(t *testing.T, pool *pgxpool.Pool, owner uuid.UUID, typ domain.ChannelType) domain.Channel {
	t.Helper()

	ts := now()
	ch := domain.Channel{
		ID:        uuid.New(),
		Name:      "channel-" + uniqueSuffix(),
		Type:      typ,
		IsPublic:  typ == domain.ChannelTypePublic,
		CreatedBy: owner,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	ctx := context.Background()
	_, err := pool.Exec(ctx,
		`INSERT INTO channels (id, name, type, is_public, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		ch.ID, ch.Name, string(ch.Type), ch.IsPublic, ch.CreatedBy, ch.CreatedAt, ch.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedChannel: %v", err)
	}
	SeedMember(t, pool, ch.ID, owner, domain.MemberRoleOwner)
	return ch
}

// SeedMember adds a user to a channel.
func SeedMember(t *testing.T, pool *pgxpool.Pool, channelID, userID uuid.UUID, role domain.MemberRole) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO channel_members (channel_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4)`,
		channelID, userID, string(role), now(),
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMember: %v", err)
	}
}

// SeedMessage inserts a text message. parentID may be nil.
func SeedMessage(t *testing.T, pool *pgxpool.Pool, channelID, senderID uuid.UUID, content string, parentID *uuid.UUID) domain.Message {
	t.Helper()

	msg := domain.Message{
		ID:        uuid.New(),
		ChannelID: channelID,
		SenderID:  senderID,
		Content:   content,
		Type:      domain.MessageTypeText,
		ParentID:  parentID,
		CreatedAt: now(),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO messages (id, channel_id, sender_id, content, type, parent_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID, msg.ChannelID, msg.SenderID, msg.Content, string(msg.Type), msg.ParentID, msg.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMessage: %v", err)
	}
	return msg
}

// SeedForecastTemplate inserts a linear template with two lines.
func SeedForecastTemplate(t *testing.T, pool *pgxpool.Pool, createdBy uuid.UUID) domain.ForecastTemplate {
	t.Helper()

	ts := now()
	tpl := domain.ForecastTemplate{
		ID:        uuid.New(),
		Name:      "template-" + uniqueSuffix(),
		Periods:   12,
		Method:    domain.ForecastMethodLinear,
		Lines:     []domain.ForecastLine{{Label: "H1", Weight: 0.5}, {Label: "H2", Weight: 0.5}},
		CreatedBy: createdBy,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	lines, err := json.Marshal(tpl.Lines)
	if err != nil {
		t.Fatalf("testhelper: SeedForecastTemplate marshal: %v", err)
	}

	_, err = pool.Exec(context.Background(),
		`INSERT INTO forecast_templates (id, name, periods, method, lines, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tpl.ID, tpl.Name, tpl.Periods, string(tpl.Method), lines, tpl.CreatedBy, tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedForecastTemplate: %v", err)
	}
	return tpl
}
