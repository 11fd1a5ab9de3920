// Package user implements the User repository using PostgreSQL.
// It also stores password credentials and serves public profile lookups.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

const maxProfileSearch = 50

var userColumns = []string{"id", "email", "username", "display_name", "avatar_url", "created_at", "updated_at"}

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// User operations
// ---------------------------------------------------------------------------

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, id)
}

// GetByEmail returns a user by email address (case-insensitive).
func (r *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": strings.ToLower(email)}, email)
}

// GetByUsername returns a user by username.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username}, username)
}

func (r *Repo) getOne(ctx context.Context, where squirrel.Sqlizer, ref any) (*domain.User, error) {
	q := postgres.Builder().Select(userColumns...).From("users").Where(where)

	var row userRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "user", ref)
	}

	u := row.toDomain()
	return &u, nil
}

// Create inserts a new user and returns the persisted domain.User.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.Builder().
		Insert("users").
		Columns(userColumns...).
		Values(u.ID, strings.ToLower(u.Email), u.Username, u.DisplayName, u.AvatarURL, u.CreatedAt, u.UpdatedAt).
		Suffix("RETURNING " + strings.Join(userColumns, ", "))

	var row userRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}

	created := row.toDomain()
	return &created, nil
}

// Update modifies display_name and avatar_url for the given user.
// Nil arguments leave the column unchanged; an empty avatar clears it.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, displayName *string, avatarURL *string) (*domain.User, error) {
	q := postgres.Builder().
		Update("users").
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(userColumns, ", "))

	if displayName != nil {
		q = q.Set("display_name", *displayName)
	}
	if avatarURL != nil {
		q = q.Set("avatar_url", postgres.NullIfEmpty(*avatarURL))
	}

	var row userRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	u := row.toDomain()
	return &u, nil
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

// SetPasswordHash stores or replaces the bcrypt hash of the user's password.
func (r *Repo) SetPasswordHash(ctx context.Context, userID uuid.UUID, hash string) error {
	q := postgres.Builder().
		Insert("user_credentials").
		Columns("user_id", "password_hash", "updated_at").
		Values(userID, hash, time.Now().UTC()).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET password_hash = EXCLUDED.password_hash, updated_at = EXCLUDED.updated_at")

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "user_credentials", userID)
	}
	return nil
}

// GetPasswordHash returns the stored hash or domain.ErrNotFound.
func (r *Repo) GetPasswordHash(ctx context.Context, userID uuid.UUID) (string, error) {
	q := postgres.Builder().
		Select("password_hash").
		From("user_credentials").
		Where(squirrel.Eq{"user_id": userID})

	var hash string
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &hash, q); err != nil {
		return "", postgres.MapError(err, "user_credentials", userID)
	}
	return hash, nil
}

// ---------------------------------------------------------------------------
// Profiles
// ---------------------------------------------------------------------------

// GetProfiles returns the public profiles for the given ids. Unknown ids are
// skipped; the order of the result is unspecified.
func (r *Repo) GetProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error) {
	if len(ids) == 0 {
		return []domain.Profile{}, nil
	}

	q := postgres.Builder().
		Select("id", "display_name", "avatar_url").
		From("users").
		Where(squirrel.Eq{"id": ids})

	var rows []profileRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "profile", len(ids))
	}
	return toProfiles(rows), nil
}

// SearchProfiles returns profiles whose display name or username contains
// query, ordered by display name.
func (r *Repo) SearchProfiles(ctx context.Context, query string, limit int) ([]domain.Profile, error) {
	if limit <= 0 || limit > maxProfileSearch {
		limit = maxProfileSearch
	}

	q := postgres.Builder().
		Select("id", "display_name", "avatar_url").
		From("users").
		OrderBy("lower(display_name)", "id").
		Limit(uint64(limit))

	if query = strings.TrimSpace(query); query != "" {
		pattern := postgres.ContainsPattern(query)
		q = q.Where(squirrel.Or{
			squirrel.ILike{"display_name": pattern},
			squirrel.ILike{"username": pattern},
		})
	}

	var rows []profileRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "profile", query)
	}
	return toProfiles(rows), nil
}

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

type userRow struct {
	ID          uuid.UUID `db:"id"`
	Email       string    `db:"email"`
	Username    string    `db:"username"`
	DisplayName string    `db:"display_name"`
	AvatarURL   *string   `db:"avatar_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row userRow) toDomain() domain.User {
	return domain.User{
		ID:          row.ID,
		Email:       row.Email,
		Username:    row.Username,
		DisplayName: row.DisplayName,
		AvatarURL:   row.AvatarURL,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

type profileRow struct {
	ID          uuid.UUID `db:"id"`
	DisplayName string    `db:"display_name"`
	AvatarURL   *string   `db:"avatar_url"`
}

func toProfiles(rows []profileRow) []domain.Profile {
	out := make([]domain.Profile, len(rows))
	for i, row := range rows {
		out[i] = domain.Profile{UserID: row.ID, DisplayName: row.DisplayName, AvatarURL: row.AvatarURL}
	}
	return out
}
