// Package budget implements the budget and forecast template repositories
// using PostgreSQL.
package budget

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/teamhub-backend/internal/adapter/postgres"
	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

var budgetColumns = []string{
	"id", "name", "fiscal_year", "amount", "currency", "template_id", "notes",
	"created_by", "created_at", "updated_at",
}

var templateColumns = []string{
	"id", "name", "periods", "method", "lines", "created_by", "created_at", "updated_at",
}

// Repo provides budget and forecast template persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new budget repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Budgets
// ---------------------------------------------------------------------------

// GetBudget returns a budget by id.
func (r *Repo) GetBudget(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	q := postgres.Builder().Select(budgetColumns...).From("budgets").Where(squirrel.Eq{"id": id})

	var row budgetRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "budget", id)
	}
	b := row.toDomain()
	return &b, nil
}

// ListBudgets returns budgets, newest fiscal year first.
func (r *Repo) ListBudgets(ctx context.Context, f domain.BudgetFilter) ([]domain.Budget, error) {
	q := postgres.Builder().
		Select(budgetColumns...).
		From("budgets").
		OrderBy("fiscal_year DESC", "name", "id")

	if f.FiscalYear != nil {
		q = q.Where(squirrel.Eq{"fiscal_year": *f.FiscalYear})
	}
	if f.TemplateID != nil {
		q = q.Where(squirrel.Eq{"template_id": *f.TemplateID})
	}

	var rows []budgetRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "budget", "list")
	}

	out := make([]domain.Budget, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// CreateBudget inserts a budget. A missing template yields domain.ErrNotFound.
func (r *Repo) CreateBudget(ctx context.Context, b *domain.Budget) error {
	q := postgres.Builder().
		Insert("budgets").
		Columns(budgetColumns...).
		Values(b.ID, b.Name, b.FiscalYear, b.Amount, b.Currency, b.TemplateID, b.Notes,
			b.CreatedBy, b.CreatedAt, b.UpdatedAt)

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "budget", b.ID)
	}
	return nil
}

// UpdateBudget applies a partial update.
func (r *Repo) UpdateBudget(ctx context.Context, id uuid.UUID, p domain.BudgetUpdateParams, at time.Time) error {
	q := postgres.Builder().
		Update("budgets").
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id})

	if p.Name != nil {
		q = q.Set("name", strings.TrimSpace(*p.Name))
	}
	if p.FiscalYear != nil {
		q = q.Set("fiscal_year", *p.FiscalYear)
	}
	if p.Amount != nil {
		q = q.Set("amount", *p.Amount)
	}
	if p.Currency != nil {
		q = q.Set("currency", strings.ToUpper(strings.TrimSpace(*p.Currency)))
	}
	switch {
	case p.ClearTemplate:
		q = q.Set("template_id", nil)
	case p.TemplateID != nil:
		q = q.Set("template_id", *p.TemplateID)
	}
	if p.Notes != nil {
		q = q.Set("notes", postgres.NullIfEmpty(*p.Notes))
	}

	return r.execOne(ctx, q, "budget", id)
}

// DeleteBudget removes a budget.
func (r *Repo) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	q := postgres.Builder().Delete("budgets").Where(squirrel.Eq{"id": id})
	return r.execOne(ctx, q, "budget", id)
}

// ---------------------------------------------------------------------------
// Forecast templates
// ---------------------------------------------------------------------------

// GetTemplate returns a forecast template by id.
func (r *Repo) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.ForecastTemplate, error) {
	q := postgres.Builder().Select(templateColumns...).From("forecast_templates").Where(squirrel.Eq{"id": id})

	var row templateRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "forecast template", id)
	}
	t, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTemplates returns all forecast templates ordered by name.
func (r *Repo) ListTemplates(ctx context.Context) ([]domain.ForecastTemplate, error) {
	q := postgres.Builder().Select(templateColumns...).From("forecast_templates").OrderBy("name", "id")

	var rows []templateRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "forecast template", "list")
	}

	out := make([]domain.ForecastTemplate, 0, len(rows))
	for _, row := range rows {
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// CreateTemplate inserts a forecast template.
func (r *Repo) CreateTemplate(ctx context.Context, t *domain.ForecastTemplate) error {
	lines, err := encodeLines(t.Lines)
	if err != nil {
		return err
	}

	q := postgres.Builder().
		Insert("forecast_templates").
		Columns(templateColumns...).
		Values(t.ID, t.Name, t.Periods, string(t.Method), lines, t.CreatedBy, t.CreatedAt, t.UpdatedAt)

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return postgres.MapError(err, "forecast template", t.ID)
	}
	return nil
}

// UpdateTemplate overwrites name, periods, method and lines of a template.
func (r *Repo) UpdateTemplate(ctx context.Context, t *domain.ForecastTemplate) error {
	lines, err := encodeLines(t.Lines)
	if err != nil {
		return err
	}

	q := postgres.Builder().
		Update("forecast_templates").
		Set("name", t.Name).
		Set("periods", t.Periods).
		Set("method", string(t.Method)).
		Set("lines", lines).
		Set("updated_at", t.UpdatedAt).
		Where(squirrel.Eq{"id": t.ID})

	return r.execOne(ctx, q, "forecast template", t.ID)
}

// DeleteTemplate removes a template. Returns domain.ErrConflict while a
// budget still references it.
func (r *Repo) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	q := postgres.Builder().Delete("forecast_templates").Where(squirrel.Eq{"id": id})
	return r.execOne(ctx, q, "forecast template", id)
}

func (r *Repo) execOne(ctx context.Context, q squirrel.Sqlizer, entity string, id uuid.UUID) error {
	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, entity, id)
	}
	if n == 0 {
		return postgres.MapError(pgx.ErrNoRows, entity, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Rows
// ---------------------------------------------------------------------------

type budgetRow struct {
	ID         uuid.UUID  `db:"id"`
	Name       string     `db:"name"`
	FiscalYear int        `db:"fiscal_year"`
	Amount     float64    `db:"amount"`
	Currency   string     `db:"currency"`
	TemplateID *uuid.UUID `db:"template_id"`
	Notes      *string    `db:"notes"`
	CreatedBy  uuid.UUID  `db:"created_by"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

func (row budgetRow) toDomain() domain.Budget {
	return domain.Budget{
		ID:         row.ID,
		Name:       row.Name,
		FiscalYear: row.FiscalYear,
		Amount:     row.Amount,
		Currency:   row.Currency,
		TemplateID: row.TemplateID,
		Notes:      row.Notes,
		CreatedBy:  row.CreatedBy,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

type templateRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Periods   int       `db:"periods"`
	Method    string    `db:"method"`
	Lines     []byte    `db:"lines"`
	CreatedBy uuid.UUID `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (row templateRow) toDomain() (domain.ForecastTemplate, error) {
	t := domain.ForecastTemplate{
		ID:        row.ID,
		Name:      row.Name,
		Periods:   row.Periods,
		Method:    domain.ForecastMethod(row.Method),
		Lines:     []domain.ForecastLine{},
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Lines) > 0 {
		if err := json.Unmarshal(row.Lines, &t.Lines); err != nil {
			return domain.ForecastTemplate{}, fmt.Errorf("decode lines of template %s: %w", row.ID, err)
		}
	}
	return t, nil
}

func encodeLines(lines []domain.ForecastLine) ([]byte, error) {
	if lines == nil {
		lines = []domain.ForecastLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("marshal forecast lines: %w", err)
	}
	return raw, nil
}
