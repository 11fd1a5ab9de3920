package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/internal/service/settings"
)

type settingsService interface {
	ListBudgets(ctx context.Context, f domain.BudgetFilter) ([]domain.Budget, error)
	GetBudget(ctx context.Context, id uuid.UUID) (*domain.Budget, error)
	CreateBudget(ctx context.Context, input settings.CreateBudgetInput) (*domain.Budget, error)
	UpdateBudget(ctx context.Context, id uuid.UUID, input settings.UpdateBudgetInput) (*domain.Budget, error)
	DeleteBudget(ctx context.Context, id uuid.UUID) error

	ListForecastTemplates(ctx context.Context) ([]domain.ForecastTemplate, error)
	CreateForecastTemplate(ctx context.Context, input settings.TemplateInput) (*domain.ForecastTemplate, error)
	UpdateForecastTemplate(ctx context.Context, id uuid.UUID, input settings.TemplateInput) (*domain.ForecastTemplate, error)
	DeleteForecastTemplate(ctx context.Context, id uuid.UUID) error

	GetSettings(ctx context.Context, group domain.SettingsGroup) (domain.SettingsMap, error)
	SaveSettings(ctx context.Context, group domain.SettingsGroup, values domain.SettingsMap) (domain.SettingsMap, error)
}

// BackofficeHandler serves budgets, forecast templates and settings groups.
type BackofficeHandler struct {
	base
	svc settingsService
}

// NewBackofficeHandler creates a BackofficeHandler.
func NewBackofficeHandler(svc settingsService, logger *slog.Logger) *BackofficeHandler {
	return &BackofficeHandler{base: newBase(logger, "backoffice"), svc: svc}
}

type budgetJSON struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	FiscalYear int        `json:"fiscal_year"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func toBudgetJSON(b domain.Budget) budgetJSON {
	return budgetJSON{
		ID:         b.ID,
		Name:       b.Name,
		FiscalYear: b.FiscalYear,
		Amount:     b.Amount,
		Currency:   b.Currency,
		TemplateID: b.TemplateID,
		Notes:      b.Notes,
		CreatedBy:  b.CreatedBy,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

type templateJSON struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Periods   int                   `json:"periods"`
	Method    string                `json:"method"`
	Lines     []domain.ForecastLine `json:"lines"`
	CreatedBy uuid.UUID             `json:"created_by"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func toTemplateJSON(t domain.ForecastTemplate) templateJSON {
	lines := t.Lines
	if lines == nil {
		lines = []domain.ForecastLine{}
	}
	return templateJSON{
		ID:        t.ID,
		Name:      t.Name,
		Periods:   t.Periods,
		Method:    string(t.Method),
		Lines:     lines,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type createBudgetRequest struct {
	Name       string     `json:"name"`
	FiscalYear int        `json:"fiscal_year"`
	Amount     float64    `json:"amount"`
	Currency   string     `json:"currency"`
	TemplateID *uuid.UUID `json:"template_id"`
	Notes      *string    `json:"notes"`
}

type updateBudgetRequest struct {
	Name          *string    `json:"name"`
	FiscalYear    *int       `json:"fiscal_year"`
	Amount        *float64   `json:"amount"`
	Currency      *string    `json:"currency"`
	TemplateID    *uuid.UUID `json:"template_id"`
	ClearTemplate bool       `json:"clear_template"`
	Notes         *string    `json:"notes"`
}

type templateRequest struct {
	Name    string                `json:"name"`
	Periods int                   `json:"periods"`
	Method  string                `json:"method"`
	Lines   []domain.ForecastLine `json:"lines"`
}

func (t templateRequest) input() settings.TemplateInput {
	return settings.TemplateInput{
		Name:    t.Name,
		Periods: t.Periods,
		Method:  domain.ForecastMethod(t.Method),
		Lines:   t.Lines,
	}
}

// ListBudgets handles GET /budgets?fiscal_year=&template_id=.
func (h *BackofficeHandler) ListBudgets(w http.ResponseWriter, r *http.Request) {
	var f domain.BudgetFilter
	if r.URL.Query().Has("fiscal_year") {
		year, err := queryInt(r, "fiscal_year")
		if err != nil {
			h.handleError(w, r, err)
			return
		}
		f.FiscalYear = &year
	}
	templateID, err := queryUUID(r, "template_id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	f.TemplateID = templateID

	budgets, err := h.svc.ListBudgets(r.Context(), f)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	out := make([]budgetJSON, len(budgets))
	for i, b := range budgets {
		out[i] = toBudgetJSON(b)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetBudget handles GET /budgets/{id}.
func (h *BackofficeHandler) GetBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	b, err := h.svc.GetBudget(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetJSON(*b))
}

// CreateBudget handles POST /budgets.
func (h *BackofficeHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.svc.CreateBudget(r.Context(), settings.CreateBudgetInput{
		Name:       req.Name,
		FiscalYear: req.FiscalYear,
		Amount:     req.Amount,
		Currency:   req.Currency,
		TemplateID: req.TemplateID,
		Notes:      req.Notes,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetJSON(*b))
}

// UpdateBudget handles PATCH /budgets/{id}.
func (h *BackofficeHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateBudgetRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.svc.UpdateBudget(r.Context(), id, settings.UpdateBudgetInput{
		Name:          req.Name,
		FiscalYear:    req.FiscalYear,
		Amount:        req.Amount,
		Currency:      req.Currency,
		TemplateID:    req.TemplateID,
		ClearTemplate: req.ClearTemplate,
		Notes:         req.Notes,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetJSON(*b))
}

// DeleteBudget handles DELETE /budgets/{id}.
func (h *BackofficeHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteBudget(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeNoContent(w)
}

// ListTemplates handles GET /forecast-templates.
func (h *BackofficeHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.ListForecastTemplates(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	out := make([]templateJSON, len(templates))
	for i, t := range templates {
		out[i] = toTemplateJSON(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateTemplate handles POST /forecast-templates.
func (h *BackofficeHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := h.svc.CreateForecastTemplate(r.Context(), req.input())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateJSON(*t))
}

// UpdateTemplate handles PATCH /forecast-templates/{id}. The template is
// replaced as a whole.
func (h *BackofficeHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req templateRequest
	if !decode(w, r, &req) {
		return
	}
	t, err := h.svc.UpdateForecastTemplate(r.Context(), id, req.input())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateJSON(*t))
}

// DeleteTemplate handles DELETE /forecast-templates/{id}.
func (h *BackofficeHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteForecastTemplate(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	writeNoContent(w)
}

// GetSettings handles GET /settings/{group}.
func (h *BackofficeHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	group, err := domain.ParseSettingsGroup(r.PathValue("group"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	values, err := h.svc.GetSettings(r.Context(), group)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

// SaveSettings handles PUT /settings/{group}. The body is the full key/value
// state of the group.
func (h *BackofficeHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	group, err := domain.ParseSettingsGroup(r.PathValue("group"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	var values domain.SettingsMap
	if !decode(w, r, &values) {
		return
	}
	saved, err := h.svc.SaveSettings(r.Context(), group, values)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
