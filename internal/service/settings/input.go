package settings

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

const (
	maxNameLen     = 120
	maxNotesLen    = 2000
	minFiscalYear  = 2000
	maxFiscalYear  = 2100
	maxPeriods     = 120
	maxLines       = 100
	maxLabelLen    = 120
	maxSettingKeys = 200
	maxKeyLen      = 100
	maxValueLen    = 2000
)

// CreateBudgetInput holds a new budget.
type CreateBudgetInput struct {
	Name       string
	FiscalYear int
	Amount     float64
	Currency   string
	TemplateID *uuid.UUID
	Notes      *string
}

func (i CreateBudgetInput) Validate() error {
	var errs []domain.FieldError
	errs = checkName(errs, i.Name)
	errs = checkYear(errs, i.FiscalYear)
	errs = checkAmount(errs, i.Amount)
	errs = checkCurrency(errs, i.Currency)
	if i.Notes != nil && utf8.RuneCountInString(*i.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateBudgetInput is a partial budget update. Nil fields are unchanged.
type UpdateBudgetInput struct {
	Name          *string
	FiscalYear    *int
	Amount        *float64
	Currency      *string
	TemplateID    *uuid.UUID
	ClearTemplate bool
	Notes         *string
}

func (i UpdateBudgetInput) Validate() error {
	var errs []domain.FieldError
	if i.Name != nil {
		errs = checkName(errs, *i.Name)
	}
	if i.FiscalYear != nil {
		errs = checkYear(errs, *i.FiscalYear)
	}
	if i.Amount != nil {
		errs = checkAmount(errs, *i.Amount)
	}
	if i.Currency != nil {
		errs = checkCurrency(errs, *i.Currency)
	}
	if i.Notes != nil && utf8.RuneCountInString(*i.Notes) > maxNotesLen {
		errs = append(errs, domain.FieldError{Field: "notes", Message: "too long"})
	}
	if i.ClearTemplate && i.TemplateID != nil {
		errs = append(errs, domain.FieldError{Field: "template_id", Message: "cannot set and clear at once"})
	}
	if i.Name == nil && i.FiscalYear == nil && i.Amount == nil && i.Currency == nil &&
		i.TemplateID == nil && !i.ClearTemplate && i.Notes == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "nothing to update"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i UpdateBudgetInput) params() domain.BudgetUpdateParams {
	return domain.BudgetUpdateParams{
		Name:          i.Name,
		FiscalYear:    i.FiscalYear,
		Amount:        i.Amount,
		Currency:      i.Currency,
		TemplateID:    i.TemplateID,
		ClearTemplate: i.ClearTemplate,
		Notes:         i.Notes,
	}
}

// TemplateInput holds the editable fields of a forecast template.
type TemplateInput struct {
	Name    string
	Periods int
	Method  domain.ForecastMethod
	Lines   []domain.ForecastLine
}

func (i TemplateInput) Validate() error {
	var errs []domain.FieldError
	errs = checkName(errs, i.Name)
	if i.Periods < 1 || i.Periods > maxPeriods {
		errs = append(errs, domain.FieldError{Field: "periods", Message: "out of range"})
	}
	if !i.Method.IsValid() {
		errs = append(errs, domain.FieldError{Field: "method", Message: "unknown forecast method"})
	}
	if len(i.Lines) > maxLines {
		errs = append(errs, domain.FieldError{Field: "lines", Message: "too many lines"})
	}
	for _, l := range i.Lines {
		label := strings.TrimSpace(l.Label)
		if label == "" || utf8.RuneCountInString(label) > maxLabelLen || l.Weight < 0 {
			errs = append(errs, domain.FieldError{Field: "lines", Message: "each line needs a label and a non-negative weight"})
			break
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateSettings(values domain.SettingsMap) error {
	var errs []domain.FieldError
	switch {
	case len(values) == 0:
		errs = append(errs, domain.FieldError{Field: "values", Message: "required"})
	case len(values) > maxSettingKeys:
		errs = append(errs, domain.FieldError{Field: "values", Message: "too many keys"})
	}
	for k, v := range values {
		if strings.TrimSpace(k) == "" || len(k) > maxKeyLen {
			errs = append(errs, domain.FieldError{Field: "values", Message: "invalid key"})
			break
		}
		if utf8.RuneCountInString(v) > maxValueLen {
			errs = append(errs, domain.FieldError{Field: k, Message: "too long"})
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func checkName(errs []domain.FieldError, name string) []domain.FieldError {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return append(errs, domain.FieldError{Field: "name", Message: "required"})
	case utf8.RuneCountInString(name) > maxNameLen:
		return append(errs, domain.FieldError{Field: "name", Message: "too long"})
	}
	return errs
}

func checkYear(errs []domain.FieldError, year int) []domain.FieldError {
	if year < minFiscalYear || year > maxFiscalYear {
		return append(errs, domain.FieldError{Field: "fiscal_year", Message: "out of range"})
	}
	return errs
}

func checkAmount(errs []domain.FieldError, amount float64) []domain.FieldError {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return append(errs, domain.FieldError{Field: "amount", Message: "must be a non-negative number"})
	}
	return errs
}

func checkCurrency(errs []domain.FieldError, currency string) []domain.FieldError {
	c := strings.TrimSpace(currency)
	if len(c) != 3 {
		return append(errs, domain.FieldError{Field: "currency", Message: "must be a 3-letter code"})
	}
	for _, r := range c {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return append(errs, domain.FieldError{Field: "currency", Message: "must be a 3-letter code"})
		}
	}
	return errs
}
