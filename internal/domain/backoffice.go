package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Budget is a planned amount for a fiscal year, optionally derived from a
// forecast template.
type Budget struct {
	ID         uuid.UUID
	Name       string
	FiscalYear int
	Amount     float64
	Currency   string
	TemplateID *uuid.UUID
	Notes      *string
	CreatedBy  uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BudgetUpdateParams holds a partial budget update.
type BudgetUpdateParams struct {
	Name          *string
	FiscalYear    *int
	Amount        *float64
	Currency      *string
	TemplateID    *uuid.UUID
	ClearTemplate bool
	Notes         *string // ptr("") clears
}

// ForecastLine is one row of a forecast template.
type ForecastLine struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// ForecastTemplate describes how a budget is projected over periods.
type ForecastTemplate struct {
	ID        uuid.UUID
	Name      string
	Periods   int
	Method    ForecastMethod
	Lines     []ForecastLine
	CreatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Setting is a single key/value row of a settings group.
type Setting struct {
	Group     SettingsGroup
	Key       string
	Value     string
	UpdatedBy uuid.UUID
	UpdatedAt time.Time
}

// SettingsMap is the flattened key/value view of a settings group.
type SettingsMap map[string]string

// GetValue returns the stored value or def when the key is absent.
func (m SettingsMap) GetValue(key, def string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return def
}

// GetFloat returns the stored value parsed as a float, or def.
func (m SettingsMap) GetFloat(key string, def float64) float64 {
	v, ok := m[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// GetBool returns the stored value parsed as a bool, or def.
func (m SettingsMap) GetBool(key string, def bool) bool {
	v, ok := m[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Clone returns an independent copy.
func (m SettingsMap) Clone() SettingsMap {
	out := make(SettingsMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
