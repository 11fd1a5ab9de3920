package chatclient

import (
	"context"
	"strings"
	"sync"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

type settingsBackend interface {
	GetSettings(ctx context.Context, group domain.SettingsGroup) (domain.SettingsMap, error)
	SaveSettings(ctx context.Context, group domain.SettingsGroup, values domain.SettingsMap) (domain.SettingsMap, error)
}

// SettingsForm is a controlled form bound to one settings group. Values are
// stored and shown verbatim; nothing is derived or enforced here.
type SettingsForm struct {
	backend  settingsBackend
	group    domain.SettingsGroup
	required []string
	notifier Notifier

	mu     sync.Mutex
	saved  domain.SettingsMap
	values domain.SettingsMap
}

// NewSettingsForm creates a form. CanSave requires every key in required to
// be non-blank.
func NewSettingsForm(backend settingsBackend, group domain.SettingsGroup, notifier Notifier, required ...string) *SettingsForm {
	if notifier == nil {
		notifier = NotifierFunc(func(string, error) {})
	}
	return &SettingsForm{
		backend:  backend,
		group:    group,
		required: required,
		notifier: notifier,
		saved:    domain.SettingsMap{},
		values:   domain.SettingsMap{},
	}
}

// Load replaces the form state with the stored values.
func (f *SettingsForm) Load(ctx context.Context) error {
	values, err := f.backend.GetSettings(ctx, f.group)
	if err != nil {
		f.notifier.Error("LoadSettings", err)
		return err
	}
	f.mu.Lock()
	f.saved, f.values = values.Clone(), values.Clone()
	f.mu.Unlock()
	return nil
}

// GetValue returns the form value of key or def.
func (f *SettingsForm) GetValue(key, def string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.GetValue(key, def)
}

// Set changes one form value.
func (f *SettingsForm) Set(key, value string) {
	f.mu.Lock()
	f.values[key] = value
	f.mu.Unlock()
}

// Dirty reports whether the form differs from the stored values.
func (f *SettingsForm) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.values) != len(f.saved) {
		return true
	}
	for k, v := range f.values {
		if sv, ok := f.saved[k]; !ok || sv != v {
			return true
		}
	}
	return false
}

// CanSave reports whether all required fields are filled in.
func (f *SettingsForm) CanSave() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range f.required {
		if strings.TrimSpace(f.values[k]) == "" {
			return false
		}
	}
	return true
}

// Save stores the whole form state with one call.
func (f *SettingsForm) Save(ctx context.Context) error {
	if !f.CanSave() {
		return domain.NewValidationError("settings", "required fields missing")
	}
	f.mu.Lock()
	state := f.values.Clone()
	f.mu.Unlock()

	saved, err := f.backend.SaveSettings(ctx, f.group, state)
	if err != nil {
		f.notifier.Error("SaveSettings", err)
		return err
	}
	f.mu.Lock()
	f.saved, f.values = saved.Clone(), saved.Clone()
	f.mu.Unlock()
	return nil
}
