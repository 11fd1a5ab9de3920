// Package translate provides message translation backends.
package translate

import (
	"context"
	"log/slog"
)

// Stub is the translation provider used when no endpoint is configured.
// It logs the request and returns the text unchanged.
type Stub struct {
	log *slog.Logger
}

// NewStub creates a new no-op translation provider.
func NewStub(logger *slog.Logger) *Stub {
	return &Stub{log: logger.With("adapter", "translate_stub")}
}

// Translate returns text as is.
func (s *Stub) Translate(ctx context.Context, text, targetLang string) (string, error) {
	s.log.InfoContext(ctx, "translation requested without provider",
		slog.String("target_lang", targetLang),
		slog.Int("chars", len(text)))
	return text, nil
}
