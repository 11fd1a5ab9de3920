package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ErrUnsupportedLanguage is returned when the endpoint rejects the target language.
var ErrUnsupportedLanguage = errors.New("translate: unsupported language")

// HTTPProvider calls a LibreTranslate-compatible /translate endpoint.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

// NewHTTPProvider creates a provider for the endpoint at baseURL.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		retryDelay: 500 * time.Millisecond,
		log:        logger.With("adapter", "translate_http"),
	}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate translates text into targetLang, detecting the source language.
func (p *HTTPProvider) Translate(ctx context.Context, text, targetLang string) (string, error) {
	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: "auto",
		Target: targetLang,
		Format: "text",
		APIKey: p.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("translate: encode request: %w", err)
	}

	p.log.DebugContext(ctx, "translate request", slog.String("target_lang", targetLang))

	resp, err := p.doWithRetry(ctx, body)
	if err != nil {
		p.log.ErrorContext(ctx, "translate request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("translate: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("translate: read body: %w", err)
	}

	var out translateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("translate: decode json: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, out.Error)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("translate: unexpected status %d", resp.StatusCode)
	}
	return out.TranslatedText, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *HTTPProvider) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	resp, err := p.do(ctx, body)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
		resp.Body.Close()
	}
	p.log.WarnContext(ctx, "translate retry", slog.String("reason", reason))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.retryDelay):
	}

	return p.do(ctx, body)
}

func (p *HTTPProvider) do(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/translate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return p.httpClient.Do(req)
}
