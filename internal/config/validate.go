package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.PasswordHashCost < bcrypt.MinCost || c.Auth.PasswordHashCost > bcrypt.MaxCost {
		return fmt.Errorf("auth.password_hash_cost must be in [%d, %d] (got %d)",
			bcrypt.MinCost, bcrypt.MaxCost, c.Auth.PasswordHashCost)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Chat.validate(); err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	if c.Realtime.SendBuffer <= 0 {
		return fmt.Errorf("realtime.send_buffer must be > 0 (got %d)", c.Realtime.SendBuffer)
	}
	if c.Translate.Endpoint != "" {
		u, err := url.Parse(c.Translate.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("translate.endpoint must be an http(s) URL (got %q)", c.Translate.Endpoint)
		}
	}

	return nil
}

func (s *StorageConfig) validate() error {
	if len(s.SigningSecret) < 32 {
		return fmt.Errorf("signing_secret must be at least 32 characters (got %d)", len(s.SigningSecret))
	}
	if s.SignedURLTTL <= 0 || s.SignedURLTTL > 24*time.Hour {
		return fmt.Errorf("signed_url_ttl must be in (0, 24h] (got %v)", s.SignedURLTTL)
	}
	if strings.TrimSpace(s.VoiceBucket) == "" || strings.TrimSpace(s.AttachmentBucket) == "" {
		return fmt.Errorf("bucket names are required")
	}
	if s.VoiceBucket == s.AttachmentBucket {
		return fmt.Errorf("voice and attachment buckets must differ (both %q)", s.VoiceBucket)
	}
	if s.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be > 0 (got %d)", s.MaxUploadBytes)
	}
	return nil
}

func (c *ChatConfig) validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be > 0 (got %d)", c.PageSize)
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("max_page_size must be >= page_size (got %d < %d)", c.MaxPageSize, c.PageSize)
	}
	if c.MaxMessageLength <= 0 {
		return fmt.Errorf("max_message_length must be > 0 (got %d)", c.MaxMessageLength)
	}
	if c.TypingTTL <= c.TypingThrottle {
		return fmt.Errorf("typing_ttl must exceed typing_throttle (got %v <= %v)", c.TypingTTL, c.TypingThrottle)
	}
	if c.SoftDeleteRetentionDays <= 0 {
		return fmt.Errorf("soft_delete_retention_days must be > 0 (got %d)", c.SoftDeleteRetentionDays)
	}
	return nil
}
