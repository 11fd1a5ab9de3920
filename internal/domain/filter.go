package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageFilter selects a page of top-level messages of a channel.
type MessageFilter struct {
	ChannelID uuid.UUID
	Before    *time.Time // exclusive upper bound on created_at
	Limit     int
	Search    string // case-insensitive substring of content
}

// BudgetFilter narrows budget listings. Nil fields mean no filter.
type BudgetFilter struct {
	FiscalYear *int
	TemplateID *uuid.UUID
}
