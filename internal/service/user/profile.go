package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
	"github.com/heartmarshall/teamhub-backend/pkg/ctxutil"
)

// GetProfile returns the authenticated user's account.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) GetProfile(ctx context.Context) (*domain.User, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user.GetProfile: %w", err)
	}

	return user, nil
}

// UpdateProfile updates the authenticated user's display name and avatar.
// Returns ErrUnauthorized if no userID is found in context.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	if input.DisplayName != nil {
		trimmed := strings.TrimSpace(*input.DisplayName)
		input.DisplayName = &trimmed
	}

	// Step 1: Validate input
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Extract userID from context
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	// Step 3: Update profile and audit in one transaction
	var user *domain.User
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		user, err = s.users.Update(txCtx, userID, input.DisplayName, input.AvatarURL)
		if err != nil {
			return err
		}

		changes := map[string]any{}
		if input.DisplayName != nil {
			changes["display_name"] = *input.DisplayName
		}
		if input.AvatarURL != nil {
			changes["avatar_url"] = *input.AvatarURL
		}
		return s.audit.Log(txCtx, domain.AuditRecord{
			UserID:     userID,
			EntityType: domain.EntityTypeUser,
			EntityID:   &userID,
			Action:     domain.AuditActionUpdate,
			Changes:    changes,
			CreatedAt:  time.Now(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("user.UpdateProfile: %w", err)
	}

	s.log.InfoContext(ctx, "profile updated",
		slog.String("user_id", userID.String()))

	return user, nil
}

// SearchProfiles returns profiles matching the query for member pickers.
func (s *Service) SearchProfiles(ctx context.Context, input SearchProfilesInput) ([]domain.Profile, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	profiles, err := s.users.SearchProfiles(ctx, strings.TrimSpace(input.Query), input.Limit)
	if err != nil {
		return nil, fmt.Errorf("user.SearchProfiles: %w", err)
	}
	return profiles, nil
}

// GetProfiles resolves public profiles by id. Duplicate ids are collapsed and
// unknown ids are skipped.
func (s *Service) GetProfiles(ctx context.Context, ids []uuid.UUID) ([]domain.Profile, error) {
	if _, ok := ctxutil.UserIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if len(ids) > maxProfileBatch {
		return nil, domain.NewValidationError("ids", "too many ids")
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	profiles, err := s.users.GetProfiles(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("user.GetProfiles: %w", err)
	}
	return profiles, nil
}
