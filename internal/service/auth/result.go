package auth

import (
	"time"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

// AuthResult is returned by Register, Login and Refresh operations.
type AuthResult struct {
	AccessToken  string
	RefreshToken string // raw token, NOT hash
	ExpiresIn    time.Duration
	User         *domain.User
}
