package storage

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

const signedURLIssuer = "teamhub-storage"

type objectClaims struct {
	jwt.RegisteredClaims
	Bucket string `json:"bkt"`
	Path   string `json:"pth"`
}

type signer struct {
	secret []byte
	clock  clockwork.Clock
}

func newSigner(secret string, clock clockwork.Clock) *signer {
	return &signer{secret: []byte(secret), clock: clock}
}

func (s *signer) sign(bucket, objectPath string, ttl time.Duration) (string, time.Time, error) {
	now := s.clock.Now()
	exp := now.Add(ttl)
	claims := objectClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    signedURLIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Bucket: bucket,
		Path:   objectPath,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("storage: sign url: %w", err)
	}
	return token, exp, nil
}

func (s *signer) verify(token string) (string, string, error) {
	claims := &objectClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(signedURLIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return "", "", fmt.Errorf("storage: %w: %w", domain.ErrUnauthorized, err)
	}
	return claims.Bucket, claims.Path, nil
}
