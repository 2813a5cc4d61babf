package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lucasmnd/toile/backend/internal/apperrors"
	"github.com/lucasmnd/toile/backend/internal/models"
	"github.com/lucasmnd/toile/backend/internal/repositories"
)

// SessionTTL is how long an issued session token stays valid. The client
// roster stores the same window next to each account.
const SessionTTL = 7 * 24 * time.Hour

// TokenService issues and exchanges the HS256 session tokens used to resume
// a session without re-entering a password.
type TokenService struct {
	users  repositories.UserRepository
	secret []byte
}

// NewTokenService creates a new TokenService
func NewTokenService(users repositories.UserRepository, secret string) *TokenService {
	return &TokenService{users: users, secret: []byte(secret)}
}

// Issue signs a fresh session token for the user.
func (s *TokenService) Issue(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(SessionTTL)
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperrors.NewUpstream("failed to sign token", err)
	}
	return signed, expiresAt, nil
}

// Exchange validates a stored session token and issues a fresh one for the
// same account. This backs the account switcher: a client holding a
// non-expired token gets a new session without credentials. Revoked or
// expired tokens yield an AuthError; a deleted account yields NotFoundError.
func (s *TokenService) Exchange(ctx context.Context, tokenString string) (*models.User, string, time.Time, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.NewAuth("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, "", time.Time{}, apperrors.NewAuth("invalid or expired session token")
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	newToken, expiresAt, err := s.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, newToken, expiresAt, nil
}
