package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/config"
	"github.com/pravintml2025-gif/Accounts-Balance-Viewer/internal/models"
)

type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Roles       []string  `json:"roles"`
}

// TokenIssuer mints signed, time-limited bearer tokens carrying the user's
// identity and role claims.
type TokenIssuer struct {
	settings config.JwtSettings
}

// NewTokenIssuer validates the settings up front; a short signing key is a
// startup failure, not a per-request one.
func NewTokenIssuer(settings config.JwtSettings) (*TokenIssuer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &TokenIssuer{settings: settings}, nil
}

func (i *TokenIssuer) GenerateToken(user *models.User, roles []string) (*LoginResponse, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(i.settings.Lifetime)

	claims := jwt.MapClaims{
		"sub":         user.ID.String(),
		"unique_name": user.Username,
		"email":       user.Email,
		"jti":         uuid.NewString(),
		"roles":       roles,
		"iss":         i.settings.Issuer,
		"aud":         i.settings.Audience,
		"iat":         now.Unix(),
		"exp":         expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(i.settings.Key))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		Roles:       roles,
	}, nil
}
