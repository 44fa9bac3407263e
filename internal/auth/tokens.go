// Package auth issues and verifies the bearer tokens used by the API. Tokens
// are stateless: there is no revocation list, and logout is a client-side
// discard. A stolen token stays valid until its natural expiry.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/camphub/campus-events-api/internal/models"
)

// Token lifetimes. Access tokens carry identity and role for a single request
// window; refresh tokens are only ever exchanged for a fresh pair.
const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 7 * 24 * time.Hour
)

var (
	// ErrTokenExpired is returned when a token is structurally valid but past expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned for any other structural or signature failure.
	ErrTokenInvalid = errors.New("token is invalid")
)

// AccessClaims are the claims embedded in access tokens.
type AccessClaims struct {
	UserID uint64          `json:"uid"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims are the claims embedded in refresh tokens. Deliberately
// role-free: a refresh token never authorizes a resource action directly.
type RefreshClaims struct {
	UserID uint64 `json:"uid"`
	jwt.RegisteredClaims
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenConfig bundles the configuration required to build a TokenService.
type TokenConfig struct {
	// AccessSecret signs access tokens and is required.
	AccessSecret string
	// RefreshSecret signs refresh tokens; falls back to AccessSecret when empty.
	RefreshSecret string
	Issuer        string
	Clock         func() time.Time
}

// TokenService mints and verifies the two token classes without server-side state.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	now           func() time.Time
}

// NewTokenService constructs a TokenService from the provided configuration.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("auth: access token secret must be provided")
	}

	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.AccessSecret
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        cfg.Issuer,
		now:           now,
	}, nil
}

// IssuePair mints a new access/refresh token pair for the given user.
func (s *TokenService) IssuePair(user *models.User) (TokenPair, error) {
	if user == nil || user.ID == 0 {
		return TokenPair{}, errors.New("auth: user is required")
	}

	now := s.now()

	accessClaims := &AccessClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.accessSecret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign access token: %w", err)
	}

	refreshClaims := &RefreshClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprintf("%d", user.ID),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.refreshSecret)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// VerifyAccess parses and validates an access token.
func (s *TokenService) VerifyAccess(tokenString string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := s.parse(tokenString, &claims, s.accessSecret); err != nil {
		return nil, err
	}

	if claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}

	return &claims, nil
}

// VerifyRefresh parses and validates a refresh token.
func (s *TokenService) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	var claims RefreshClaims
	if err := s.parse(tokenString, &claims, s.refreshSecret); err != nil {
		return nil, err
	}

	if claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}

	return &claims, nil
}

func (s *TokenService) parse(tokenString string, claims jwt.Claims, secret []byte) error {
	if tokenString == "" {
		return ErrTokenInvalid
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	return nil
}
