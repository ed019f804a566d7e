package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by access and refresh tokens.
type Claims struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// TokenService issues and validates the three token kinds the API uses:
// access, refresh and single-purpose account verification tokens.
type TokenService interface {
	GenerateTokenPair(accountID uuid.UUID, email, role string) (*TokenPair, error)
	ValidateAccessToken(token string) (*Claims, error)
	ValidateRefreshToken(token string) (*Claims, error)
	GenerateVerificationToken(accountID uuid.UUID) (string, error)
	ValidateVerificationToken(token string) (uuid.UUID, error)
}

type Config struct {
	Secret        string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	VerifyExpiry  time.Duration
}

type jwtService struct {
	cfg Config
}

func NewJWTService(cfg Config) TokenService {
	if cfg.AccessExpiry == 0 {
		cfg.AccessExpiry = 24 * time.Hour
	}
	if cfg.RefreshExpiry == 0 {
		cfg.RefreshExpiry = 7 * 24 * time.Hour
	}
	if cfg.VerifyExpiry == 0 {
		cfg.VerifyExpiry = 48 * time.Hour
	}
	return &jwtService{cfg: cfg}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
}

const (
	purposeAccess  = "access"
	purposeRefresh = "refresh"
	purposeVerify  = "verify"
)

func (s *jwtService) GenerateTokenPair(accountID uuid.UUID, email, role string) (*TokenPair, error) {
	access, err := s.sign(s.cfg.Secret, accountID, email, role, purposeAccess, s.cfg.AccessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := s.sign(s.cfg.RefreshSecret, accountID, email, role, purposeRefresh, s.cfg.RefreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *jwtService) ValidateAccessToken(token string) (*Claims, error) {
	return s.validate(s.cfg.Secret, token, purposeAccess)
}

func (s *jwtService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.validate(s.cfg.RefreshSecret, token, purposeRefresh)
}

func (s *jwtService) GenerateVerificationToken(accountID uuid.UUID) (string, error) {
	return s.sign(s.cfg.Secret, accountID, "", "", purposeVerify, s.cfg.VerifyExpiry)
}

func (s *jwtService) ValidateVerificationToken(token string) (uuid.UUID, error) {
	claims, err := s.validate(s.cfg.Secret, token, purposeVerify)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.AccountID, nil
}

func (s *jwtService) sign(secret string, accountID uuid.UUID, email, role, purpose string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Email:   email,
		Role:    role,
		Purpose: purpose,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (s *jwtService) validate(secret, token, purpose string) (*Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Claims{AccountID: accountID, Email: claims.Email, Role: claims.Role}, nil
}
