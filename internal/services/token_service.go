package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken indicates the token is malformed or its signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")
	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")
	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")
)

// TokenService issues and verifies HMAC-SHA256 signed bearer tokens.
type TokenService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time
}

// tokenClaims defines the structure of the JWT claims we use
type tokenClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// NewTokenService creates a new TokenService.
func NewTokenService(secret string, lifetime time.Duration) *TokenService {
	return &TokenService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      time.Now,
	}
}

// NewTokenServiceWithClock creates a TokenService with an injected clock (used for testing).
func NewTokenServiceWithClock(secret string, lifetime time.Duration, now func() time.Time) *TokenService {
	return &TokenService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      now,
	}
}

// GenerateToken creates a signed access token carrying the user identifier.
func (s *TokenService) GenerateToken(userID uint64) (string, error) {
	now := s.timeFunc()

	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken verifies a token and returns the user identifier it carries.
// Expired, malformed and badly signed tokens are all rejected; callers treat
// every failure as unauthenticated.
func (s *TokenService) ValidateToken(tokenString string) (uint64, error) {
	if tokenString == "" {
		return 0, ErrMissingToken
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(func() time.Time {
			return s.timeFunc()
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.UserID, nil
}
