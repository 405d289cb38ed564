package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medquizai/medquiz-backend/internal/config"
	"github.com/medquizai/medquiz-backend/internal/model"
	"github.com/medquizai/medquiz-backend/internal/store"
)

// ErrInvalidAccessCode is returned by Unlock for codes outside the allow-list.
var ErrInvalidAccessCode = errors.New("access code not recognized")

// Claims extends JWT standard claims with the client identity. The token is
// only a transport credential: session validity is always decided by the
// stored authorization record, not by the token's own expiry.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"client_id"`
}

// UnlockResult carries the minted token and derived expiry of a fresh session.
type UnlockResult struct {
	Token     string
	ExpiresAt int64 // epoch ms
}

// AuthService owns the unlock/check/logout lifecycle of the access gate.
// It is the sole writer of authorization records in the store.
type AuthService struct {
	cfg   *config.Config
	store store.Store
	codes map[string]struct{}
	log   zerolog.Logger
}

// NewAuthService creates an AuthService. The allow-list is normalized once
// here so comparisons at unlock time are a set lookup.
func NewAuthService(cfg *config.Config, st store.Store, log zerolog.Logger) *AuthService {
	codes := make(map[string]struct{}, len(cfg.AccessCodes))
	for _, code := range cfg.AccessCodes {
		codes[strings.ToLower(strings.TrimSpace(code))] = struct{}{}
	}
	return &AuthService{
		cfg:   cfg,
		store: st,
		codes: codes,
		log:   log.With().Str("component", "auth_service").Logger(),
	}
}

// CheckSession reads and validates the client's stored authorization record.
// A missing, malformed, non-granted, or expired record yields an unauthorized
// session; invalid records are purged so the next check starts clean. Storage
// failures are never surfaced — they degrade to "not authorized".
func (s *AuthService) CheckSession(ctx context.Context, clientID string) model.Session {
	key := config.StoreKey.AuthRecord(clientID)

	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("Session read failed")
		return model.Session{}
	}
	if !ok {
		return model.Session{}
	}

	var record model.AuthorizationRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil || record.Status != model.AuthStatusGranted {
		s.purge(ctx, key)
		return model.Session{}
	}

	expiresAt := record.Timestamp + s.cfg.SessionDuration.Milliseconds()
	if time.Now().UnixMilli() >= expiresAt {
		s.purge(ctx, key)
		return model.Session{}
	}

	return model.Session{Authorized: true, ExpiresAt: expiresAt}
}

// Unlock validates a submitted access code against the allow-list. The code
// is trimmed and lower-cased first, so case and surrounding whitespace never
// matter. On success a fresh authorization record is written and a JWT bound
// to the client is minted; on failure nothing changes.
func (s *AuthService) Unlock(ctx context.Context, clientID, code string) (*UnlockResult, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if _, ok := s.codes[normalized]; !ok {
		return nil, ErrInvalidAccessCode
	}

	now := time.Now()
	record := model.AuthorizationRecord{
		Status:    model.AuthStatusGranted,
		Timestamp: now.UnixMilli(),
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal authorization record: %w", err)
	}
	if err := s.store.Set(ctx, config.StoreKey.AuthRecord(clientID), string(raw)); err != nil {
		return nil, fmt.Errorf("store authorization record: %w", err)
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionDuration)),
		},
		ClientID: clientID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info().Str("client_id", clientID).Msg("Access granted")

	return &UnlockResult{
		Token:     signed,
		ExpiresAt: record.Timestamp + s.cfg.SessionDuration.Milliseconds(),
	}, nil
}

// Logout unconditionally removes the client's authorization record.
func (s *AuthService) Logout(ctx context.Context, clientID string) error {
	return s.store.Remove(ctx, config.StoreKey.AuthRecord(clientID))
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) purge(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to purge stale authorization record")
	}
}
