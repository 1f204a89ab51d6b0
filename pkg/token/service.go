package token

import (
	"context"
	"fmt"
	"time"
)

// Store persists issued token JTIs so they can be revoked server-side
// (logout, account deletion) ahead of their natural expiry.
type Store interface {
	StoreToken(ctx context.Context, jti string, userID int, kind string, ttl time.Duration) error
	TokenExists(ctx context.Context, jti string, kind string) (bool, error)
	RevokeToken(ctx context.Context, jti string, kind string, userID int) error
	RevokeAllUserTokens(ctx context.Context, userID int) error
}

// Service mints JWTs and tracks them in Store for revocation.
type Service struct {
	generator       Generator
	store           Store
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewService(generator Generator, store Store, accessTokenTTL, refreshTokenTTL time.Duration) *Service {
	return &Service{
		generator:       generator,
		store:           store,
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// IssuePair mints an access and a refresh token for userID and records both
// JTIs in the store.
func (s *Service) IssuePair(ctx context.Context, userID int) (accessToken, refreshToken string, err error) {
	accessToken, accessJTI, err := s.generator.Generate(userID, KindAccess)
	if err != nil {
		return "", "", fmt.Errorf("generate access token: %w", err)
	}
	if err := s.store.StoreToken(ctx, accessJTI, userID, string(KindAccess), s.accessTokenTTL); err != nil {
		return "", "", fmt.Errorf("store access token: %w", err)
	}

	refreshToken, refreshJTI, err := s.generator.Generate(userID, KindRefresh)
	if err != nil {
		return "", "", fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.store.StoreToken(ctx, refreshJTI, userID, string(KindRefresh), s.refreshTokenTTL); err != nil {
		return "", "", fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// Verify validates tokenString's signature/expiry and confirms it has not
// been revoked.
func (s *Service) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.generator.Verify(tokenString)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	exists, err := s.store.TokenExists(ctx, claims.ID, string(claims.Kind))
	if err != nil {
		return nil, fmt.Errorf("check token status: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("token has been revoked")
	}

	return claims, nil
}

// Revoke revokes a single token ahead of its expiry (logout).
func (s *Service) Revoke(ctx context.Context, tokenString string) error {
	claims, err := s.generator.Verify(tokenString)
	if err != nil {
		return nil // already unusable
	}
	return s.store.RevokeToken(ctx, claims.ID, string(claims.Kind), claims.UserID)
}

// RevokeAllUserTokens revokes every outstanding token for userID (logout
// everywhere, account deletion).
func (s *Service) RevokeAllUserTokens(ctx context.Context, userID int) error {
	return s.store.RevokeAllUserTokens(ctx, userID)
}
