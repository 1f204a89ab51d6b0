package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind distinguishes a session token from a refresh token.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims are the JWT claims this service mints and verifies. JTI backs
// server-side revocation (pkg/redis); it has no meaning to the client.
type Claims struct {
	UserID int  `json:"user_id"`
	Kind   Kind `json:"kind"`
	jwt.RegisteredClaims
}

// Generator mints and verifies signed session tokens.
type Generator interface {
	Generate(userID int, kind Kind) (token string, jti string, err error)
	Verify(tokenString string) (*Claims, error)
}

type jwtGenerator struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewGenerator(secret string, accessTokenTTL, refreshTokenTTL time.Duration) Generator {
	return &jwtGenerator{
		secret:          []byte(secret),
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
	}
}

func (g *jwtGenerator) Generate(userID int, kind Kind) (string, string, error) {
	now := time.Now()
	ttl := g.accessTokenTTL
	if kind == KindRefresh {
		ttl = g.refreshTokenTTL
	}

	jti := uuid.NewString()
	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(g.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}

	return signed, jti, nil
}

func (g *jwtGenerator) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	return claims, nil
}
