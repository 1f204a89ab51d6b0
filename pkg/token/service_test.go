package token_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code19m/pulsechat/pkg/token"
)

// memStore is an in-memory token.Store fake, good enough to exercise
// Service's issue/verify/revoke logic without a real Redis instance.
type memStore struct {
	mu     sync.Mutex
	tokens map[string]int // jti+kind -> userID
}

func newMemStore() *memStore {
	return &memStore{tokens: make(map[string]int)}
}

func key(jti, kind string) string { return kind + ":" + jti }

func (m *memStore) StoreToken(_ context.Context, jti string, userID int, kind string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key(jti, kind)] = userID
	return nil
}

func (m *memStore) TokenExists(_ context.Context, jti string, kind string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tokens[key(jti, kind)]
	return ok, nil
}

func (m *memStore) RevokeToken(_ context.Context, jti string, kind string, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key(jti, kind))
	return nil
}

func (m *memStore) RevokeAllUserTokens(_ context.Context, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, uid := range m.tokens {
		if uid == userID {
			delete(m.tokens, k)
		}
	}
	return nil
}

func newTestService() *token.Service {
	gen := token.NewGenerator("test-secret", 15*time.Minute, 24*time.Hour)
	return token.NewService(gen, newMemStore(), 15*time.Minute, 24*time.Hour)
}

func TestIssuePairAndVerify(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	access, refresh, err := svc.IssuePair(ctx, 42)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	claims, err := svc.Verify(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, token.KindAccess, claims.Kind)

	claims, err = svc.Verify(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, token.KindRefresh, claims.Kind)
}

func TestVerifyRejectsRevokedToken(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	access, _, err := svc.IssuePair(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, access))

	_, err = svc.Verify(ctx, access)
	assert.Error(t, err)
}

func TestRevokeAllUserTokensRevokesBothTokens(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	access, refresh, err := svc.IssuePair(ctx, 9)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllUserTokens(ctx, 9))

	_, err = svc.Verify(ctx, access)
	assert.Error(t, err)
	_, err = svc.Verify(ctx, refresh)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbageToken(t *testing.T) {
	svc := newTestService()
	_, err := svc.Verify(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}
