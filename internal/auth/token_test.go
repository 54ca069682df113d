package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueAndVerifyToken(t *testing.T) {
	tokenString, err := IssueToken(testSecret, "user-123", "user@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := VerifyToken(testSecret, tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.NotEmpty(t, claims.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	tokenString, err := IssueToken(testSecret, "user-123", "user@example.com", time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken("another-secret", tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	tokenString, err := IssueToken(testSecret, "user-123", "user@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(testSecret, tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	_, err := VerifyToken(testSecret, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func setupTestDenylist(t *testing.T) (*Denylist, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	require.NoError(t, client.Ping(context.Background()).Err())

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return NewDenylist(client), mr
}

func TestDenylist_RevokeAndCheck(t *testing.T) {
	denylist, _ := setupTestDenylist(t)
	ctx := context.Background()

	revoked, err := denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "fresh token should not be revoked")

	err = denylist.Revoke(ctx, "jti-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	revoked, err = denylist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked, "revoked token should be flagged")
}

func TestDenylist_ExpiredTokenIsNoop(t *testing.T) {
	denylist, mr := setupTestDenylist(t)
	ctx := context.Background()

	// Revoking an already-expired token stores nothing
	err := denylist.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, mr.Exists("revoked_token:jti-old"))
}

func TestDenylist_EntryExpiresWithToken(t *testing.T) {
	denylist, mr := setupTestDenylist(t)
	ctx := context.Background()

	require.NoError(t, denylist.Revoke(ctx, "jti-2", time.Now().Add(time.Minute)))

	mr.FastForward(2 * time.Minute)

	revoked, err := denylist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "denylist entry should expire with the token")
}
