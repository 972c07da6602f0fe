package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var testConfig = Config{
	Secret: "test-secret",
	Issuer: "fitzen-test",
	TTL:    time.Hour,
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// INFO: https://github.com/go-redis/redis/issues/1029
		goleak.IgnoreTopFunction(
			"github.com/go-redis/redis/v8/internal/pool.(*ConnPool).reaper",
		),
	)
}

func newTestService(t *testing.T, cfg Config, now time.Time, sessionID string) (*Service, redismock.ClientMock) {
	t.Helper()

	rdb, mock := redismock.NewClientMock()
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	service, err := NewService(cfg, rdb)
	require.NoError(t, err)
	service.Now = func() time.Time { return now }
	service.NewSessionID = func() string { return sessionID }

	return service, mock
}

func issueTestToken(t *testing.T, service *Service, mock redismock.ClientMock, userID int) string {
	t.Helper()

	now := service.Now()
	sessionID := service.NewSessionID()
	mock.ExpectSet(sessionKey(sessionID), now.Unix(), service.cfg.TTL).SetVal("OK")
	mock.ExpectSAdd(sessionsSetKey, sessionID).SetVal(1)

	token, err := service.IssueToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	return token
}

func TestNewService(t *testing.T) {
	_, err := NewService(Config{Issuer: "fitzen"}, nil)
	assert.Error(t, err)

	_, err = NewService(Config{Secret: "s"}, nil)
	assert.Error(t, err)

	service, err := NewService(Config{Secret: "s", Issuer: "fitzen"}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, service.cfg.TTL)
	assert.NotEmpty(t, service.NewSessionID())
}

func TestService_IssueAndResolve(t *testing.T) {
	now := time.Now()
	service, mock := newTestService(t, testConfig, now, "session-1")

	token := issueTestToken(t, service, mock, 42)

	// the token carries the user id and the session id
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "session-1", claims.ID)
	assert.Equal(t, testConfig.Issuer, claims.Issuer)

	mock.ExpectGet(sessionKey("session-1")).SetVal(fmt.Sprintf("%d", now.Unix()))
	identity, err := service.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 42, identity.UserID)
	assert.Equal(t, "session-1", identity.SessionID)
	assert.Equal(t, now.Add(time.Hour).Unix(), identity.ExpiresAt.Unix())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Resolve_Revoked(t *testing.T) {
	now := time.Now()
	service, mock := newTestService(t, testConfig, now, "session-2")
	token := issueTestToken(t, service, mock, 7)

	mock.ExpectGet(sessionKey("session-2")).RedisNil()
	_, err := service.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Resolve_InvalidTokens(t *testing.T) {
	now := time.Now()
	service, mock := newTestService(t, testConfig, now, "session-3")
	token := issueTestToken(t, service, mock, 7)

	_, err := service.Resolve(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = service.Resolve(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherSecretCfg := testConfig
	otherSecretCfg.Secret = "another-secret"
	otherService, _ := newTestService(t, otherSecretCfg, now, "x")
	_, err = otherService.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherIssuerCfg := testConfig
	otherIssuerCfg.Issuer = "someone-else"
	otherService, _ = newTestService(t, otherIssuerCfg, now, "x")
	_, err = otherService.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// expired
	service.Now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = service.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// none of the rejected tokens reached redis
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Logout(t *testing.T) {
	service, mock := newTestService(t, testConfig, time.Now(), "session-4")

	mock.ExpectDel(sessionKey("session-4")).SetVal(1)
	mock.ExpectSRem(sessionsSetKey, "session-4").SetVal(1)
	loggedOut, err := service.Logout(context.Background(), "session-4")
	require.NoError(t, err)
	assert.True(t, loggedOut)

	mock.ExpectDel(sessionKey("session-4")).SetVal(0)
	mock.ExpectSRem(sessionsSetKey, "session-4").SetVal(0)
	loggedOut, err = service.Logout(context.Background(), "session-4")
	require.NoError(t, err)
	assert.False(t, loggedOut)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ScanAndClean(t *testing.T) {
	now := time.Now()
	then := now.Add(-2 * time.Hour)
	service, mock := newTestService(t, testConfig, now, "unused")

	s1, s2, s3 := "old-session", "fresh-session", "expired-by-redis"
	mock.ExpectSMembers(sessionsSetKey).SetVal([]string{s1, s2, s3})
	mock.ExpectGet(sessionKey(s1)).SetVal(fmt.Sprintf("%d", then.Unix()))
	mock.ExpectGet(sessionKey(s2)).SetVal(fmt.Sprintf("%d", now.Unix()))
	mock.ExpectGet(sessionKey(s3)).RedisNil()
	// only the old and the already expired sessions are removed
	mock.ExpectDel(sessionKey(s1)).SetVal(1)
	mock.ExpectSRem(sessionsSetKey, s1).SetVal(1)
	mock.ExpectDel(sessionKey(s3)).SetVal(0)
	mock.ExpectSRem(sessionsSetKey, s3).SetVal(1)

	removed := service.ScanAndClean(context.Background())
	assert.Equal(t, 2, removed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ScanAndClean_NoSessions(t *testing.T) {
	service, mock := newTestService(t, testConfig, time.Now(), "unused")

	mock.ExpectSMembers(sessionsSetKey).SetVal([]string{})
	assert.Equal(t, 0, service.ScanAndClean(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{UserID: 3, SessionID: "s"})
	identity, ok := IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, 3, identity.UserID)
	assert.Equal(t, "s", identity.SessionID)
}
