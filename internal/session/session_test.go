package session

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	jwt "github.com/dgrijalva/jwt-go"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	errorspkg "campusmarket/internal/types/errors"
)

func setupTestRepo(t *testing.T) (*SessionRepository, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	logger := zaptest.NewLogger(t).Sugar()
	repo := NewSessionRepository(rdb, logger, "secret", 15*time.Minute)

	return repo, mr
}

func TestCreateSession(t *testing.T) {
	repo, mr := setupTestRepo(t)
	defer mr.Close()

	sess, token, err := repo.CreateSession(context.Background(), 123, "user@campus.edu", "student")
	assert.NoError(t, err)
	assert.NotNil(t, sess)
	assert.Equal(t, int64(123), sess.UserID)
	assert.Equal(t, "student", sess.Role)
	assert.NotEmpty(t, token)

	// Session landed in Redis
	val, err := mr.Get(sess.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, val)

	// The returned token resolves back to the stored session
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resolved, err := repo.CheckSession(req)
	assert.NoError(t, err)
	assert.Equal(t, sess.ID, resolved.ID)
	assert.Equal(t, int64(123), resolved.UserID)
}

func TestCreateSession_RedisDown(t *testing.T) {
	repo, mr := setupTestRepo(t)
	mr.Close()

	sess, token, err := repo.CreateSession(context.Background(), 123, "user@campus.edu", "student")
	assert.Error(t, err)
	assert.Nil(t, sess)
	assert.Empty(t, token)
}

func TestCheckSession_Success(t *testing.T) {
	repo, mr := setupTestRepo(t)
	defer mr.Close()

	sessionData := Session{
		ID:        "session-1",
		UserID:    42,
		Role:      "student",
		StartTime: time.Now().Add(-5 * time.Minute),
		EndTime:   time.Now().Add(10 * time.Minute),
	}
	data, _ := json.Marshal(sessionData) // nolint:errcheck
	mr.Set("session-1", string(data))    // nolint:errcheck

	tokenStr := generateJWT(t, "secret", sessionData.ID, sessionData.UserID)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)

	result, err := repo.CheckSession(req)
	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, sessionData.ID, result.ID)
	assert.Equal(t, int64(42), result.UserID)
}

func TestCheckSession_MissingAuthHeader(t *testing.T) {
	repo, _ := setupTestRepo(t)

	req := httptest.NewRequest("GET", "/", nil)

	sess, err := repo.CheckSession(req)
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, errorspkg.ErrNoAuth)
}

func TestCheckSession_InvalidToken(t *testing.T) {
	repo, _ := setupTestRepo(t)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer invalid.token.value")

	sess, err := repo.CheckSession(req)
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, errorspkg.ErrNoAuth)
}

func TestCheckSession_SessionExpired(t *testing.T) {
	repo, mr := setupTestRepo(t)
	defer mr.Close()

	sessionData := Session{
		ID:        "expired-session",
		UserID:    42,
		StartTime: time.Now().Add(-30 * time.Minute),
		EndTime:   time.Now().Add(-10 * time.Minute),
	}
	data, _ := json.Marshal(sessionData)    // nolint:errcheck
	mr.Set("expired-session", string(data)) // nolint:errcheck

	tokenStr := generateJWT(t, "secret", sessionData.ID, sessionData.UserID)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)

	sess, err := repo.CheckSession(req)
	assert.Nil(t, sess)
	assert.ErrorIs(t, err, errorspkg.ErrSessionIsExpired)

	// The expired session gets evicted.
	exists := mr.Exists("expired-session")
	assert.False(t, exists)
}

func TestExtendSession(t *testing.T) {
	repo, mr := setupTestRepo(t)
	defer mr.Close()

	sessionData := Session{
		ID:        "session-2",
		UserID:    7,
		StartTime: time.Now().Add(-5 * time.Minute),
		EndTime:   time.Now().Add(1 * time.Minute),
	}
	data, _ := json.Marshal(sessionData) // nolint:errcheck
	mr.Set("session-2", string(data))    // nolint:errcheck

	err := repo.ExtendSession(context.Background(), "session-2")
	assert.NoError(t, err)

	raw, err := mr.Get("session-2")
	assert.NoError(t, err)

	var stored Session
	assert.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.True(t, stored.EndTime.After(sessionData.EndTime))
}

func TestExtendSession_NotFound(t *testing.T) {
	repo, mr := setupTestRepo(t)
	defer mr.Close()

	err := repo.ExtendSession(context.Background(), "missing")
	assert.ErrorIs(t, err, errorspkg.ErrSessionNotFound)
}

func generateJWT(t *testing.T, secret, sessionID string, userID int64) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": sessionID,
		"id":         userID,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(15 * time.Minute).Unix(),
	})

	tokenStr, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)

	return tokenStr
}
