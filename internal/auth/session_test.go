package auth

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/logging"
)

const testSecret = "test-secret-test-secret-test-secret"

func newTestManager(ttl time.Duration) *SessionManager {
	return NewSessionManager(testSecret, ttl, false, logging.Nop())
}

func TestSessionManager_IssueThenValidate(t *testing.T) {
	m := newTestManager(time.Hour)
	userID := uuid.New()

	token, expiresAt, err := m.Issue(userID, "jane@example.com", "Jane")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, ok := m.Validate(context.Background(), token)
	require.True(t, ok)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, "jane@example.com", session.Email)
	assert.Equal(t, "Jane", session.Name)
	assert.WithinDuration(t, expiresAt, session.ExpiresAt, time.Second)
}

func TestSessionManager_ExpiredTokenIsAbsent(t *testing.T) {
	m := newTestManager(time.Hour)
	issuedAt := time.Now()
	m.now = func() time.Time { return issuedAt }

	token, _, err := m.Issue(uuid.New(), "jane@example.com", "Jane")
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(59 * time.Minute) }
	_, ok := m.Validate(context.Background(), token)
	assert.True(t, ok, "still valid before expiry")

	m.now = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	session, ok := m.Validate(context.Background(), token)
	assert.False(t, ok)
	assert.Nil(t, session)
}

func TestSessionManager_RejectsForeignInput(t *testing.T) {
	m := newTestManager(time.Hour)
	other := NewSessionManager("another-secret", time.Hour, false, logging.Nop())

	foreign, _, err := other.Issue(uuid.New(), "jane@example.com", "Jane")
	require.NoError(t, err)

	claims := &Claims{
		UserID: uuid.New().String(),
		Email:  "jane@example.com",
		Name:   "Jane",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: uuid.New().String(),
		Email:  "jane@example.com",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badUserID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: "not-a-uuid",
		Email:  "jane@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	valid, _, err := m.Issue(uuid.New(), "jane@example.com", "Jane")
	require.NoError(t, err)
	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"other secret", foreign},
		{"wrong algorithm", hs512},
		{"alg none", unsigned},
		{"missing expiry", noExpiry},
		{"malformed user id", badUserID},
		{"tampered payload", tampered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, ok := m.Validate(context.Background(), tt.token)
			assert.False(t, ok)
			assert.Nil(t, session)
		})
	}
}

func TestSessionManager_RefreshExtendsExpiry(t *testing.T) {
	m := newTestManager(time.Hour)
	start := time.Now()
	m.now = func() time.Time { return start }

	userID := uuid.New()
	token, firstExpiry, err := m.Issue(userID, "jane@example.com", "Jane")
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(30 * time.Minute) }
	fresh, session, ok := m.Refresh(context.Background(), token)
	require.True(t, ok)
	assert.NotEqual(t, token, fresh)
	assert.Equal(t, userID, session.UserID)
	assert.True(t, session.ExpiresAt.After(firstExpiry))

	// The refreshed token outlives the first one.
	m.now = func() time.Time { return start.Add(80 * time.Minute) }
	_, ok = m.Validate(context.Background(), token)
	assert.False(t, ok)
	_, ok = m.Validate(context.Background(), fresh)
	assert.True(t, ok)
}

func TestSessionManager_RefreshInvalidToken(t *testing.T) {
	m := newTestManager(time.Hour)

	fresh, session, ok := m.Refresh(context.Background(), "bogus")
	assert.False(t, ok)
	assert.Nil(t, session)
	assert.Empty(t, fresh)
}

func TestSessionManager_Cookies(t *testing.T) {
	m := NewSessionManager(testSecret, 7*24*time.Hour, true, logging.Nop())
	expiresAt := time.Now().Add(m.TTL())

	c := m.Cookie("tok", expiresAt)
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), c.MaxAge, "cookie lifetime matches token validity")

	r := m.RevokeCookie()
	assert.Equal(t, CookieName, r.Name)
	assert.Empty(t, r.Value)
	assert.Less(t, r.MaxAge, 0)
	assert.True(t, r.Expires.Before(time.Now()))
}

func TestNewSessionManager_DefaultTTL(t *testing.T) {
	m := NewSessionManager(testSecret, 0, false, logging.Nop())
	assert.Equal(t, DefaultSessionTTL, m.TTL())
}
