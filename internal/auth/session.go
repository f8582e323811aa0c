package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"storefront/internal/logging"
)

const (
	// CookieName is the name of the cookie carrying the session token.
	CookieName = "session"
	// DefaultSessionTTL is the token validity and cookie lifetime.
	DefaultSessionTTL = 7 * 24 * time.Hour
)

var (
	errUnexpectedMethod = errors.New("unexpected signing method")
	errInvalidToken     = errors.New("invalid token")
	errExpiredToken     = errors.New("token expired")
	errMalformedClaims  = errors.New("malformed session claims")
)

// Session is the authenticated identity carried by a valid token.
type Session struct {
	UserID    uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims represents the signed session claim set.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// SessionManager issues, validates and refreshes signed session tokens and
// builds the cookies that carry them. Tokens are not stored server side.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	log    logging.Logger
	now    func() time.Time
}

// NewSessionManager creates a session manager signing with secret (HS256).
// A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionManager(secret string, ttl time.Duration, secure bool, log logging.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		log:    log,
		now:    time.Now,
	}
}

// TTL returns the session validity window.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue mints a signed token for the identity. It has no side effects.
func (m *SessionManager) Issue(userID uuid.UUID, email, name string) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := &Claims{
		UserID: userID.String(),
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate returns the session carried by token, or false when the token is
// malformed, signed with another algorithm or key, or expired. It never
// fails loudly; rejections are logged.
func (m *SessionManager) Validate(ctx context.Context, token string) (*Session, bool) {
	if token == "" {
		return nil, false
	}
	session, err := m.parse(token)
	if err != nil {
		m.log.Warn(ctx, "session validation failed", "error", err)
		return nil, false
	}
	return session, true
}

// Refresh re-validates token and mints a replacement with the same identity
// and a fresh expiry.
func (m *SessionManager) Refresh(ctx context.Context, token string) (string, *Session, bool) {
	session, ok := m.Validate(ctx, token)
	if !ok {
		return "", nil, false
	}

	fresh, expiresAt, err := m.Issue(session.UserID, session.Email, session.Name)
	if err != nil {
		m.log.Error(ctx, "session refresh failed", "error", err)
		return "", nil, false
	}
	session.ExpiresAt = expiresAt
	return fresh, session, true
}

func (m *SessionManager) parse(tokenString string) (*Session, error) {
	// Time-based claims are checked below against m.now.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedMethod
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}

	now := m.now()
	if claims.ExpiresAt == nil || !claims.VerifyExpiresAt(now, true) {
		return nil, errExpiredToken
	}
	if !claims.VerifyNotBefore(now, false) {
		return nil, errInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || claims.Email == "" {
		return nil, errMalformedClaims
	}

	return &Session{
		UserID:    userID,
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Cookie returns the session cookie carrying token until expiresAt.
func (m *SessionManager) Cookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// RevokeCookie returns an already expired session cookie. Setting it clears
// the session on the client.
func (m *SessionManager) RevokeCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
