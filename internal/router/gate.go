package router

import (
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/handler"
	"storefront/internal/logging"
)

var errNoSession = errors.New("no valid session")

// Gate resolves the session cookie on protected routes.
type Gate struct {
	sessions *auth.SessionManager
	log      logging.Logger
}

// NewGate creates a session gate.
func NewGate(sessions *auth.SessionManager, log logging.Logger) *Gate {
	return &Gate{sessions: sessions, log: log}
}

// Middleware rejects requests without a valid session cookie. A valid
// session is refreshed with a new expiry and stored under handler.SessionKey.
// Browsers are redirected to /login; API clients get 401.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup:    "cookie:" + auth.CookieName,
		ContextKey:     handler.SessionKey,
		ParseTokenFunc: g.parse,
		ErrorHandler:   g.reject,
	})
}

func (g *Gate) parse(c echo.Context, token string) (interface{}, error) {
	fresh, session, ok := g.sessions.Refresh(c.Request().Context(), token)
	if !ok {
		return nil, errNoSession
	}
	c.SetCookie(g.sessions.Cookie(fresh, session.ExpiresAt))
	return session, nil
}

func (g *Gate) reject(c echo.Context, err error) error {
	if _, cookieErr := c.Cookie(auth.CookieName); cookieErr == nil {
		// Present but invalid or expired.
		c.SetCookie(g.sessions.RevokeCookie())
	}

	if wantsHTML(c.Request()) {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	resp := apperrors.MapErrorToHTTP(apperrors.ErrNotAuthenticated)
	return echo.NewHTTPError(resp.StatusCode, resp.ToResponse()).SetInternal(err)
}

// RedirectIfAuthenticated sends logged in browsers away from /login and
// /signup.
func (g *Gate) RedirectIfAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		if c.Request().Method != http.MethodGet || (path != "/login" && path != "/signup") {
			return next(c)
		}
		cookie, err := c.Cookie(auth.CookieName)
		if err != nil {
			return next(c)
		}
		if _, ok := g.sessions.Validate(c.Request().Context(), cookie.Value); ok {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return next(c)
	}
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
