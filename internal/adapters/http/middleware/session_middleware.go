package middleware

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/bigmelo-com/bigmelo-dashboard/internal/application"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/domain"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/infrastructure/auth"
)

const (
	// SessionDataKey holds the resolved domain.SessionData in the echo context.
	SessionDataKey = "sessionData"
	// SessionIDKey holds the raw session id from the cookie.
	SessionIDKey = "sessionID"
)

// SessionData returns the session placed in the context by RequireSession.
func SessionData(c echo.Context) domain.SessionData {
	data, _ := c.Get(SessionDataKey).(domain.SessionData)
	return data
}

func loginRedirect(c echo.Context) error {
	target := c.Request().URL.Path
	if q := c.Request().URL.RawQuery; q != "" {
		target += "?" + q
	}
	return c.Redirect(http.StatusFound, "/login?redirectTo="+url.QueryEscape(target))
}

// RequireSession guards authenticated routes. Anonymous requests bounce to
// the login page carrying the original URL; a cookie pointing at a corrupt
// session is cleared and the request bounced to the root.
func RequireSession(sessions *application.SessionService, cookie *auth.SessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID, err := cookie.Read(c.Request())
			if err != nil {
				c.SetCookie(cookie.Clear())
				return loginRedirect(c)
			}
			data, err := sessions.Resolve(c.Request().Context(), sessionID)
			if errors.Is(err, domain.ErrSessionOrphaned) {
				c.SetCookie(cookie.Clear())
				return c.Redirect(http.StatusFound, "/")
			}
			if err != nil {
				return err
			}
			if data == nil {
				return loginRedirect(c)
			}
			c.Set(SessionDataKey, *data)
			c.Set(SessionIDKey, sessionID)
			return next(c)
		}
	}
}

// RequireAnonymous keeps logged-in users away from the login page.
func RequireAnonymous(sessions *application.SessionService, cookie *auth.SessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID, err := cookie.Read(c.Request())
			if err != nil || sessionID == "" {
				return next(c)
			}
			data, err := sessions.Resolve(c.Request().Context(), sessionID)
			if err == nil && data != nil {
				return c.Redirect(http.StatusFound, "/dashboard")
			}
			return next(c)
		}
	}
}
