// Package auth signs and verifies the browser session cookie. The cookie
// carries only the opaque session id; everything else lives in the session
// store.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "bigmelo_session"

type SessionCookie struct {
	secret []byte
}

func NewSessionCookie(secret string) *SessionCookie {
	return &SessionCookie{secret: []byte(secret)}
}

// Issue signs a cookie for the given session. Persistent cookies expire with
// the session record; otherwise the cookie lasts for the browser session only.
func (s *SessionCookie) Issue(sessionID string, expires time.Time, persistent bool) (*http.Cookie, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if persistent {
		cookie.Expires = expires
		cookie.MaxAge = int(time.Until(expires).Seconds())
	}
	return cookie, nil
}

// Read extracts the session id from the request cookie. A missing cookie is
// not an error; it resolves to the empty id. Tampered or expired tokens fail.
func (s *SessionCookie) Read(r *http.Request) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", nil
	}
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(c.Value, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errors.New("invalid session cookie")
	}
	return claims.Subject, nil
}

// Clear produces the cookie directive that removes the session cookie.
func (s *SessionCookie) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	}
}
